package session

import (
	"math/rand"

	"github.com/vytor/trelloflash/internal/models"
)

// SelectDeck derives the deck for a session from the cards of a list.
// The result never aliases source, and source is never modified.
// A non-positive n yields an empty deck.
func SelectDeck(source []models.Card, mode Mode, n int) []models.Card {
	if n > len(source) {
		n = len(source)
	}
	if n <= 0 {
		return []models.Card{}
	}

	deck := make([]models.Card, n)
	switch mode {
	case Random:
		shuffled := make([]models.Card, len(source))
		copy(shuffled, source)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		copy(deck, shuffled[:n])
	case FromTop:
		copy(deck, source[:n])
	case FromBottom:
		tail := source[len(source)-n:]
		for i := range tail {
			deck[i] = tail[len(tail)-1-i]
		}
	default:
		panic("session: unknown selection mode " + mode.String())
	}
	return deck
}

// CardAmounts lists the deck sizes offered for a list of listSize cards:
// every preset below listSize in ascending order, then listSize itself,
// which stands for "all cards".
func CardAmounts(listSize int, presets []int) []int {
	if listSize <= 0 {
		return []int{0}
	}
	out := make([]int, 0, len(presets)+1)
	for _, p := range presets {
		if p <= 0 || p >= listSize {
			continue
		}
		if len(out) > 0 && p <= out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return append(out, listSize)
}
