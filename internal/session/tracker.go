package session

import (
	"errors"
	"fmt"

	"github.com/vytor/trelloflash/internal/models"
)

// ErrOutOfRange is returned when a position does not index into the deck.
var ErrOutOfRange = errors.New("position out of range")

// Tracker records answers for a fixed deck and decides which card comes
// next. It is not safe for concurrent use; the owner serializes calls.
type Tracker struct {
	deck     []models.Card
	answered map[int]bool
}

// NewTracker copies deck and starts with no answers.
func NewTracker(deck []models.Card) *Tracker {
	d := make([]models.Card, len(deck))
	copy(d, deck)
	return &Tracker{
		deck:     d,
		answered: make(map[int]bool, len(d)),
	}
}

// Len is the deck size.
func (t *Tracker) Len() int {
	return len(t.deck)
}

// Deck returns a copy of the deck.
func (t *Tracker) Deck() []models.Card {
	d := make([]models.Card, len(t.deck))
	copy(d, t.deck)
	return d
}

// Card returns the card at position.
func (t *Tracker) Card(position int) (models.Card, error) {
	if err := t.check(position); err != nil {
		return models.Card{}, err
	}
	return t.deck[position], nil
}

func (t *Tracker) check(position int) error {
	if position < 0 || position >= len(t.deck) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, position, len(t.deck))
	}
	return nil
}

// RecordAnswer marks position as answered. Answering the same position
// twice keeps the last outcome.
func (t *Tracker) RecordAnswer(position int, correct bool) error {
	if err := t.check(position); err != nil {
		return err
	}
	t.answered[position] = correct
	return nil
}

// Answer reports the recorded outcome for position.
func (t *Tracker) Answer(position int) (correct, answered bool) {
	correct, answered = t.answered[position]
	return correct, answered
}

// NextUnanswered returns the smallest unanswered position greater than
// after, or Len() when there is none. Pass -1 to search from the start.
func (t *Tracker) NextUnanswered(after int) int {
	start := after + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(t.deck); i++ {
		if _, ok := t.answered[i]; !ok {
			return i
		}
	}
	return len(t.deck)
}

// FirstUnanswered is NextUnanswered(-1).
func (t *Tracker) FirstUnanswered() int {
	return t.NextUnanswered(-1)
}

// Advance picks the card to show after position was answered: the next
// unanswered card after it, otherwise the first skipped one. done is true
// once every card has an answer.
func (t *Tracker) Advance(position int) (next int, done bool) {
	if next = t.NextUnanswered(position); next < len(t.deck) {
		return next, false
	}
	if next = t.FirstUnanswered(); next < len(t.deck) {
		return next, false
	}
	return len(t.deck), true
}

// IsComplete reports whether every card has been answered.
func (t *Tracker) IsComplete() bool {
	return len(t.answered) == len(t.deck)
}

// AnsweredCount is the number of answered cards.
func (t *Tracker) AnsweredCount() int {
	return len(t.answered)
}

// CorrectCount is the number of cards answered correctly.
func (t *Tracker) CorrectCount() int {
	n := 0
	for _, ok := range t.answered {
		if ok {
			n++
		}
	}
	return n
}
