package session

import (
	"fmt"
	"strings"
)

// Mode decides which cards of a list end up in a session deck and in which
// order.
type Mode int

const (
	// Random shuffles the list and takes the first n cards.
	Random Mode = iota
	// FromTop takes the first n cards in list order.
	FromTop
	// FromBottom takes the last n cards, last card first.
	FromBottom
)

func (m Mode) String() string {
	switch m {
	case Random:
		return "random"
	case FromTop:
		return "top"
	case FromBottom:
		return "bottom"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "random", "top" and "bottom" (any case, with an
// optional "from_" prefix) as well as the numeric codes 0, 1 and 2.
func ParseMode(s string) (Mode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "from_")
	switch v {
	case "random", "at_random", "0":
		return Random, nil
	case "top", "1":
		return FromTop, nil
	case "bottom", "2":
		return FromBottom, nil
	}
	return Random, fmt.Errorf("unknown selection mode %q", s)
}
