package models

import "time"

// StandardBoardColor is used for boards with a background image or an
// unparseable background color.
const StandardBoardColor = "#0079bf"

type Board struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Equal reports whether both boards refer to the same Trello board.
func (b Board) Equal(other Board) bool {
	return b.ID == other.ID
}

type HiddenBoard struct {
	BoardID  string    `json:"board_id"`
	HiddenAt time.Time `json:"hidden_at"`
}

// ListWithOptions is a list as presented for session setup, with the card
// amounts a user can pick from.
type ListWithOptions struct {
	CardList
	AmountOptions []int `json:"amount_options"`
}
