package models

// Card is a single flashcard backed by a Trello card. The card title is the
// question and the description is the answer.
type Card struct {
	ID       string `json:"id"`
	ListID   string `json:"list_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Equal reports whether both cards refer to the same Trello card.
func (c Card) Equal(other Card) bool {
	return c.ID == other.ID
}

// CardList is a Trello list with its open cards in board order.
type CardList struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id,omitempty"`
	Name    string `json:"name"`
	Cards   []Card `json:"cards"`
}

// Equal reports whether both lists refer to the same Trello list.
func (l CardList) Equal(other CardList) bool {
	return l.ID == other.ID
}
