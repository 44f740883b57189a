package models

import "time"

type SessionResult struct {
	ID         string    `json:"id"`
	ListID     string    `json:"list_id"`
	ListName   string    `json:"list_name"`
	Mode       string    `json:"mode"`
	Requested  int       `json:"requested"`
	DeckSize   int       `json:"deck_size"`
	Correct    int       `json:"correct"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type SessionAnswer struct {
	SessionID  string    `json:"session_id"`
	Position   int       `json:"position"`
	CardID     string    `json:"card_id"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

type SessionHistoryFilter struct {
	ListID string
	Limit  int
	Offset int
}

// Preferences are the session defaults remembered between sessions.
type Preferences struct {
	SelectionMode string `json:"selection_mode"`
	CardCount     int    `json:"card_count"`
}
