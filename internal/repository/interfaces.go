package repository

import (
	"context"
	"errors"

	"github.com/vytor/trelloflash/internal/models"
)

// ErrNotFound is returned when a row addressed by key does not exist.
var ErrNotFound = errors.New("repository: not found")

// SettingsRepository stores small key/value settings such as the Trello
// token and the last session preferences.
type SettingsRepository interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// HiddenBoardRepository handles the set of boards excluded from browsing
type HiddenBoardRepository interface {
	List(ctx context.Context) ([]models.HiddenBoard, error)
	Add(ctx context.Context, boardIDs ...string) error
	Remove(ctx context.Context, boardID string) error
	Reset(ctx context.Context) error
}

// SessionRepository handles finished session history
type SessionRepository interface {
	InsertSession(ctx context.Context, result models.SessionResult, answers []models.SessionAnswer) error
	ListResults(ctx context.Context, filter models.SessionHistoryFilter) ([]models.SessionResult, error)
	CountResults(ctx context.Context, filter models.SessionHistoryFilter) (int, error)
	// Result returns ErrNotFound for unknown ids.
	Result(ctx context.Context, id string) (*models.SessionResult, error)
	Answers(ctx context.Context, sessionID string) ([]models.SessionAnswer, error)
}
