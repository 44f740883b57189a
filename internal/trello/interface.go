package trello

import (
	"context"

	"github.com/vytor/trelloflash/internal/models"
)

// ClientInterface defines the Trello operations the services depend on.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	ValidateToken(ctx context.Context) (bool, error)
	Boards(ctx context.Context) ([]models.Board, error)
	BoardLists(ctx context.Context, boardID string) ([]models.CardList, error)
	List(ctx context.Context, listID string) (*models.CardList, error)
	MoveCard(ctx context.Context, cardID, listID string) error
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
