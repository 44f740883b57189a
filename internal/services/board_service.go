package services

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/vytor/trelloflash/internal/errors"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
	"github.com/vytor/trelloflash/internal/repository"
	"github.com/vytor/trelloflash/internal/session"
	"github.com/vytor/trelloflash/internal/trello"
)

// BoardService handles browsing boards and lists
type BoardService interface {
	ListBoards(ctx context.Context) ([]models.Board, error)
	ListLists(ctx context.Context, boardID string) ([]models.ListWithOptions, error)
	HiddenBoards(ctx context.Context) ([]models.HiddenBoard, error)
	HideBoards(ctx context.Context, boardIDs ...string) error
	UnhideBoard(ctx context.Context, boardID string) error
	ResetHiddenBoards(ctx context.Context) error
}

type boardService struct {
	client      trello.ClientInterface
	hiddenRepo  repository.HiddenBoardRepository
	cardAmounts []int
}

// NewBoardService creates a new BoardService. cardAmounts are the presets
// offered for every list.
func NewBoardService(client trello.ClientInterface, hiddenRepo repository.HiddenBoardRepository, cardAmounts []int) BoardService {
	return &boardService{client: client, hiddenRepo: hiddenRepo, cardAmounts: cardAmounts}
}

func (s *boardService) ListBoards(ctx context.Context) ([]models.Board, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing boards")

	boards, err := s.client.Boards(ctx)
	if err != nil {
		log.Warn("failed to fetch boards: %v", err)
		return nil, errors.FromDomain(err)
	}

	hidden, err := s.hiddenRepo.List(ctx)
	if err != nil {
		log.Error("failed to load hidden boards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	visible := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		isHidden := slices.ContainsFunc(hidden, func(h models.HiddenBoard) bool {
			return b.Equal(models.Board{ID: h.BoardID})
		})
		if !isHidden {
			visible = append(visible, b)
		}
	}
	log.Debug("showing %d of %d boards", len(visible), len(boards))
	return visible, nil
}

func (s *boardService) ListLists(ctx context.Context, boardID string) ([]models.ListWithOptions, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing lists: board_id=%s", boardID)

	if strings.TrimSpace(boardID) == "" {
		return nil, errors.NewValidationError("board_id", "cannot be empty")
	}

	lists, err := s.client.BoardLists(ctx, boardID)
	if err != nil {
		log.Warn("failed to fetch lists: %v", err)
		return nil, errors.FromDomain(err)
	}

	out := make([]models.ListWithOptions, 0, len(lists))
	for _, l := range lists {
		out = append(out, models.ListWithOptions{
			CardList:      l,
			AmountOptions: session.CardAmounts(len(l.Cards), s.cardAmounts),
		})
	}
	return out, nil
}

func (s *boardService) HiddenBoards(ctx context.Context) ([]models.HiddenBoard, error) {
	boards, err := s.hiddenRepo.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load hidden boards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return boards, nil
}

func (s *boardService) HideBoards(ctx context.Context, boardIDs ...string) error {
	log := logger.FromContext(ctx)

	if len(boardIDs) == 0 {
		return errors.NewValidationError("ids", "at least one board id is required")
	}
	for _, id := range boardIDs {
		if strings.TrimSpace(id) == "" {
			return errors.NewValidationError("ids", "board ids cannot be empty")
		}
	}

	if err := s.hiddenRepo.Add(ctx, boardIDs...); err != nil {
		log.Error("failed to hide boards: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("hid %d boards", len(boardIDs))
	return nil
}

func (s *boardService) UnhideBoard(ctx context.Context, boardID string) error {
	log := logger.FromContext(ctx)

	err := s.hiddenRepo.Remove(ctx, boardID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError("hidden board", boardID)
	}
	if err != nil {
		log.Error("failed to unhide board: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *boardService) ResetHiddenBoards(ctx context.Context) error {
	if err := s.hiddenRepo.Reset(ctx); err != nil {
		logger.FromContext(ctx).Error("failed to reset hidden boards: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
