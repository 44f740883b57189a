package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
	"github.com/vytor/trelloflash/internal/repository"
)

type hiddenBoardRepository struct {
	db *sql.DB
}

// NewHiddenBoardRepository creates a new HiddenBoardRepository implementation
func NewHiddenBoardRepository(db *sql.DB) repository.HiddenBoardRepository {
	return &hiddenBoardRepository{db: db}
}

func (r *hiddenBoardRepository) List(ctx context.Context) ([]models.HiddenBoard, error) {
	log := logger.FromContext(ctx).WithPrefix("hidden_board_repo")
	log.Debug("listing hidden boards")

	rows, err := r.db.QueryContext(ctx, `
SELECT board_id, hidden_at
FROM hidden_boards
ORDER BY hidden_at ASC, board_id ASC
`)
	if err != nil {
		log.Error("failed to list hidden boards: %v", err)
		return nil, err
	}
	defer rows.Close()

	boards := []models.HiddenBoard{}
	for rows.Next() {
		var b models.HiddenBoard
		if err := rows.Scan(&b.BoardID, &b.HiddenAt); err != nil {
			log.Error("failed to scan hidden board row: %v", err)
			return nil, err
		}
		boards = append(boards, b)
	}
	log.Debug("found %d hidden boards", len(boards))
	return boards, rows.Err()
}

// Add hides the given boards. Boards that are already hidden keep their
// original timestamp.
func (r *hiddenBoardRepository) Add(ctx context.Context, boardIDs ...string) error {
	log := logger.FromContext(ctx).WithPrefix("hidden_board_repo")
	if len(boardIDs) == 0 {
		return nil
	}
	log.Debug("hiding %d boards", len(boardIDs))

	now := time.Now().UTC()
	query := sqlBuilder.Insert("hidden_boards").Columns("board_id", "hidden_at")
	for _, id := range boardIDs {
		query = query.Values(id, now)
	}
	query = query.Suffix("ON CONFLICT(board_id) DO NOTHING")

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		log.Error("failed to hide boards: %v", err)
		return err
	}
	return nil
}

func (r *hiddenBoardRepository) Remove(ctx context.Context, boardID string) error {
	log := logger.FromContext(ctx).WithPrefix("hidden_board_repo")
	log.Debug("unhiding board: id=%s", boardID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM hidden_boards WHERE board_id = ?`, boardID)
	if err != nil {
		log.Error("failed to unhide board: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("board was not hidden: id=%s", boardID)
		return repository.ErrNotFound
	}
	return nil
}

func (r *hiddenBoardRepository) Reset(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("hidden_board_repo")
	log.Info("resetting hidden boards")

	_, err := r.db.ExecContext(ctx, `DELETE FROM hidden_boards`)
	if err != nil {
		log.Error("failed to reset hidden boards: %v", err)
	}
	return err
}
