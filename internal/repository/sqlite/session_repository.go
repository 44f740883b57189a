package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
	"github.com/vytor/trelloflash/internal/repository"
)

const defaultHistoryLimit = 50

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// InsertSession stores a finished session and its answers atomically.
func (r *sessionRepository) InsertSession(ctx context.Context, res models.SessionResult, answers []models.SessionAnswer) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, list_id=%s, correct=%d/%d, answers=%d", res.ID, res.ListID, res.Correct, res.DeckSize, len(answers))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO session_results (id, list_id, list_name, mode, requested, deck_size, correct, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, res.ID, res.ListID, res.ListName, res.Mode, res.Requested, res.DeckSize, res.Correct, res.StartedAt.UTC(), res.FinishedAt.UTC())
		if err != nil {
			log.Error("failed to insert session result: %v", err)
			return err
		}
		if len(answers) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO session_answers (session_id, position, card_id, correct, answered_at)
VALUES (?, ?, ?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, a := range answers {
			if _, err := stmt.ExecContext(ctx, a.SessionID, a.Position, a.CardID, a.Correct, a.AnsweredAt.UTC()); err != nil {
				log.Error("failed to insert answer session_id=%s position=%d: %v", a.SessionID, a.Position, err)
				return err
			}
		}
		return nil
	})
}

func historyWhere(q squirrel.SelectBuilder, filter models.SessionHistoryFilter) squirrel.SelectBuilder {
	if filter.ListID != "" {
		q = q.Where(squirrel.Eq{"list_id": filter.ListID})
	}
	return q
}

func (r *sessionRepository) ListResults(ctx context.Context, filter models.SessionHistoryFilter) ([]models.SessionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing session results: list_id=%s, limit=%d, offset=%d", filter.ListID, filter.Limit, filter.Offset)

	query := historyWhere(sqlBuilder.Select(
		"id", "list_id", "list_name", "mode", "requested", "deck_size", "correct", "started_at", "finished_at",
	).From("session_results"), filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.OrderBy("finished_at DESC", "id ASC").Limit(uint64(limit)).Offset(uint64(offset))

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list session results: %v", err)
		return nil, err
	}
	defer rows.Close()

	results := []models.SessionResult{}
	for rows.Next() {
		var s models.SessionResult
		if err := rows.Scan(&s.ID, &s.ListID, &s.ListName, &s.Mode, &s.Requested, &s.DeckSize, &s.Correct, &s.StartedAt, &s.FinishedAt); err != nil {
			log.Error("failed to scan session result row: %v", err)
			return nil, err
		}
		results = append(results, s)
	}
	log.Debug("found %d session results", len(results))
	return results, rows.Err()
}

func (r *sessionRepository) CountResults(ctx context.Context, filter models.SessionHistoryFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	stmt, args, err := historyWhere(sqlBuilder.Select("COUNT(*)").From("session_results"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		log.Error("failed to count session results: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *sessionRepository) Result(ctx context.Context, id string) (*models.SessionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	stmt, args, err := sqlBuilder.Select(
		"id", "list_id", "list_name", "mode", "requested", "deck_size", "correct", "started_at", "finished_at",
	).From("session_results").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var res models.SessionResult
	err = r.db.QueryRowContext(ctx, stmt, args...).Scan(
		&res.ID, &res.ListID, &res.ListName, &res.Mode, &res.Requested, &res.DeckSize, &res.Correct, &res.StartedAt, &res.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get session result: %v", err)
		return nil, err
	}
	return &res, nil
}

func (r *sessionRepository) Answers(ctx context.Context, sessionID string) ([]models.SessionAnswer, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT session_id, position, card_id, correct, answered_at
FROM session_answers
WHERE session_id = ?
ORDER BY position ASC
`, sessionID)
	if err != nil {
		log.Error("failed to list answers: %v", err)
		return nil, err
	}
	defer rows.Close()

	answers := []models.SessionAnswer{}
	for rows.Next() {
		var a models.SessionAnswer
		if err := rows.Scan(&a.SessionID, &a.Position, &a.CardID, &a.Correct, &a.AnsweredAt); err != nil {
			log.Error("failed to scan answer row: %v", err)
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
