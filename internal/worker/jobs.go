package worker

import (
	"context"

	"github.com/vytor/trelloflash/internal/logger"
)

// MoveCardJob moves an answered card and reports the outcome. Moves are
// fire-and-forget: the answer is already recorded when the job runs.
type MoveCardJob struct {
	Mover     CardMover
	Reporter  MoveReporter
	SessionID string
	CardID    string
	ListID    string
}

func (j *MoveCardJob) Name() string { return "move_card" }

func (j *MoveCardJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": j.SessionID,
		"card_id":    j.CardID,
		"list_id":    j.ListID,
	})
	log.Debug("moving card")

	err := j.Mover.MoveCard(ctx, j.CardID, j.ListID)
	if err != nil {
		log.Warn("card move failed: %v", err)
	}
	if j.Reporter != nil {
		j.Reporter.ReportMoveResult(j.SessionID, j.CardID, err)
	}
	return err
}
