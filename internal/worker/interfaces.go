package worker

import "context"

// CardMover moves a Trello card to another list.
// This avoids import cycles by not importing the trello package.
type CardMover interface {
	MoveCard(ctx context.Context, cardID, listID string) error
}

// MoveReporter receives the outcome of every card move.
type MoveReporter interface {
	ReportMoveResult(sessionID, cardID string, err error)
}
