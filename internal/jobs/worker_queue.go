package jobs

import (
	"sync"

	"github.com/vytor/trelloflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	movePool *worker.Pool
	mover    worker.CardMover

	mu       sync.RWMutex
	reporter worker.MoveReporter
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(movePool *worker.Pool, mover worker.CardMover) *WorkerQueue {
	return &WorkerQueue{
		movePool: movePool,
		mover:    mover,
	}
}

// SetReporter sets who is told about finished moves. The session service
// is built after the queue, so it is wired in afterwards.
func (q *WorkerQueue) SetReporter(r worker.MoveReporter) {
	q.mu.Lock()
	q.reporter = r
	q.mu.Unlock()
}

func (q *WorkerQueue) EnqueueMove(sessionID, cardID, listID string) error {
	q.mu.RLock()
	reporter := q.reporter
	q.mu.RUnlock()

	return q.movePool.Submit(&worker.MoveCardJob{
		Mover:     q.mover,
		Reporter:  reporter,
		SessionID: sessionID,
		CardID:    cardID,
		ListID:    listID,
	})
}
