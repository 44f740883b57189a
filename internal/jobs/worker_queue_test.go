package jobs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/trelloflash/internal/jobs"
	"github.com/vytor/trelloflash/internal/testutil/mocks"
	"github.com/vytor/trelloflash/internal/worker"
)

type reporter struct {
	mu      sync.Mutex
	results map[string]error
	done    chan struct{}
}

func (r *reporter) ReportMoveResult(_, cardID string, err error) {
	r.mu.Lock()
	r.results[cardID] = err
	r.mu.Unlock()
	r.done <- struct{}{}
}

func TestWorkerQueue_EnqueueMove(t *testing.T) {
	client := new(mocks.MockTrelloClient)
	client.On("MoveCard", mock.Anything, "c1", "learned").Return(nil)

	pool := worker.NewPool("move", 1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	rep := &reporter{results: map[string]error{}, done: make(chan struct{}, 1)}
	q := jobs.NewWorkerQueue(pool, client)
	q.SetReporter(rep)

	require.NoError(t, q.EnqueueMove("s1", "c1", "learned"))

	select {
	case <-rep.done:
	case <-time.After(2 * time.Second):
		t.Fatal("move was not reported")
	}

	rep.mu.Lock()
	defer rep.mu.Unlock()
	assert.Contains(t, rep.results, "c1")
	assert.NoError(t, rep.results["c1"])
	client.AssertExpectations(t)
}

func TestWorkerQueue_StoppedPool(t *testing.T) {
	pool := worker.NewPool("move", 1, 1)
	pool.Start(context.Background())
	pool.Stop()

	q := jobs.NewWorkerQueue(pool, new(mocks.MockTrelloClient))
	assert.ErrorIs(t, q.EnqueueMove("s1", "c1", "l1"), worker.ErrStopped)
}
