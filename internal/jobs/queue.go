package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueMove schedules moving cardID to listID on behalf of a session.
	// It never blocks; a full or stopped queue returns an error.
	EnqueueMove(sessionID, cardID, listID string) error
}
