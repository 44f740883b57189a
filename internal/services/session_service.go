package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/trelloflash/internal/errors"
	"github.com/vytor/trelloflash/internal/jobs"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
	"github.com/vytor/trelloflash/internal/repository"
	"github.com/vytor/trelloflash/internal/session"
	"github.com/vytor/trelloflash/internal/trello"
)

type SessionStatus string

const (
	StatusLoading  SessionStatus = "loading"
	StatusActive   SessionStatus = "active"
	StatusFailed   SessionStatus = "failed"
	StatusComplete SessionStatus = "complete"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// StartSessionRequest describes a new study session. Empty target lists
// mean the card stays where it is. Mode and Count fall back to the stored
// preferences.
type StartSessionRequest struct {
	ListID        string `json:"list_id" validate:"required"`
	CorrectListID string `json:"correct_list_id"`
	WrongListID   string `json:"wrong_list_id"`
	Mode          string `json:"mode"`
	Count         *int   `json:"count" validate:"omitempty,min=1"`
}

type AnswerView struct {
	Position int    `json:"position"`
	CardID   string `json:"card_id"`
	Correct  bool   `json:"correct"`
}

type MoveFailure struct {
	CardID  string    `json:"card_id"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// SessionView is a snapshot of a live session.
type SessionView struct {
	ID            string        `json:"id"`
	Status        SessionStatus `json:"status"`
	ListID        string        `json:"list_id"`
	ListName      string        `json:"list_name,omitempty"`
	CorrectListID string        `json:"correct_list_id"`
	WrongListID   string        `json:"wrong_list_id"`
	Mode          string        `json:"mode"`
	Requested     int           `json:"requested"`
	Deck          []models.Card `json:"deck"`
	Answers       []AnswerView  `json:"answers"`
	// Current is the deck position to show next, -1 when there is none.
	Current      int           `json:"current"`
	Answered     int           `json:"answered"`
	Correct      int           `json:"correct"`
	MoveFailures []MoveFailure `json:"move_failures"`
	ErrorCode    string        `json:"error_code,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   *time.Time    `json:"finished_at,omitempty"`
}

// StoredSession is a finished session read back from history.
type StoredSession struct {
	models.SessionResult
	Answers []models.SessionAnswer `json:"answers"`
}

type HistoryPage struct {
	Results []models.SessionResult `json:"results"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// SessionService owns live study sessions: it loads their decks, records
// answers, moves answered cards and stores finished sessions.
type SessionService interface {
	Start(ctx context.Context, req StartSessionRequest) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	Answer(ctx context.Context, id string, position int, correct bool) (*SessionView, error)
	Reload(ctx context.Context, id string) (*SessionView, error)
	End(ctx context.Context, id string) error
	Wait(ctx context.Context, id string) (*SessionView, error)
	History(ctx context.Context, filter models.SessionHistoryFilter) (*HistoryPage, error)
	HistorySession(ctx context.Context, id string) (*StoredSession, error)
	ReportMoveResult(sessionID, cardID string, err error)
	Shutdown()
}

// liveSession is guarded by mu. Every tracker mutation happens under it,
// so the tracker only ever sees one writer.
type liveSession struct {
	mu sync.Mutex

	id            string
	listID        string
	listName      string
	correctListID string
	wrongListID   string
	mode          session.Mode
	requested     int

	status       SessionStatus
	errCode      string
	tracker      *session.Tracker
	answeredAt   map[int]time.Time
	current      int
	moveFailures []MoveFailure
	startedAt    time.Time
	finishedAt   time.Time
	lastActive   time.Time
	ended        bool

	// fetch handle: only the result of generation gen is applied
	gen     uint64
	cancel  context.CancelFunc
	settled chan struct{}
}

type sessionService struct {
	client      trello.ClientInterface
	queue       jobs.JobQueue
	sessionRepo repository.SessionRepository
	prefs       PreferenceService

	baseCtx    context.Context
	baseCancel context.CancelFunc
	fetches    sync.WaitGroup
	sweeper    sync.WaitGroup
	idleTTL    time.Duration

	mu       sync.RWMutex
	sessions map[string]*liveSession

	newID func() string
	now   func() time.Time
}

type SessionOption func(*sessionService)

// WithIdleTTL drops sessions that are not loading and have seen no request
// for ttl. Zero keeps sessions until End.
func WithIdleTTL(ttl time.Duration) SessionOption {
	return func(s *sessionService) {
		s.idleTTL = ttl
	}
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	client trello.ClientInterface,
	queue jobs.JobQueue,
	sessionRepo repository.SessionRepository,
	prefs PreferenceService,
	opts ...SessionOption,
) SessionService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &sessionService{
		client:      client,
		queue:       queue,
		sessionRepo: sessionRepo,
		prefs:       prefs,
		baseCtx:     ctx,
		baseCancel:  cancel,
		sessions:    make(map[string]*liveSession),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.idleTTL > 0 {
		s.sweeper.Add(1)
		go s.sweep()
	}
	return s
}

func (s *sessionService) sweep() {
	defer s.sweeper.Done()

	interval := s.idleTTL / 2
	if interval <= 0 {
		interval = s.idleTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.baseCtx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(s.now()); n > 0 {
				logger.Default().WithPrefix("sessions").Info("evicted %d idle sessions", n)
			}
		}
	}
}

// evictIdle ends every settled session idle since before now-idleTTL.
// Finished sessions are already in history.
func (s *sessionService) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, ls := range s.sessions {
		ls.mu.Lock()
		if ls.status != StatusLoading && now.Sub(ls.lastActive) >= s.idleTTL {
			ls.end()
			delete(s.sessions, id)
			evicted++
		}
		ls.mu.Unlock()
	}
	return evicted
}

func (s *sessionService) Start(ctx context.Context, req StartSessionRequest) (*SessionView, error) {
	log := logger.FromContext(ctx)

	if err := Validate(req); err != nil {
		return nil, err
	}

	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return nil, err
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = prefs.SelectionMode
	}
	mode, err := session.ParseMode(modeName)
	if err != nil {
		return nil, errors.NewValidationError("mode", err.Error())
	}
	count := prefs.CardCount
	if req.Count != nil {
		count = *req.Count
	}

	if _, err := s.prefs.Update(ctx, models.Preferences{SelectionMode: mode.String(), CardCount: count}); err != nil {
		log.Warn("failed to remember session preferences: %v", err)
	}

	ls := &liveSession{
		id:            s.newID(),
		listID:        req.ListID,
		correctListID: orDefault(req.CorrectListID, req.ListID),
		wrongListID:   orDefault(req.WrongListID, req.ListID),
		mode:          mode,
		requested:     count,
		answeredAt:    make(map[int]time.Time),
		current:       -1,
		startedAt:     s.now(),
	}
	ls.lastActive = ls.startedAt

	s.mu.Lock()
	s.sessions[ls.id] = ls
	s.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	s.startFetch(ls)

	log.Info("session started: id=%s, list_id=%s, mode=%s, count=%d", ls.id, ls.listID, mode, count)
	return ls.view(), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// startFetch supersedes any in-flight fetch. Callers hold ls.mu.
func (s *sessionService) startFetch(ls *liveSession) {
	if ls.cancel != nil {
		ls.cancel()
	}
	ls.gen++
	gen := ls.gen

	ctx, cancel := context.WithCancel(s.baseCtx)
	settled := make(chan struct{})
	ls.cancel = cancel
	ls.settled = settled
	ls.status = StatusLoading
	ls.errCode = ""

	log := logger.Default().WithFields(map[string]any{"session_id": ls.id, "fetch": gen})
	ctx = logger.NewContext(ctx, log)
	listID := ls.listID

	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		defer close(settled)
		defer cancel()

		log.Debug("fetching source list %s", listID)
		list, err := s.client.List(ctx, listID)
		s.applyFetch(ctx, ls, gen, list, err)
	}()
}

func (s *sessionService) applyFetch(ctx context.Context, ls *liveSession, gen uint64, list *models.CardList, err error) {
	log := logger.FromContext(ctx)

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.ended || gen != ls.gen || ctx.Err() != nil {
		log.Debug("discarding superseded fetch result")
		return
	}
	ls.cancel = nil

	if err != nil {
		ls.status = StatusFailed
		ls.errCode = errors.FromDomain(err).Code
		log.Warn("source list fetch failed: %v", err)
		return
	}

	deck := session.SelectDeck(list.Cards, ls.mode, ls.requested)
	ls.tracker = session.NewTracker(deck)
	ls.listName = list.Name

	if ls.tracker.Len() == 0 {
		ls.status = StatusComplete
		ls.finishedAt = s.now()
		log.Info("source list has no cards, nothing to study")
		return
	}
	ls.status = StatusActive
	ls.current = ls.tracker.FirstUnanswered()
	log.Info("deck ready: %d of %d cards", ls.tracker.Len(), len(list.Cards))
}

func (s *sessionService) lookup(id string) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return ls, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.lastActive = s.now()
	return ls.view(), nil
}

func (s *sessionService) Answer(ctx context.Context, id string, position int, correct bool) (*SessionView, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)

	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	switch ls.status {
	case StatusLoading, StatusFailed:
		return nil, errors.NewConflictError("session deck is not loaded yet")
	case StatusComplete:
		return nil, errors.NewConflictError("session is already complete")
	}

	ls.lastActive = s.now()

	card, err := ls.tracker.Card(position)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	// Answered cards are final.
	if _, answered := ls.tracker.Answer(position); answered {
		return nil, errors.NewConflictError(fmt.Sprintf("card at position %d is already answered", position))
	}
	if err := ls.tracker.RecordAnswer(position, correct); err != nil {
		return nil, errors.FromDomain(err)
	}
	ls.answeredAt[position] = s.now()
	log.Debug("answer recorded: position=%d, correct=%t", position, correct)

	target := ls.wrongListID
	if correct {
		target = ls.correctListID
	}
	if target != ls.listID {
		if err := s.queue.EnqueueMove(ls.id, card.ID, target); err != nil {
			log.Warn("could not schedule move of card %s: %v", card.ID, err)
			ls.recordMoveFailure(card.ID, err, s.now())
		}
	}

	next, done := ls.tracker.Advance(position)
	if !done {
		ls.current = next
		return ls.view(), nil
	}

	ls.status = StatusComplete
	ls.current = -1
	ls.finishedAt = s.now()
	log.Info("session complete: %d/%d correct", ls.tracker.CorrectCount(), ls.tracker.Len())
	s.persist(ctx, ls)
	return ls.view(), nil
}

// persist stores a finished session. Failures are logged; the session
// itself stays complete.
func (s *sessionService) persist(ctx context.Context, ls *liveSession) {
	log := logger.FromContext(ctx).WithField("session_id", ls.id)

	result := models.SessionResult{
		ID:         ls.id,
		ListID:     ls.listID,
		ListName:   ls.listName,
		Mode:       ls.mode.String(),
		Requested:  ls.requested,
		DeckSize:   ls.tracker.Len(),
		Correct:    ls.tracker.CorrectCount(),
		StartedAt:  ls.startedAt,
		FinishedAt: ls.finishedAt,
	}

	deck := ls.tracker.Deck()
	answers := make([]models.SessionAnswer, 0, len(deck))
	for pos, card := range deck {
		correct, answered := ls.tracker.Answer(pos)
		if !answered {
			continue
		}
		answers = append(answers, models.SessionAnswer{
			SessionID:  ls.id,
			Position:   pos,
			CardID:     card.ID,
			Correct:    correct,
			AnsweredAt: ls.answeredAt[pos],
		})
	}
	if err := s.sessionRepo.InsertSession(ctx, result, answers); err != nil {
		log.Error("failed to store session: %v", err)
	}
}

func (s *sessionService) Reload(ctx context.Context, id string) (*SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.tracker != nil {
		return nil, errors.NewConflictError("session deck is already loaded")
	}
	ls.lastActive = s.now()
	s.startFetch(ls)
	logger.FromContext(ctx).Info("reloading source list: session_id=%s, fetch=%d", id, ls.gen)
	return ls.view(), nil
}

func (s *sessionService) End(ctx context.Context, id string) error {
	s.mu.Lock()
	ls, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("session", id)
	}

	ls.mu.Lock()
	ls.end()
	ls.mu.Unlock()

	logger.FromContext(ctx).Info("session ended: id=%s", id)
	return nil
}

// end abandons any in-flight fetch. Callers hold ls.mu.
func (ls *liveSession) end() {
	ls.ended = true
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
}

// Wait blocks until the session's current fetch has settled.
func (s *sessionService) Wait(ctx context.Context, id string) (*SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	for {
		ls.mu.Lock()
		if ls.status != StatusLoading || ls.ended {
			v := ls.view()
			ls.mu.Unlock()
			return v, nil
		}
		settled := ls.settled
		ls.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *sessionService) History(ctx context.Context, filter models.SessionHistoryFilter) (*HistoryPage, error) {
	log := logger.FromContext(ctx)

	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	if filter.Offset < 0 {
		return nil, errors.NewValidationError("offset", "cannot be negative")
	}

	results, err := s.sessionRepo.ListResults(ctx, filter)
	if err != nil {
		log.Error("failed to list session history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	total, err := s.sessionRepo.CountResults(ctx, filter)
	if err != nil {
		log.Error("failed to count session history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &HistoryPage{Results: results, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *sessionService) HistorySession(ctx context.Context, id string) (*StoredSession, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)

	result, err := s.sessionRepo.Result(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("stored session", id)
	}
	if err != nil {
		log.Error("failed to load stored session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	answers, err := s.sessionRepo.Answers(ctx, id)
	if err != nil {
		log.Error("failed to load stored answers: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &StoredSession{SessionResult: *result, Answers: answers}, nil
}

// ReportMoveResult is called by move jobs. Failures are kept on the session
// for the client to show; they never touch recorded answers.
func (s *sessionService) ReportMoveResult(sessionID, cardID string, err error) {
	log := logger.Default().WithFields(map[string]any{"session_id": sessionID, "card_id": cardID})

	if err == nil {
		log.Debug("card moved")
		return
	}

	ls, lookupErr := s.lookup(sessionID)
	if lookupErr != nil {
		log.Warn("move failed for ended session: %v", err)
		return
	}

	ls.mu.Lock()
	ls.recordMoveFailure(cardID, err, s.now())
	ls.mu.Unlock()
	log.Warn("card move failed: %v", err)
}

func (ls *liveSession) recordMoveFailure(cardID string, err error, at time.Time) {
	code := errors.FromDomain(err).Code
	if stderrors.Is(err, context.Canceled) {
		code = errors.ErrCodeServiceUnreachable
	}
	ls.moveFailures = append(ls.moveFailures, MoveFailure{
		CardID:  cardID,
		Code:    code,
		Message: err.Error(),
		At:      at,
	})
}

// Shutdown abandons every in-flight fetch and waits for them to return.
func (s *sessionService) Shutdown() {
	s.mu.Lock()
	for id, ls := range s.sessions {
		ls.mu.Lock()
		ls.end()
		ls.mu.Unlock()
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	s.baseCancel()
	s.fetches.Wait()
	s.sweeper.Wait()
}

// view snapshots the session. Callers hold ls.mu.
func (ls *liveSession) view() *SessionView {
	v := &SessionView{
		ID:            ls.id,
		Status:        ls.status,
		ListID:        ls.listID,
		ListName:      ls.listName,
		CorrectListID: ls.correctListID,
		WrongListID:   ls.wrongListID,
		Mode:          ls.mode.String(),
		Requested:     ls.requested,
		Deck:          []models.Card{},
		Answers:       []AnswerView{},
		Current:       ls.current,
		MoveFailures:  append([]MoveFailure{}, ls.moveFailures...),
		ErrorCode:     ls.errCode,
		StartedAt:     ls.startedAt,
	}
	if !ls.finishedAt.IsZero() {
		t := ls.finishedAt
		v.FinishedAt = &t
	}
	if ls.tracker == nil {
		return v
	}

	v.Deck = ls.tracker.Deck()
	v.Answered = ls.tracker.AnsweredCount()
	v.Correct = ls.tracker.CorrectCount()
	for pos, card := range v.Deck {
		if correct, ok := ls.tracker.Answer(pos); ok {
			v.Answers = append(v.Answers, AnswerView{Position: pos, CardID: card.ID, Correct: correct})
		}
	}
	return v
}
