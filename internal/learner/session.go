// Package learner ties the per-tab lesson, quiz and flashcard state
// together and keeps it in memory for as long as the learner is active.
package learner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/markup-labs/internal/catalog"
	"github.com/ashureev/markup-labs/internal/domain"
	"github.com/ashureev/markup-labs/internal/flashcard"
	"github.com/ashureev/markup-labs/internal/lesson"
	"github.com/ashureev/markup-labs/internal/quiz"
	"github.com/google/uuid"
)

const (
	defaultNoticeQueue = 32
	recordTimeout      = 5 * time.Second
)

// ErrQuizLocked is returned when the quiz is restarted before every lesson
// has been cleared.
var ErrQuizLocked = errors.New("learner: quiz is not unlocked yet")

// EventRecorder persists progression history.
type EventRecorder interface {
	AppendEvent(ctx context.Context, event *domain.LearnerEvent) error
}

// recorded lists the notice kinds that are kept as history.
var recorded = map[domain.NoticeKind]bool{
	domain.NoticeBattleWon:     true,
	domain.NoticeAdvanced:      true,
	domain.NoticeQuizStarted:   true,
	domain.NoticeQuizFinished:  true,
	domain.NoticeDeckCompleted: true,
}

// Options configures new sessions.
type Options struct {
	Catalog     *catalog.Catalog
	Quiz        quiz.Config
	NoticeQueue int
	Recorder    EventRecorder
	Logger      *slog.Logger
}

// Session is the state of one learner in one browser tab.
type Session struct {
	UserID    string
	SessionID string

	Lesson *lesson.Controller
	Quiz   *quiz.Controller
	// Drill is nil when the catalog has no decks.
	Drill *flashcard.Drill

	notices  *noticeRing
	recorder EventRecorder
	logger   *slog.Logger
	records  sync.WaitGroup

	mu        sync.Mutex
	peerID    string
	closePeer func()
	lastSeen  time.Time
	closed    bool
}

// NewSession builds the controllers for a fresh session positioned on the
// first lesson.
func NewSession(userID, sessionID string, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("learner: catalog is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		UserID:    userID,
		SessionID: sessionID,
		notices:   newNoticeRing(opts.NoticeQueue),
		recorder:  opts.Recorder,
		logger:    logger.With("user_id", userID, "session_id", sessionID),
		lastSeen:  time.Now(),
	}

	s.Quiz = quiz.NewController(opts.Catalog.Questions, opts.Quiz, s)

	lc, err := lesson.NewController(opts.Catalog.Lessons, s.Quiz, s, s.logger)
	if err != nil {
		return nil, fmt.Errorf("create lesson controller: %w", err)
	}
	s.Lesson = lc

	if len(opts.Catalog.Decks) > 0 {
		drill, err := flashcard.NewDrill(opts.Catalog.Decks, s)
		if err != nil {
			return nil, fmt.Errorf("create flashcard drill: %w", err)
		}
		s.Drill = drill
	}

	return s, nil
}

// Key returns the manager key of the session.
func (s *Session) Key() string {
	return sessionKey(s.UserID, s.SessionID)
}

// Notify queues n for the page and records progression milestones. It is
// called with controller locks held and must not call back into them.
func (s *Session) Notify(n domain.Notice) {
	s.notices.push(n)
	if recorded[n.Kind] {
		s.record(n)
	}
}

// DrainNotices returns and clears the queued notices, oldest first.
func (s *Session) DrainNotices() []domain.Notice {
	return s.notices.drain()
}

// DroppedNotices reports how many notices were discarded because nobody
// drained the queue in time.
func (s *Session) DroppedNotices() int {
	return s.notices.droppedCount()
}

// RestartQuiz restarts the knowledge check. It is only available once the
// lessons have handed control to the quiz.
func (s *Session) RestartQuiz() error {
	if s.Lesson.State().Phase != lesson.PhaseQuiz {
		return ErrQuizLocked
	}
	return s.Quiz.Start()
}

// AttachPeer makes id the session's battle peer. A previously attached
// peer is closed first. closer may be nil.
func (s *Session) AttachPeer(id string, p lesson.Peer, closer func()) {
	s.mu.Lock()
	prev := s.closePeer
	s.peerID = id
	s.closePeer = closer
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
	s.Lesson.AttachPeer(id, p)
	s.Touch()
}

// DetachPeer forgets peer id if it is still the attached one.
func (s *Session) DetachPeer(id string) {
	s.mu.Lock()
	if s.peerID == id {
		s.peerID = ""
		s.closePeer = nil
	}
	s.mu.Unlock()
	s.Lesson.DetachPeer(id)
}

// PeerID returns the attached battle peer id, or "" if none.
func (s *Session) PeerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerID
}

// Touch marks the session as active now.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// IdleFor returns how long the session has been inactive as of now.
func (s *Session) IdleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idle := now.Sub(s.lastSeen); idle > 0 {
		return idle
	}
	return 0
}

// Close closes the battle peer, cancels pending quiz timers and waits for
// in-flight history writes.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	closer := s.closePeer
	id := s.peerID
	s.closePeer = nil
	s.peerID = ""
	s.mu.Unlock()

	if closer != nil {
		closer()
	}
	if id != "" {
		s.Lesson.DetachPeer(id)
	}
	s.Quiz.Close()
	s.records.Wait()
}

func (s *Session) record(n domain.Notice) {
	if s.recorder == nil {
		return
	}
	event := &domain.LearnerEvent{
		ID:          uuid.NewString(),
		UserID:      s.UserID,
		SessionID:   s.SessionID,
		Kind:        n.Kind,
		LessonIndex: n.LessonIndex,
		Score:       n.Score,
		Total:       n.Total,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.records.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.records.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.recorder.AppendEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to record learner event", "kind", event.Kind, "error", err)
		}
	}()
}
