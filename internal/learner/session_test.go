package learner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/markup-labs/internal/catalog"
	"github.com/ashureev/markup-labs/internal/domain"
	"github.com/ashureev/markup-labs/internal/lesson"
	"github.com/ashureev/markup-labs/internal/protocol"
	"github.com/ashureev/markup-labs/internal/quiz"
)

type fakePeer struct {
	mu   sync.Mutex
	sent []protocol.Message
}

func (p *fakePeer) Send(msg protocol.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
}

func (p *fakePeer) last() protocol.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		return protocol.Message{}
	}
	return p.sent[len(p.sent)-1]
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []*domain.LearnerEvent
	err    error
}

func (r *fakeRecorder) AppendEvent(_ context.Context, ev *domain.LearnerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *fakeRecorder) kinds() []domain.NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.NoticeKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

// manualTimers never fires, so quiz feedback stays on screen.
type manualTimers struct{}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return true }

func (manualTimers) AfterFunc(time.Duration, func()) quiz.Timer { return stoppedTimer{} }

// lessonAnswers passes every challenge of the corresponding default lesson.
var lessonAnswers = []string{
	"<!DOCTYPE html><html><head></head><body></body></html>",
	"<p></p><p>Hello World</p>",
	`<div style="background: green"><p>inside</p></div><div></div>`,
}

func newTestSession(t *testing.T, rec EventRecorder, queue int) *Session {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	s, err := NewSession("anon_1", "tab-1", Options{
		Catalog:     cat,
		Quiz:        quiz.Config{Scheduler: manualTimers{}},
		NoticeQueue: queue,
		Recorder:    rec,
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func winLesson(t *testing.T, s *Session, peerID, answer string) {
	t.Helper()
	_, _, st := s.Lesson.Current()
	count := len(mustLesson(t, s, st.LessonIndex).Challenges)
	for i := 0; i < count; i++ {
		s.Lesson.HandleMessage(peerID, protocol.CheckRequest{HTML: answer})
		if i < count-1 {
			s.Lesson.HandleMessage(peerID, protocol.AttackComplete{})
		}
	}
	s.Lesson.HandleMessage(peerID, protocol.BattleWon{})
}

func mustLesson(t *testing.T, s *Session, index int) domain.Lesson {
	t.Helper()
	l, _, st := s.Lesson.Current()
	if st.LessonIndex != index {
		t.Fatalf("current lesson = %d, want %d", st.LessonIndex, index)
	}
	return l
}

func TestSession_FullRunEntersQuiz(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(t, rec, 0)
	peer := &fakePeer{}
	s.AttachPeer("peer-1", peer, nil)

	for i, answer := range lessonAnswers {
		winLesson(t, s, "peer-1", answer)
		if !s.Lesson.State().BattleWon {
			t.Fatalf("lesson %d: battle not won", i)
		}
		if peer.last().Type != protocol.TypeCheckSuccess && peer.last().Type != protocol.TypeLoadLesson {
			t.Fatalf("lesson %d: last frame = %+v", i, peer.last())
		}

		res, err := s.Lesson.Advance()
		if err != nil {
			t.Fatalf("lesson %d: Advance() error = %v", i, err)
		}
		want := lesson.AdvanceNextLesson
		if i == len(lessonAnswers)-1 {
			want = lesson.AdvanceQuiz
		}
		if res != want {
			t.Fatalf("lesson %d: Advance() = %v, want %v", i, res, want)
		}
	}

	if s.Lesson.State().Phase != lesson.PhaseQuiz {
		t.Fatalf("lesson phase = %v, want quiz", s.Lesson.State().Phase)
	}
	qs := s.Quiz.State()
	if qs.Phase != quiz.PhaseActive || qs.QuestionIndex != 0 || qs.Score != 0 {
		t.Errorf("quiz state = %+v", qs)
	}

	s.Close()
	kinds := rec.kinds()
	want := []domain.NoticeKind{
		domain.NoticeBattleWon, domain.NoticeAdvanced,
		domain.NoticeBattleWon, domain.NoticeAdvanced,
		domain.NoticeBattleWon, domain.NoticeQuizStarted,
	}
	if len(kinds) != len(want) {
		t.Fatalf("recorded kinds = %v, want %v", kinds, want)
	}
	counts := map[domain.NoticeKind]int{}
	for _, k := range kinds {
		counts[k]++
	}
	if counts[domain.NoticeBattleWon] != 3 || counts[domain.NoticeAdvanced] != 2 || counts[domain.NoticeQuizStarted] != 1 {
		t.Errorf("recorded kinds = %v", kinds)
	}
}

func TestSession_RestartQuizLockedUntilLessonsDone(t *testing.T) {
	s := newTestSession(t, nil, 0)
	if err := s.RestartQuiz(); !errors.Is(err, ErrQuizLocked) {
		t.Errorf("RestartQuiz() error = %v, want ErrQuizLocked", err)
	}
	if s.Quiz.State().Phase != quiz.PhaseIdle {
		t.Error("quiz should stay idle")
	}
}

func TestSession_NoticesDrainAndDropOldest(t *testing.T) {
	s := newTestSession(t, nil, 2)

	// Creation already queued the first lesson's notice.
	for i := 0; i < 3; i++ {
		s.Lesson.Advance()
	}

	notices := s.DrainNotices()
	if len(notices) != 2 {
		t.Fatalf("DrainNotices() returned %d notices, want 2", len(notices))
	}
	for _, n := range notices {
		if n.Kind != domain.NoticeBlocked {
			t.Errorf("notice = %+v, want blocked", n)
		}
	}
	if s.DroppedNotices() != 2 {
		t.Errorf("DroppedNotices() = %d, want 2", s.DroppedNotices())
	}
	if len(s.DrainNotices()) != 0 {
		t.Error("second drain should be empty")
	}
}

func TestSession_AttachPeerClosesPrevious(t *testing.T) {
	s := newTestSession(t, nil, 0)
	closed := 0
	s.AttachPeer("peer-1", &fakePeer{}, func() { closed++ })

	second := &fakePeer{}
	s.AttachPeer("peer-2", second, nil)
	if closed != 1 {
		t.Errorf("previous peer closed %d times, want 1", closed)
	}
	if s.PeerID() != "peer-2" {
		t.Errorf("PeerID() = %q", s.PeerID())
	}

	s.Lesson.HandleMessage("peer-1", protocol.IframeLoaded{})
	if second.last().Type != "" {
		t.Error("stale peer frame should be dropped")
	}
	s.Lesson.HandleMessage("peer-2", protocol.IframeLoaded{})
	if second.last().Type != protocol.TypeLoadLesson {
		t.Errorf("last frame = %+v, want loadLesson", second.last())
	}

	s.DetachPeer("peer-1")
	if s.PeerID() != "peer-2" {
		t.Error("detaching a stale peer must not clear the current one")
	}
	s.DetachPeer("peer-2")
	if s.PeerID() != "" {
		t.Error("DetachPeer() should clear the current peer")
	}
}

func TestSession_RecorderErrorsAreLogged(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("database is locked")}
	s := newTestSession(t, rec, 0)
	s.AttachPeer("peer-1", &fakePeer{}, nil)
	s.Lesson.HandleMessage("peer-1", protocol.BattleWon{})
	s.Close()

	if got := rec.kinds(); len(got) != 1 || got[0] != domain.NoticeBattleWon {
		t.Errorf("recorded kinds = %v", got)
	}
}

func TestSession_FlashcardsWired(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(t, rec, 0)
	if s.Drill == nil {
		t.Fatal("default catalog should provide flashcards")
	}
	for !s.Drill.State().Complete {
		s.Drill.Answer(true)
	}
	s.Close()
	if got := rec.kinds(); len(got) != 1 || got[0] != domain.NoticeDeckCompleted {
		t.Errorf("recorded kinds = %v", got)
	}
}
