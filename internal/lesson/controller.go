// Package lesson owns lesson progression for a learner session: which
// lesson and challenge are active, whether submitted markup satisfies the
// active challenge, and when the learner may move on.
package lesson

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ashureev/markup-labs/internal/domain"
	"github.com/ashureev/markup-labs/internal/protocol"
)

const (
	blockedText       = "You must complete the challenge and defeat the bug to proceed!"
	advancedText      = "Challenge complete! Proceeding to next lesson."
	battleWonText     = "Challenge complete! You can now go to the next lesson."
	battleWonLastText = "Challenge Complete! Click 'Next Lesson' to enter the Final Knowledge Check."
)

var (
	// ErrNoLessons is returned when the catalog has no lessons.
	ErrNoLessons = errors.New("lesson: catalog has no lessons")
	// ErrNoChallenges is returned when a lesson has no challenges.
	ErrNoChallenges = errors.New("lesson: lesson has no challenges")
	// ErrNoQuiz is returned when no quiz is wired to the controller.
	ErrNoQuiz = errors.New("lesson: quiz is required")
)

// Peer receives outbound protocol frames. Sends are fire-and-forget and
// must not block.
type Peer interface {
	Send(msg protocol.Message)
}

// Notifier receives presentation notices.
type Notifier interface {
	Notify(n domain.Notice)
}

// QuizStarter starts the knowledge check once every lesson is cleared.
type QuizStarter interface {
	Start() error
}

// Phase is the progression phase.
type Phase int

const (
	// PhaseLessons means lessons are being worked through.
	PhaseLessons Phase = iota
	// PhaseQuiz means every lesson was cleared and control passed to the quiz.
	PhaseQuiz
)

func (p Phase) String() string {
	if p == PhaseQuiz {
		return "quiz"
	}
	return "lessons"
}

// AdvanceResult describes what Advance did.
type AdvanceResult int

const (
	// AdvanceIgnored means progression is already over.
	AdvanceIgnored AdvanceResult = iota
	// AdvanceBlocked means the bug has not been defeated yet.
	AdvanceBlocked
	// AdvanceNextLesson means the next lesson was loaded.
	AdvanceNextLesson
	// AdvanceQuiz means control passed to the quiz.
	AdvanceQuiz
)

func (r AdvanceResult) String() string {
	switch r {
	case AdvanceBlocked:
		return "blocked"
	case AdvanceNextLesson:
		return "next_lesson"
	case AdvanceQuiz:
		return "quiz"
	default:
		return "ignored"
	}
}

// State is a snapshot of progression.
type State struct {
	LessonIndex    int
	ChallengeIndex int
	BattleWon      bool
	Phase          Phase
}

// Controller is the authoritative owner of lesson progression and the
// sole judge of submitted markup. It is safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	lessons  []domain.Lesson
	quiz     QuizStarter
	notifier Notifier
	logger   *slog.Logger

	peerID string
	peer   Peer

	state State
}

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Notice) {}

// NewController creates a controller positioned on the first lesson.
func NewController(lessons []domain.Lesson, quiz QuizStarter, notifier Notifier, logger *slog.Logger) (*Controller, error) {
	if len(lessons) == 0 {
		return nil, ErrNoLessons
	}
	for i, l := range lessons {
		if len(l.Challenges) == 0 {
			return nil, fmt.Errorf("%w: lesson %d", ErrNoChallenges, i)
		}
	}
	if quiz == nil {
		return nil, ErrNoQuiz
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		lessons:  lessons,
		quiz:     quiz,
		notifier: notifier,
		logger:   logger,
	}
	c.load(0)
	return c, nil
}

// LessonCount returns the number of lessons.
func (c *Controller) LessonCount() int {
	return len(c.lessons)
}

// State returns a snapshot of progression.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the active lesson and challenge alongside the state.
func (c *Controller) Current() (domain.Lesson, domain.Challenge, State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.lessons[c.state.LessonIndex]
	return l, l.Challenges[c.state.ChallengeIndex], c.state
}

// AttachPeer makes p the battle view for this controller. Frames from any
// other peer id are dropped from now on.
func (c *Controller) AttachPeer(id string, p Peer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peerID = id
	c.peer = p
	c.logger.Debug("battle peer attached", "peer_id", id)
}

// DetachPeer forgets the peer if id is still the attached one.
func (c *Controller) DetachPeer(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.peerID != id {
		return
	}
	c.peerID = ""
	c.peer = nil
	c.logger.Debug("battle peer detached", "peer_id", id)
}

// Load activates lesson index. Out-of-range indices and calls after the
// quiz has started are ignored; the return value reports whether the
// lesson was loaded.
func (c *Controller) Load(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseLessons || index < 0 || index >= len(c.lessons) {
		return false
	}
	c.load(index)
	return true
}

// Advance moves to the next lesson, or into the quiz after the last one.
// It is blocked until the current lesson's battle is won. An error is
// returned only when the quiz cannot start; state is unchanged then.
func (c *Controller) Advance() (AdvanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseLessons {
		return AdvanceIgnored, nil
	}
	if !c.state.BattleWon {
		c.notify(domain.NoticeBlocked, blockedText)
		return AdvanceBlocked, nil
	}

	if c.state.LessonIndex >= len(c.lessons)-1 {
		if err := c.quiz.Start(); err != nil {
			return AdvanceBlocked, fmt.Errorf("start quiz: %w", err)
		}
		c.state.Phase = PhaseQuiz
		return AdvanceQuiz, nil
	}

	c.load(c.state.LessonIndex + 1)
	c.notify(domain.NoticeAdvanced, advancedText)
	return AdvanceNextLesson, nil
}

// Retreat loads the previous lesson. It reports false on the first lesson
// (no wraparound) or once the quiz has started.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseLessons || c.state.LessonIndex == 0 {
		return false
	}
	c.load(c.state.LessonIndex - 1)
	return true
}

// HandleMessage dispatches an inbound frame from peer id. Frames from a
// peer other than the attached one are dropped.
func (c *Controller) HandleMessage(from string, msg protocol.Inbound) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if from == "" || from != c.peerID {
		c.logger.Debug("dropping message from stale peer", "peer_id", from, "type", msg.Type())
		return
	}
	if c.state.Phase != PhaseLessons {
		c.logger.Debug("dropping battle message after lessons completed", "type", msg.Type())
		return
	}

	switch m := msg.(type) {
	case protocol.IframeLoaded:
		c.sendChallenge()
	case protocol.CheckRequest:
		c.checkRequest(m.HTML)
	case protocol.AttackComplete:
		c.attackComplete()
	case protocol.PlayerDied:
		c.playerDied()
	case protocol.BattleWon:
		c.battleWon()
	default:
		c.logger.Warn("unhandled battle message", "type", msg.Type())
	}
}

// HandleCheckRequest judges html against the active challenge and tells
// the peer which animation to play. Progression state is not modified.
func (c *Controller) HandleCheckRequest(html string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkRequest(html)
}

// HandleAttackComplete moves to the next challenge of the lesson, if any.
func (c *Controller) HandleAttackComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attackComplete()
}

// HandlePlayerDied restarts the current lesson's challenge sequence.
func (c *Controller) HandlePlayerDied() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerDied()
}

// HandleBattleWon unlocks advancing past the current lesson.
func (c *Controller) HandleBattleWon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.battleWon()
}

func (c *Controller) load(index int) {
	c.state.LessonIndex = index
	c.state.ChallengeIndex = 0
	c.state.BattleWon = false

	c.notify(domain.NoticeLessonLoaded, c.lessons[index].Title)
	c.sendChallenge()
	c.send(protocol.ResetBattle())
}

func (c *Controller) checkRequest(html string) bool {
	challenge := c.lessons[c.state.LessonIndex].Challenges[c.state.ChallengeIndex]
	if challenge.Passes(html) {
		c.send(protocol.SetBugDamage(protocol.ReducedBugDamage))
		c.send(protocol.CheckSuccess())
		return true
	}
	c.send(protocol.SetBugDamage(protocol.BaseBugDamage))
	c.send(protocol.CheckFailure())
	return false
}

func (c *Controller) attackComplete() {
	if c.state.ChallengeIndex >= len(c.lessons[c.state.LessonIndex].Challenges)-1 {
		return
	}
	c.state.ChallengeIndex++
	c.sendChallenge()
}

func (c *Controller) playerDied() {
	c.send(protocol.SetBugDamage(protocol.BaseBugDamage))
	c.state.ChallengeIndex = 0
	c.sendChallenge()
}

func (c *Controller) battleWon() {
	c.state.BattleWon = true
	text := battleWonText
	if c.state.LessonIndex >= len(c.lessons)-1 {
		text = battleWonLastText
	}
	c.notify(domain.NoticeBattleWon, text)
}

func (c *Controller) sendChallenge() {
	c.send(protocol.LoadLesson(c.lessons[c.state.LessonIndex].Challenges[c.state.ChallengeIndex].Text))
}

func (c *Controller) send(msg protocol.Message) {
	if c.peer == nil {
		return
	}
	c.peer.Send(msg)
}

func (c *Controller) notify(kind domain.NoticeKind, text string) {
	c.notifier.Notify(domain.Notice{
		Kind:        kind,
		Text:        text,
		LessonIndex: c.state.LessonIndex,
	})
}
