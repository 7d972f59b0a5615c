// Package quiz runs the fixed multiple-choice knowledge check that follows
// the last lesson.
package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ashureev/markup-labs/internal/domain"
)

// ErrNoQuestions is returned by Start when the question catalog is empty.
var ErrNoQuestions = errors.New("quiz: question catalog is empty")

const (
	defaultCorrectDelay = 2 * time.Second
	defaultWrongDelay   = 1500 * time.Millisecond
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notifier receives presentation notices.
type Notifier interface {
	Notify(n domain.Notice)
}

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Notice) {}

// Config tunes the settle delays.
type Config struct {
	// CorrectDelay is how long a correct answer is shown before the next question.
	CorrectDelay time.Duration
	// WrongDelay is how long a wrong answer is shown before input re-opens.
	WrongDelay time.Duration
	Scheduler  Scheduler
}

// Phase is the quiz lifecycle phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

// Outcome is the immediate result of Submit.
type Outcome int

const (
	// AnswerIgnored means the answer arrived while input was closed.
	AnswerIgnored Outcome = iota
	AnswerCorrect
	AnswerWrong
)

func (o Outcome) String() string {
	switch o {
	case AnswerCorrect:
		return "correct"
	case AnswerWrong:
		return "wrong"
	default:
		return "ignored"
	}
}

// State is a snapshot of the quiz.
type State struct {
	Phase          Phase
	QuestionIndex  int
	Total          int
	Score          int
	CanAnswer      bool
	QuestionFailed bool
	// Question is nil unless the quiz is active.
	Question *domain.Question
}

// Controller is the quiz state machine. It is safe for concurrent use;
// timer callbacks take the same lock as learner input.
type Controller struct {
	mu        sync.Mutex
	questions []domain.Question
	cfg       Config
	notifier  Notifier

	phase     Phase
	index     int
	score     int
	canAnswer bool
	failed    bool

	// epoch invalidates callbacks of superseded timers.
	epoch   uint64
	pending Timer
}

// NewController creates an idle quiz over questions.
func NewController(questions []domain.Question, cfg Config, notifier Notifier) *Controller {
	if cfg.CorrectDelay <= 0 {
		cfg.CorrectDelay = defaultCorrectDelay
	}
	if cfg.WrongDelay <= 0 {
		cfg.WrongDelay = defaultWrongDelay
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = wallClock{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Controller{
		questions: questions,
		cfg:       cfg,
		notifier:  notifier,
	}
}

// Start enters the active phase at the first question with a zero score.
// It is also the restart affordance from the finished phase. An empty
// catalog fails fast without leaving the current phase.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.questions) == 0 {
		c.notifier.Notify(domain.Notice{
			Kind: domain.NoticeConfigError,
			Text: "Error: quiz questions are missing from the catalog.",
		})
		return ErrNoQuestions
	}

	c.cancelPending()
	c.phase = PhaseActive
	c.index = 0
	c.score = 0
	c.canAnswer = true
	c.failed = false

	c.notifier.Notify(domain.Notice{
		Kind:  domain.NoticeQuizStarted,
		Text:  fmt.Sprintf("Question 1 of %d", len(c.questions)),
		Total: len(c.questions),
	})
	return nil
}

// Submit answers the current question. Answers are ignored unless the
// quiz is active and input is open; input stays closed until the settle
// delay elapses.
func (c *Controller) Submit(opt domain.Option) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseActive || !c.canAnswer || !opt.Valid() {
		return AnswerIgnored
	}

	c.canAnswer = false
	if opt == c.questions[c.index].Correct {
		if !c.failed {
			c.score++
		}
		c.schedule(c.cfg.CorrectDelay, c.nextQuestion)
		return AnswerCorrect
	}

	c.failed = true
	c.schedule(c.cfg.WrongDelay, c.reopen)
	return AnswerWrong
}

// State returns a snapshot of the quiz.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Phase:          c.phase,
		QuestionIndex:  c.index,
		Total:          len(c.questions),
		Score:          c.score,
		CanAnswer:      c.canAnswer,
		QuestionFailed: c.failed,
	}
	if c.phase == PhaseActive {
		q := c.questions[c.index]
		st.Question = &q
	}
	return st
}

// Close cancels any pending settle timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPending()
}

func (c *Controller) schedule(d time.Duration, fn func()) {
	c.epoch++
	epoch := c.epoch
	c.pending = c.cfg.Scheduler.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.epoch != epoch {
			return
		}
		c.pending = nil
		fn()
	})
}

func (c *Controller) cancelPending() {
	c.epoch++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) nextQuestion() {
	c.index++
	c.failed = false
	if c.index >= len(c.questions) {
		c.phase = PhaseFinished
		c.canAnswer = false
		c.notifier.Notify(domain.Notice{
			Kind:  domain.NoticeQuizFinished,
			Text:  fmt.Sprintf("Knowledge Check Complete! You scored %d out of %d.", c.score, len(c.questions)),
			Score: c.score,
			Total: len(c.questions),
		})
		return
	}
	c.canAnswer = true
}

func (c *Controller) reopen() {
	c.canAnswer = true
}
