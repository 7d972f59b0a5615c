// Package flashcard implements the self-graded flashcard drill.
package flashcard

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ashureev/markup-labs/internal/domain"
)

// ErrNoDecks is returned when the catalog has no usable decks.
var ErrNoDecks = errors.New("flashcard: no decks")

// Notifier receives presentation notices.
type Notifier interface {
	Notify(n domain.Notice)
}

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Notice) {}

// State is a snapshot of the drill.
type State struct {
	DeckIndex int
	DeckCount int
	Title     string
	CardIndex int
	Total     int
	// Card is nil once the deck is complete.
	Card     *domain.Card
	Flipped  bool
	Correct  int
	Reviewed int
	Complete bool
}

// Percent is the share of reviewed cards marked correct, rounded.
func (s State) Percent() int {
	if s.Reviewed == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Reviewed) * 100))
}

// Progress is the fraction of the deck already answered.
func (s State) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.CardIndex) / float64(s.Total)
}

// Drill walks a learner through one deck at a time.
type Drill struct {
	mu       sync.Mutex
	decks    []domain.Deck
	notifier Notifier

	deck     int
	card     int
	correct  int
	reviewed int
	flipped  bool
}

// NewDrill creates a drill positioned on the first deck.
func NewDrill(decks []domain.Deck, notifier Notifier) (*Drill, error) {
	if len(decks) == 0 {
		return nil, ErrNoDecks
	}
	for i, d := range decks {
		if len(d.Cards) == 0 {
			return nil, fmt.Errorf("%w: deck %d is empty", ErrNoDecks, i)
		}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Drill{decks: decks, notifier: notifier}, nil
}

// Load switches to deck index and resets counters. Out-of-range indices
// are ignored.
func (d *Drill) Load(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.decks) {
		return false
	}
	d.load(index)
	return true
}

// Restart reloads the current deck.
func (d *Drill) Restart() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.load(d.deck)
}

// NextDeck moves to the following deck, wrapping to the first.
func (d *Drill) NextDeck() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.load((d.deck + 1) % len(d.decks))
}

// PrevDeck moves to the preceding deck, wrapping to the last.
func (d *Drill) PrevDeck() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.load((d.deck - 1 + len(d.decks)) % len(d.decks))
}

// Flip turns the current card over and returns whether the answer side is up.
func (d *Drill) Flip() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.complete() {
		return d.flipped
	}
	d.flipped = !d.flipped
	return d.flipped
}

// Answer grades the current card and moves on. It is ignored once the
// deck is complete.
func (d *Drill) Answer(correct bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.complete() {
		return false
	}

	d.reviewed++
	if correct {
		d.correct++
	}
	d.flipped = false
	d.card++

	if d.complete() {
		st := d.state()
		d.notifier.Notify(domain.Notice{
			Kind:  domain.NoticeDeckCompleted,
			Text:  fmt.Sprintf("%s complete: %d%%", st.Title, st.Percent()),
			Score: st.Correct,
			Total: st.Reviewed,
		})
	}
	return true
}

// State returns a snapshot of the drill.
func (d *Drill) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state()
}

func (d *Drill) load(index int) {
	d.deck = index
	d.card = 0
	d.correct = 0
	d.reviewed = 0
	d.flipped = false
}

func (d *Drill) complete() bool {
	return d.card >= len(d.decks[d.deck].Cards)
}

func (d *Drill) state() State {
	deck := d.decks[d.deck]
	st := State{
		DeckIndex: d.deck,
		DeckCount: len(d.decks),
		Title:     deck.Title,
		CardIndex: d.card,
		Total:     len(deck.Cards),
		Flipped:   d.flipped,
		Correct:   d.correct,
		Reviewed:  d.reviewed,
		Complete:  d.complete(),
	}
	if !st.Complete {
		card := deck.Cards[d.card]
		st.Card = &card
	}
	return st
}
