package flashcard

import (
	"errors"
	"testing"

	"github.com/ashureev/markup-labs/internal/domain"
)

type recordingNotifier struct {
	notices []domain.Notice
}

func (n *recordingNotifier) Notify(notice domain.Notice) {
	n.notices = append(n.notices, notice)
}

func testDecks() []domain.Deck {
	return []domain.Deck{
		{Title: "HTML Basics", Cards: []domain.Card{
			{Question: "What does HTML stand for?", Answer: "Hypertext Markup Language"},
			{Question: "Which tag is used for paragraphs?", Answer: "<p> tag"},
			{Question: "What is the largest heading tag?", Answer: "<h1>"},
		}},
		{Title: "CSS Styling", Cards: []domain.Card{
			{Question: "What does CSS stand for?", Answer: "Cascading Style Sheets"},
		}},
	}
}

func TestNewDrill_Validation(t *testing.T) {
	if _, err := NewDrill(nil, nil); !errors.Is(err, ErrNoDecks) {
		t.Errorf("expected ErrNoDecks, got %v", err)
	}
	if _, err := NewDrill([]domain.Deck{{Title: "empty"}}, nil); !errors.Is(err, ErrNoDecks) {
		t.Errorf("expected ErrNoDecks for empty deck, got %v", err)
	}
}

func TestDrill_AnswerAndComplete(t *testing.T) {
	notifier := &recordingNotifier{}
	d, err := NewDrill(testDecks(), notifier)
	if err != nil {
		t.Fatal(err)
	}

	if !d.Flip() {
		t.Error("Flip() should show the answer side")
	}
	d.Answer(true)
	st := d.State()
	if st.Flipped {
		t.Error("answering should turn the next card face down")
	}
	if st.CardIndex != 1 || st.Reviewed != 1 || st.Correct != 1 || st.Percent() != 100 {
		t.Errorf("state = %+v", st)
	}

	d.Answer(false)
	d.Answer(true)
	st = d.State()
	if !st.Complete || st.Card != nil {
		t.Fatalf("deck should be complete: %+v", st)
	}
	if st.Percent() != 67 {
		t.Errorf("Percent() = %d, want 67", st.Percent())
	}
	if st.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", st.Progress())
	}
	if d.Answer(true) {
		t.Error("Answer() after completion should be ignored")
	}

	if len(notifier.notices) != 1 || notifier.notices[0].Kind != domain.NoticeDeckCompleted {
		t.Errorf("notices = %+v", notifier.notices)
	}
}

func TestDrill_DeckNavigationWraps(t *testing.T) {
	d, _ := NewDrill(testDecks(), nil)

	d.PrevDeck()
	if got := d.State().DeckIndex; got != 1 {
		t.Errorf("PrevDeck from first = %d, want 1", got)
	}
	d.NextDeck()
	if got := d.State().DeckIndex; got != 0 {
		t.Errorf("NextDeck from last = %d, want 0", got)
	}
}

func TestDrill_LoadResetsCounters(t *testing.T) {
	d, _ := NewDrill(testDecks(), nil)
	d.Answer(true)
	d.Flip()

	d.Restart()
	st := d.State()
	if st.CardIndex != 0 || st.Reviewed != 0 || st.Correct != 0 || st.Flipped {
		t.Errorf("state after restart = %+v", st)
	}
	if st.Percent() != 0 || st.Progress() != 0 {
		t.Errorf("Percent/Progress = %d/%v", st.Percent(), st.Progress())
	}

	if d.Load(5) {
		t.Error("Load(5) should be ignored")
	}
	if !d.Load(1) || d.State().Title != "CSS Styling" {
		t.Errorf("Load(1) state = %+v", d.State())
	}
}
