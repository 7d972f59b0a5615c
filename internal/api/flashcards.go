package api

import (
	"net/http"

	"github.com/ashureev/markup-labs/internal/domain"
	"github.com/ashureev/markup-labs/internal/flashcard"
	"github.com/go-chi/chi/v5"
)

type flashcardView struct {
	DeckIndex int          `json:"deck_index"`
	DeckCount int          `json:"deck_count"`
	Title     string       `json:"title"`
	CardIndex int          `json:"card_index"`
	Total     int          `json:"total"`
	Card      *domain.Card `json:"card,omitempty"`
	Flipped   bool         `json:"flipped"`
	Correct   int          `json:"correct"`
	Reviewed  int          `json:"reviewed"`
	Percent   int          `json:"percent"`
	Progress  float64      `json:"progress"`
	Complete  bool         `json:"complete"`
}

func newFlashcardView(st flashcard.State) flashcardView {
	v := flashcardView{
		DeckIndex: st.DeckIndex,
		DeckCount: st.DeckCount,
		Title:     st.Title,
		CardIndex: st.CardIndex,
		Total:     st.Total,
		Card:      st.Card,
		Flipped:   st.Flipped,
		Correct:   st.Correct,
		Reviewed:  st.Reviewed,
		Percent:   st.Percent(),
		Progress:  st.Progress(),
		Complete:  st.Complete,
	}
	// The answer stays hidden until the card is turned over.
	if v.Card != nil && !v.Flipped {
		v.Card = &domain.Card{Question: v.Card.Question}
	}
	return v
}

func (h *Handler) drill(w http.ResponseWriter, r *http.Request) (*flashcard.Drill, bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return nil, false
	}
	if sess.Drill == nil {
		Error(w, http.StatusNotFound, "no flashcard decks")
		return nil, false
	}
	return sess.Drill, true
}

// GetFlashcards returns the drill state.
func (h *Handler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	d, ok := h.drill(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, newFlashcardView(d.State()))
}

// FlashcardAction applies one of flip, answer, next, prev or restart.
func (h *Handler) FlashcardAction(w http.ResponseWriter, r *http.Request) {
	d, ok := h.drill(w, r)
	if !ok {
		return
	}

	switch chi.URLParam(r, "action") {
	case "flip":
		d.Flip()
	case "answer":
		var body struct {
			Correct *bool `json:"correct"`
		}
		if err := decode(r, &body); err != nil || body.Correct == nil {
			Error(w, http.StatusBadRequest, `body must be {"correct": true|false}`)
			return
		}
		d.Answer(*body.Correct)
	case "next":
		d.NextDeck()
	case "prev":
		d.PrevDeck()
	case "restart":
		d.Restart()
	default:
		Error(w, http.StatusNotFound, "unknown flashcard action")
		return
	}
	JSON(w, http.StatusOK, newFlashcardView(d.State()))
}
