package api

import (
	"errors"
	"net/http"

	"github.com/ashureev/markup-labs/internal/domain"
	"github.com/ashureev/markup-labs/internal/learner"
	"github.com/ashureev/markup-labs/internal/quiz"
)

type quizView struct {
	Phase          string           `json:"phase"`
	QuestionIndex  int              `json:"question_index"`
	Total          int              `json:"total"`
	Score          int              `json:"score"`
	CanAnswer      bool             `json:"can_answer"`
	QuestionFailed bool             `json:"question_failed"`
	Question       *domain.Question `json:"question,omitempty"`
}

func newQuizView(st quiz.State) quizView {
	return quizView{
		Phase:          st.Phase.String(),
		QuestionIndex:  st.QuestionIndex,
		Total:          st.Total,
		Score:          st.Score,
		CanAnswer:      st.CanAnswer,
		QuestionFailed: st.QuestionFailed,
		Question:       st.Question,
	}
}

// GetQuiz returns the quiz state. The correct option is never exposed.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, newQuizView(sess.Quiz.State()))
}

// AnswerQuiz submits an answer to the current question.
func (h *Handler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Option string `json:"option"`
	}
	if err := decode(r, &body); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	opt, valid := domain.ParseOption(body.Option)
	if !valid {
		Error(w, http.StatusBadRequest, "option must be a, b or c")
		return
	}

	outcome := sess.Quiz.Submit(opt)
	JSON(w, http.StatusOK, map[string]interface{}{
		"outcome": outcome.String(),
		"quiz":    newQuizView(sess.Quiz.State()),
	})
}

// RestartQuiz starts the quiz over once it has been unlocked.
func (h *Handler) RestartQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	switch err := sess.RestartQuiz(); {
	case errors.Is(err, learner.ErrQuizLocked):
		Error(w, http.StatusConflict, "complete every lesson first")
		return
	case errors.Is(err, quiz.ErrNoQuestions):
		Error(w, http.StatusServiceUnavailable, "quiz questions are missing")
		return
	case err != nil:
		Error(w, http.StatusInternalServerError, "failed to restart quiz")
		return
	}
	JSON(w, http.StatusOK, newQuizView(sess.Quiz.State()))
}
