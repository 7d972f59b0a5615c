package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/markup-labs/internal/catalog"
	"github.com/ashureev/markup-labs/internal/learner"
	"github.com/ashureev/markup-labs/internal/quiz"
)

type lessonView struct {
	Phase          string `json:"phase"`
	LessonIndex    int    `json:"lesson_index"`
	LessonCount    int    `json:"lesson_count"`
	ChallengeIndex int    `json:"challenge_index"`
	ChallengeCount int    `json:"challenge_count"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	PlainText      string `json:"plain_text"`
	Challenge      string `json:"challenge"`
	BattleWon      bool   `json:"battle_won"`
}

func newLessonView(sess *learner.Session) lessonView {
	l, c, st := sess.Lesson.Current()
	return lessonView{
		Phase:          st.Phase.String(),
		LessonIndex:    st.LessonIndex,
		LessonCount:    sess.Lesson.LessonCount(),
		ChallengeIndex: st.ChallengeIndex,
		ChallengeCount: len(l.Challenges),
		Title:          l.Title,
		Description:    l.Description,
		PlainText:      catalog.PlainText(l.Description),
		Challenge:      c.Text,
		BattleWon:      st.BattleWon,
	}
}

// GetLesson returns the active lesson.
func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, newLessonView(sess))
}

// NextLesson advances to the next lesson, or into the quiz after the last.
func (h *Handler) NextLesson(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := sess.Lesson.Advance()
	if err != nil {
		if errors.Is(err, quiz.ErrNoQuestions) {
			Error(w, http.StatusServiceUnavailable, "quiz questions are missing")
			return
		}
		slog.Error("Failed to advance lesson", "error", err, "user_id", sess.UserID)
		Error(w, http.StatusInternalServerError, "failed to advance")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"result": res.String(),
		"lesson": newLessonView(sess),
	})
}

// PrevLesson goes back one lesson.
func (h *Handler) PrevLesson(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	moved := sess.Lesson.Retreat()
	JSON(w, http.StatusOK, map[string]interface{}{
		"moved":  moved,
		"lesson": newLessonView(sess),
	})
}
