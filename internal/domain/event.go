package domain

import "time"

// LearnerEvent is an append-only history record of learner progress.
// Events are analytics only; they are never replayed into session state.
type LearnerEvent struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SessionID   string     `json:"session_id"`
	Kind        NoticeKind `json:"kind"`
	LessonIndex int        `json:"lesson_index"`
	Score       int        `json:"score"`
	Total       int        `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
}
