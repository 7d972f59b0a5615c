package domain

// NoticeKind categorizes learner-facing notices.
type NoticeKind string

const (
	// NoticeLessonLoaded is emitted whenever a lesson becomes active.
	NoticeLessonLoaded NoticeKind = "lesson_loaded"
	// NoticeBlocked is emitted when advancing without defeating the bug.
	NoticeBlocked NoticeKind = "blocked"
	// NoticeAdvanced is emitted after moving on to the next lesson.
	NoticeAdvanced NoticeKind = "advanced"
	// NoticeBattleWon is emitted when the battle peer reports a victory.
	NoticeBattleWon NoticeKind = "battle_won"
	// NoticeQuizStarted is emitted when the knowledge check begins.
	NoticeQuizStarted NoticeKind = "quiz_started"
	// NoticeQuizFinished is emitted once the last question is settled.
	NoticeQuizFinished NoticeKind = "quiz_finished"
	// NoticeDeckCompleted is emitted when a flashcard deck is exhausted.
	NoticeDeckCompleted NoticeKind = "deck_completed"
	// NoticeConfigError is emitted when required static data is missing.
	NoticeConfigError NoticeKind = "config_error"
)

// Notice is a presentation trigger for the lesson page (modal text,
// results text). It carries no behavior.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Text        string     `json:"text"`
	LessonIndex int        `json:"lesson_index"`
	Score       int        `json:"score,omitempty"`
	Total       int        `json:"total,omitempty"`
}
