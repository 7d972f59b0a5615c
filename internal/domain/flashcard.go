package domain

// Card is a single flashcard.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Deck is a titled set of flashcards.
type Deck struct {
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}
