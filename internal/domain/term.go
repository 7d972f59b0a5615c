package domain

// Term is a glossary entry. Locked entries are listed but not readable.
type Term struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Category   string `json:"category"`
	Definition string `json:"definition,omitempty"`
	Syntax     string `json:"syntax,omitempty"`
	Locked     bool   `json:"locked"`
}
