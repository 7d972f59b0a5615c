package domain

import "strings"

// Option identifies one of the three answers of a quiz question.
type Option string

const (
	OptionA Option = "a"
	OptionB Option = "b"
	OptionC Option = "c"
)

// ParseOption normalizes user input ("A", " b ") into an Option.
// The second return value is false for anything that is not a, b or c.
func ParseOption(s string) (Option, bool) {
	o := Option(strings.ToLower(strings.TrimSpace(s)))
	return o, o.Valid()
}

// Valid reports whether o is one of the known options.
func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC:
		return true
	}
	return false
}

// Choices holds the answer text for each option.
type Choices struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
}

// Question is a static multiple-choice quiz question.
type Question struct {
	Prompt  string  `json:"prompt"`
	Choices Choices `json:"choices"`
	Correct Option  `json:"-"`
}

// Text returns the answer text shown for option o.
func (q Question) Text(o Option) string {
	switch o {
	case OptionA:
		return q.Choices.A
	case OptionB:
		return q.Choices.B
	case OptionC:
		return q.Choices.C
	}
	return ""
}
