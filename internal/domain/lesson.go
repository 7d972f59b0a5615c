package domain

import "regexp"

// Rule is a compiled challenge predicate: the submitted document passes
// when Pattern matches at least MinMatches times.
type Rule struct {
	Pattern    *regexp.Regexp
	MinMatches int
}

// Matches reports whether html satisfies the rule.
func (r Rule) Matches(html string) bool {
	if r.Pattern == nil {
		return false
	}
	if r.MinMatches <= 1 {
		return r.Pattern.MatchString(html)
	}
	return len(r.Pattern.FindAllStringIndex(html, r.MinMatches)) >= r.MinMatches
}

// Challenge is one markup-authoring task within a lesson.
type Challenge struct {
	Text string
	Rule Rule
}

// Passes reports whether the full submitted document completes the challenge.
func (c Challenge) Passes(html string) bool {
	return c.Rule.Matches(html)
}

// Lesson is an immutable catalog entry: a title, a markup description and
// an ordered list of challenges.
type Lesson struct {
	Title       string
	Description string
	Challenges  []Challenge
}
