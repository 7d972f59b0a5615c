// Package glossary serves the reference of HTML terms. Locked terms are
// listed but their content is withheld.
package glossary

import (
	"errors"
	"strings"

	"github.com/ashureev/markup-labs/internal/domain"
	"golang.org/x/text/cases"
)

var (
	// ErrNotFound is returned for an unknown term id.
	ErrNotFound = errors.New("glossary: term not found")
	// ErrLocked is returned when a locked term is opened.
	ErrLocked = errors.New("glossary: term is locked")
)

// Entry is the list view of a term.
type Entry struct {
	ID       string `json:"id"`
	Term     string `json:"term"`
	Category string `json:"category"`
	Locked   bool   `json:"locked"`
}

// Index is a read-only glossary. It is safe for concurrent use.
type Index struct {
	terms  []domain.Term
	byID   map[string]int
	folded []string
}

// NewIndex builds an index over terms in catalog order.
func NewIndex(terms []domain.Term) *Index {
	fold := cases.Fold()
	idx := &Index{
		terms:  terms,
		byID:   make(map[string]int, len(terms)),
		folded: make([]string, len(terms)),
	}
	for i, t := range terms {
		idx.byID[t.ID] = i
		idx.folded[i] = fold.String(t.Term)
	}
	return idx
}

// Search returns entries whose name contains q, ignoring case. An empty
// query lists every term.
func (x *Index) Search(q string) []Entry {
	// cases.Caser keeps state and is not safe to share.
	needle := cases.Fold().String(strings.TrimSpace(q))

	out := make([]Entry, 0, len(x.terms))
	for i, t := range x.terms {
		if needle != "" && !strings.Contains(x.folded[i], needle) {
			continue
		}
		out = append(out, Entry{ID: t.ID, Term: t.Term, Category: t.Category, Locked: t.Locked})
	}
	return out
}

// Lookup returns the full term for id.
func (x *Index) Lookup(id string) (domain.Term, error) {
	i, ok := x.byID[id]
	if !ok {
		return domain.Term{}, ErrNotFound
	}
	t := x.terms[i]
	if t.Locked {
		return domain.Term{}, ErrLocked
	}
	return t, nil
}

// Default returns the first unlocked term, which is shown when the page opens.
func (x *Index) Default() (domain.Term, bool) {
	for _, t := range x.terms {
		if !t.Locked {
			return t, true
		}
	}
	return domain.Term{}, false
}

// Len returns the number of terms.
func (x *Index) Len() int {
	return len(x.terms)
}
