// Package catalog loads the static lesson, quiz, flashcard and glossary
// content that drives every learner session.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/ashureev/markup-labs/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema string

// ErrInvalid is returned when catalog content fails validation.
var ErrInvalid = errors.New("catalog: invalid content")

// Catalog is the immutable content set shared by all sessions.
type Catalog struct {
	Lessons   []domain.Lesson
	Questions []domain.Question
	Decks     []domain.Deck
	Terms     []domain.Term
}

type fileChallenge struct {
	Text       string `yaml:"text"`
	Pattern    string `yaml:"pattern"`
	MinMatches int    `yaml:"min_matches"`
}

type fileLesson struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Challenges  []fileChallenge `yaml:"challenges"`
}

type fileQuestion struct {
	Prompt  string         `yaml:"prompt"`
	Choices domain.Choices `yaml:"choices"`
	Correct string         `yaml:"correct"`
}

type fileTerm struct {
	ID         string `yaml:"id"`
	Term       string `yaml:"term"`
	Category   string `yaml:"category"`
	Definition string `yaml:"definition"`
	Syntax     string `yaml:"syntax"`
	Locked     bool   `yaml:"locked"`
}

type file struct {
	Lessons []fileLesson   `yaml:"lessons"`
	Quiz    []fileQuestion `yaml:"quiz"`
	Decks   []domain.Deck  `yaml:"decks"`
	Terms   []fileTerm     `yaml:"terms"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads and parses a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Info("catalog loaded", "path", path, "lessons", len(cat.Lessons), "questions", len(cat.Questions))
	return cat, nil
}

// Parse validates raw YAML against the catalog schema and compiles every
// challenge pattern.
func Parse(data []byte) (*Catalog, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalid, err)
	}

	cat := &Catalog{
		Lessons:   make([]domain.Lesson, 0, len(f.Lessons)),
		Questions: make([]domain.Question, 0, len(f.Quiz)),
		Decks:     f.Decks,
		Terms:     make([]domain.Term, 0, len(f.Terms)),
	}

	for i, l := range f.Lessons {
		lesson := domain.Lesson{
			Title:       l.Title,
			Description: strings.TrimSpace(l.Description),
			Challenges:  make([]domain.Challenge, 0, len(l.Challenges)),
		}
		for j, c := range l.Challenges {
			re, err := regexp.Compile(c.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: lesson %d challenge %d: %v", ErrInvalid, i+1, j+1, err)
			}
			lesson.Challenges = append(lesson.Challenges, domain.Challenge{
				Text: c.Text,
				Rule: domain.Rule{Pattern: re, MinMatches: c.MinMatches},
			})
		}
		cat.Lessons = append(cat.Lessons, lesson)
	}

	for _, q := range f.Quiz {
		cat.Questions = append(cat.Questions, domain.Question{
			Prompt:  q.Prompt,
			Choices: q.Choices,
			Correct: domain.Option(q.Correct),
		})
	}

	seen := make(map[string]bool, len(f.Terms))
	for _, t := range f.Terms {
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate term id %q", ErrInvalid, t.ID)
		}
		seen[t.ID] = true
		cat.Terms = append(cat.Terms, domain.Term(t))
	}

	return cat, nil
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(catalogSchema))
	if err != nil {
		return nil, fmt.Errorf("parse catalog schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://catalog.json", doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile("schema://catalog.json")
})

// validate checks the document shape before decoding into typed structs.
// YAML is round-tripped through JSON so the validator sees plain JSON values.
func validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: decode yaml: %v", ErrInvalid, err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: convert to json: %v", ErrInvalid, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return fmt.Errorf("%w: parse json: %v", ErrInvalid, err)
	}

	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
