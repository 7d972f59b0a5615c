// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	FrontendURL    string   `env:"FRONTEND_URL"`
	DBPath         string   `env:"DB_PATH" envDefault:"./data/labs.db"`
	CatalogPath    string   `env:"CATALOG_PATH"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Session SessionConfig
	Quiz    QuizConfig
}

// SessionConfig controls learner session lifetime and buffering.
type SessionConfig struct {
	TTL            time.Duration `env:"SESSION_TTL" envDefault:"60m"`
	SweepInterval  time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
	NoticeQueue    int           `env:"NOTICE_QUEUE_SIZE" envDefault:"32"`
	PeerOutbox     int           `env:"PEER_OUTBOX_SIZE" envDefault:"64"`
	EventRetention time.Duration `env:"EVENT_RETENTION" envDefault:"720h"`
}

// QuizConfig controls how long quiz feedback stays on screen.
type QuizConfig struct {
	CorrectDelay time.Duration `env:"QUIZ_CORRECT_DELAY" envDefault:"2s"`
	WrongDelay   time.Duration `env:"QUIZ_WRONG_DELAY" envDefault:"1500ms"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH cannot be empty")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS cannot be empty")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be > 0")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be > 0")
	}
	if c.Session.NoticeQueue <= 0 {
		return errors.New("NOTICE_QUEUE_SIZE must be > 0")
	}
	if c.Session.PeerOutbox <= 0 {
		return errors.New("PEER_OUTBOX_SIZE must be > 0")
	}
	if c.Session.EventRetention < 0 {
		return errors.New("EVENT_RETENTION cannot be negative")
	}
	if c.Quiz.CorrectDelay <= 0 || c.Quiz.WrongDelay <= 0 {
		return errors.New("QUIZ_CORRECT_DELAY and QUIZ_WRONG_DELAY must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}
