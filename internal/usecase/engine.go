package usecase

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"learnrag/internal/domain"
	"learnrag/internal/port"
)

// Defaults fill in request fields the caller leaves empty.
type Defaults struct {
	TopK    int
	Level   string
	Subject string
}

// Engine is the ingestion and prompt-assembly core. It owns one document
// store for its whole lifetime; all concurrency control lives in the store.
type Engine struct {
	store     port.DocumentStore
	chunker   port.Chunker
	retriever port.Retriever
	builder   port.PromptBuilder
	logger    *zap.Logger
	defaults  Defaults

	now   func() time.Time
	newID func() (string, error)
}

// NewEngine creates a new engine.
func NewEngine(
	store port.DocumentStore,
	chunker port.Chunker,
	retriever port.Retriever,
	builder port.PromptBuilder,
	logger *zap.Logger,
	defaults Defaults,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.TopK <= 0 {
		defaults.TopK = 5
	}
	if defaults.Level == "" {
		defaults.Level = string(domain.LevelIntermediate)
	}
	if defaults.Subject == "" {
		defaults.Subject = "General"
	}
	return &Engine{
		store:     store,
		chunker:   chunker,
		retriever: retriever,
		builder:   builder,
		logger:    logger,
		defaults:  defaults,
		now:       time.Now,
		newID:     newDocumentID,
	}
}

// newDocumentID returns a UUIDv7: time-ordered like the upload timestamp it
// replaces, but unique across uploads in the same millisecond.
func newDocumentID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Health reports store occupancy.
func (e *Engine) Health() domain.Stats {
	return e.store.Stats()
}
