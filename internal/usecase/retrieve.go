package usecase

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"learnrag/internal/domain"
)

// Retrieve returns up to topK chunks relevant to query. An empty store or a
// query that matches nothing yields an empty result, not an error.
func (e *Engine) Retrieve(query string, topK int) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		topK = e.defaults.TopK
	}
	if strings.TrimSpace(query) == "" {
		return []domain.ScoredChunk{}, nil
	}

	results, err := e.retriever.Search(query, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chunks: %w", err)
	}
	if results == nil {
		results = []domain.ScoredChunk{}
	}

	e.logger.Debug("retrieved chunks",
		zap.String("query", query),
		zap.Int("top_k", topK),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// RetrieveResult is the response shape for a raw retrieval.
type RetrieveResult struct {
	Query      string               `json:"query"`
	Chunks     []domain.ScoredChunk `json:"chunks"`
	HasContext bool                 `json:"hasContext"`
}
