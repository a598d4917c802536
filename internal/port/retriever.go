package port

import "learnrag/internal/domain"

// Scorer rates a chunk's relevance to a query.
type Scorer interface {
	Score(query, text string) (float64, []string)
}

// Retriever defines the interface for searching ingested content.
type Retriever interface {
	// Search returns at most k chunks ranked by relevance.
	Search(query string, k int) ([]domain.ScoredChunk, error)
}

// PromptBuilder renders retrieved chunks into an instruction prompt.
type PromptBuilder interface {
	Build(query string, chunks []domain.ScoredChunk, learner domain.LearnerConfig) (domain.PromptResult, error)
}
