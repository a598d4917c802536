package usecase

import (
	"strings"

	"go.uber.org/zap"

	"learnrag/internal/domain"
)

// PromptRequest carries the query and learner settings for BuildPrompt.
type PromptRequest struct {
	Query             string `json:"query"`
	LearnerLevel      string `json:"learnerLevel"`
	Subject           string `json:"subject"`
	LearningObjective string `json:"learningObjective"`
}

// BuildPrompt retrieves context for the query and renders the instruction
// prompt. Retrieval and rendering see a single consistent store view.
func (e *Engine) BuildPrompt(req PromptRequest) (domain.PromptResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return domain.PromptResult{}, domain.ErrMissingQuery
	}

	learner := domain.LearnerConfig{
		Level:             req.LearnerLevel,
		Subject:           req.Subject,
		LearningObjective: req.LearningObjective,
	}
	if strings.TrimSpace(learner.Level) == "" {
		learner.Level = e.defaults.Level
	}
	if strings.TrimSpace(learner.Subject) == "" {
		learner.Subject = e.defaults.Subject
	}

	chunks, err := e.Retrieve(req.Query, e.defaults.TopK)
	if err != nil {
		return domain.PromptResult{}, err
	}

	result, err := e.builder.Build(req.Query, chunks, learner)
	if err != nil {
		return domain.PromptResult{}, err
	}

	e.logger.Debug("prompt built",
		zap.Int("sources", len(result.Sources)),
		zap.Bool("has_context", result.HasContext),
		zap.Int("estimated_tokens", result.EstimatedTokens),
	)
	return result, nil
}
