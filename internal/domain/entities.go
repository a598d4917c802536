package domain

import "time"

// Document is an ingested upload. ChunkCount is fixed at creation.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploadedAt"`
	TextLength int       `json:"textLength"`
	ChunkCount int       `json:"chunkCount"`
}

// Chunk is the unit of retrieval. ID is a sequence number local to one
// ingestion; (DocumentID, ID) is the globally unique key.
type Chunk struct {
	ID           int    `json:"id"`
	DocumentID   string `json:"documentId"`
	DocumentName string `json:"documentName"`
	Text         string `json:"text"`
	CharStart    int    `json:"charStart"`
}

// Key returns the composite identity of the chunk.
func (c Chunk) Key() ChunkKey {
	return ChunkKey{DocumentID: c.DocumentID, Index: c.ID}
}

type ChunkKey struct {
	DocumentID string
	Index      int
}

type ScoredChunk struct {
	Chunk        Chunk    `json:"chunk"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matchedTerms"`
}

type LearnerLevel string

const (
	LevelBeginner     LearnerLevel = "beginner"
	LevelIntermediate LearnerLevel = "intermediate"
	LevelAdvanced     LearnerLevel = "advanced"
)

// LearnerConfig shapes the tone and focus of a generated prompt.
type LearnerConfig struct {
	Level             string `json:"learnerLevel"`
	Subject           string `json:"subject"`
	LearningObjective string `json:"learningObjective,omitempty"`
}

// Source is a citation entry. Its 1-based position matches [Source N] in the prompt.
type Source struct {
	DocumentName string  `json:"documentName"`
	Excerpt      string  `json:"excerpt"`
	Score        float64 `json:"similarity"`
}

type PromptResult struct {
	Prompt          string   `json:"prompt"`
	Context         string   `json:"context"`
	Sources         []Source `json:"sources"`
	HasContext      bool     `json:"hasContext"`
	EstimatedTokens int      `json:"estimatedTokens"`
}

type Stats struct {
	DocumentCount int `json:"documentCount"`
	TotalChunks   int `json:"totalChunks"`
}
