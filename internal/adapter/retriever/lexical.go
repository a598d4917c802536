package retriever

import (
	"sort"

	"learnrag/internal/domain"
	"learnrag/internal/port"
)

const (
	DefaultTopK = 5

	// DefaultMinScore is the relevance floor; results scoring at or below
	// it are dropped.
	DefaultMinScore = 0.1
)

// ChunkSource is the read side of the document store.
type ChunkSource interface {
	ScanChunks(fn func(domain.Chunk))
}

// LexicalRetriever scores every stored chunk against the query.
type LexicalRetriever struct {
	source   ChunkSource
	scorer   port.Scorer
	minScore float64
}

func NewLexicalRetriever(source ChunkSource, scorer port.Scorer, minScore float64) *LexicalRetriever {
	return &LexicalRetriever{
		source:   source,
		scorer:   scorer,
		minScore: minScore,
	}
}

// Search ranks all chunks by score, keeps the first k, then drops results at
// or below the relevance floor. The floor is applied after truncation, so a
// weak result can occupy one of the k slots and then be discarded. Ties keep
// store order (ingestion order, then chunk sequence).
func (r *LexicalRetriever) Search(query string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	var scored []domain.ScoredChunk
	r.source.ScanChunks(func(c domain.Chunk) {
		score, matched := r.scorer.Score(query, c.Text)
		scored = append(scored, domain.ScoredChunk{
			Chunk:        c,
			Score:        score,
			MatchedTerms: matched,
		})
	})
	if len(scored) == 0 {
		return nil, nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	results := make([]domain.ScoredChunk, 0, len(scored))
	for _, sc := range scored {
		if sc.Score > r.minScore {
			results = append(results, sc)
		}
	}
	return results, nil
}
