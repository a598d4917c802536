package scorer

import (
	"strings"

	"learnrag/internal/adapter/analyzer"
)

const DefaultPhraseBonus = 5.0

// LexicalScorer rates chunks by literal substring overlap with the query.
//
// Each retained query term found in the chunk adds 1. When the whole query
// occurs in the chunk, the phrase bonus is added once per retained term, so
// a phrase hit weighs more for longer queries. PhraseBonusOnce switches to a
// single bonus per query. The sum is divided by the number of retained terms.
type LexicalScorer struct {
	tokenizer       *analyzer.Tokenizer
	phraseBonus     float64
	phraseBonusOnce bool
}

func NewLexicalScorer(tokenizer *analyzer.Tokenizer, phraseBonus float64, phraseBonusOnce bool) *LexicalScorer {
	if tokenizer == nil {
		tokenizer = analyzer.NewTokenizer()
	}
	return &LexicalScorer{
		tokenizer:       tokenizer,
		phraseBonus:     phraseBonus,
		phraseBonusOnce: phraseBonusOnce,
	}
}

// Score returns the normalized score and the query terms found in text.
func (s *LexicalScorer) Score(query, text string) (float64, []string) {
	terms := s.tokenizer.QueryTerms(query)
	if len(terms) == 0 {
		return 0, nil
	}

	haystack := strings.ToLower(text)
	phraseHit := strings.Contains(haystack, strings.ToLower(query))

	score := 0.0
	var matched []string
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score++
			matched = append(matched, term)
		}
		if phraseHit && !s.phraseBonusOnce {
			score += s.phraseBonus
		}
	}
	if phraseHit && s.phraseBonusOnce {
		score += s.phraseBonus
	}

	return score / float64(len(terms)), matched
}
