package analyzer

import (
	"strings"
	"unicode"
)

// MinTermLength is the shortest query term kept for lexical matching.
// Shorter tokens ("a", "is", "of") are discarded.
const MinTermLength = 3

// Tokenizer extracts query terms and estimates LLM token usage.
type Tokenizer struct {
	minTermLen int
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{minTermLen: MinTermLength}
}

// QueryTerms lower-cases the query, splits it on whitespace and drops terms
// shorter than the minimum length. Punctuation stays attached to the term
// and duplicates are kept.
func (t *Tokenizer) QueryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < t.minTermLen {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// CountTokens returns an approximate token count for LLM budget estimation.
func (t *Tokenizer) CountTokens(text string) int {
	words := splitWords(text)
	if len(words) == 0 {
		return 0
	}
	// Rough estimate: average word is about 1.3 tokens
	return int(float64(len(words)) * 1.3)
}

// LastWords returns the last n whitespace-delimited words of text.
func LastWords(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) <= n {
		return words
	}
	return words[len(words)-n:]
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
