package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"learnrag/internal/adapter/analyzer"
	"learnrag/internal/domain"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100

	// charsPerWord converts the overlap budget from characters to words.
	charsPerWord = 5
)

// SentenceChunker packs whole sentences into chunks of roughly size
// characters. Consecutive chunks share the trailing words of the previous
// chunk. A sentence longer than size is never split.
type SentenceChunker struct {
	size    int
	overlap int
}

func NewSentenceChunker(size, overlap int) *SentenceChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &SentenceChunker{
		size:    size,
		overlap: overlap,
	}
}

type sentence struct {
	text  string
	start int
}

func (c *SentenceChunker) Chunk(text string) []domain.Chunk {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	carryWords := c.overlap / charsPerWord

	var chunks []domain.Chunk
	var buf strings.Builder
	bufLen := 0
	freshStart := 0
	carried := false
	cursor := 0

	emit := func() {
		chunkText := strings.TrimSpace(buf.String())
		start := freshStart
		if carried {
			// The carried words precede the first fresh sentence; locate the
			// chunk at or after the previous chunk's start.
			if idx := strings.Index(text[cursor:], chunkText); idx >= 0 {
				start = cursor + idx
			}
		}
		chunks = append(chunks, domain.Chunk{
			ID:        len(chunks),
			Text:      chunkText,
			CharStart: start,
		})
		cursor = start
	}

	for _, s := range sentences {
		sLen := utf8.RuneCountInString(s.text)

		if bufLen > 0 && bufLen+sLen > c.size {
			emit()

			carry := analyzer.LastWords(buf.String(), carryWords)
			buf.Reset()
			carried = len(carry) > 0
			if carried {
				buf.WriteString(strings.Join(carry, " "))
				buf.WriteByte(' ')
			}
			buf.WriteString(s.text)
			bufLen = utf8.RuneCountInString(buf.String())
			freshStart = s.start
			continue
		}

		if bufLen > 0 {
			buf.WriteByte(' ')
			bufLen++
		} else {
			freshStart = s.start
			carried = false
		}
		buf.WriteString(s.text)
		bufLen += sLen
	}

	if strings.TrimSpace(buf.String()) != "" {
		emit()
	}

	return chunks
}

// splitSentences breaks text after '.', '!' or '?' when followed by
// whitespace. The punctuation stays with its sentence, the whitespace run
// between sentences is dropped, and blank sentences are skipped.
func splitSentences(text string) []sentence {
	var out []sentence

	start := skipSpace(text, 0)
	for i := start; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i >= len(text) {
			break
		}
		next, _ := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(next) {
			continue
		}
		out = appendSentence(out, text[start:i], start)
		start = skipSpace(text, i)
		i = start
	}
	if start < len(text) {
		out = appendSentence(out, text[start:], start)
	}

	return out
}

func appendSentence(out []sentence, s string, start int) []sentence {
	if strings.TrimSpace(s) == "" {
		return out
	}
	return append(out, sentence{text: s, start: start})
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
