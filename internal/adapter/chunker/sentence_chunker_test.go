package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSentenceChunkerScenario(t *testing.T) {
	c := NewSentenceChunker(20, 5)
	text := "The cat sat. The cat ran fast. Dogs bark loudly at night."

	chunks := c.Chunk(text)

	expected := []struct {
		text  string
		start int
	}{
		{"The cat sat.", 0},
		{"sat. The cat ran fast.", 8},
		{"fast. Dogs bark loudly at night.", 25},
	}
	if len(chunks) != len(expected) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(expected), len(chunks), chunks)
	}
	for i, want := range expected {
		if chunks[i].ID != i {
			t.Errorf("chunk %d: expected ID %d, got %d", i, i, chunks[i].ID)
		}
		if chunks[i].Text != want.text {
			t.Errorf("chunk %d: expected text %q, got %q", i, want.text, chunks[i].Text)
		}
		if chunks[i].CharStart != want.start {
			t.Errorf("chunk %d: expected CharStart %d, got %d", i, want.start, chunks[i].CharStart)
		}
	}
}

func TestSentenceChunkerEmptyContent(t *testing.T) {
	c := NewSentenceChunker(500, 100)

	for _, text := range []string{"", "   ", "\n\t \n"} {
		if chunks := c.Chunk(text); len(chunks) != 0 {
			t.Errorf("expected 0 chunks for %q, got %d", text, len(chunks))
		}
	}
}

func TestSentenceChunkerSingleSentence(t *testing.T) {
	c := NewSentenceChunker(500, 100)

	content := "  Just a single sentence without a trailing period"
	chunks := c.Chunk(content)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != strings.TrimSpace(content) {
		t.Errorf("expected trimmed content, got %q", chunks[0].Text)
	}
	if chunks[0].CharStart != 2 {
		t.Errorf("expected CharStart 2, got %d", chunks[0].CharStart)
	}
}

func TestSentenceChunkerLongSentence(t *testing.T) {
	c := NewSentenceChunker(10, 0)

	content := "This sentence is definitely longer than ten characters. Short one."
	chunks := c.Chunk(content)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].Text != "This sentence is definitely longer than ten characters." {
		t.Errorf("oversized sentence should stay whole, got %q", chunks[0].Text)
	}
	if chunks[1].Text != "Short one." {
		t.Errorf("expected second chunk %q, got %q", "Short one.", chunks[1].Text)
	}
}

func TestSentenceChunkerRepeatedFragments(t *testing.T) {
	c := NewSentenceChunker(8, 0)

	chunks := c.Chunk("Hello. Hello. Hello.")
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, want := range []int{0, 7, 14} {
		if chunks[i].CharStart != want {
			t.Errorf("chunk %d: expected CharStart %d, got %d", i, want, chunks[i].CharStart)
		}
	}
}

func TestSentenceChunkerSplitsOnAllTerminators(t *testing.T) {
	sentences := splitSentences("Is it? Yes! It is. Version 1.2 ships.")

	want := []string{"Is it?", "Yes!", "It is.", "Version 1.2 ships."}
	if len(sentences) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %+v", len(want), len(sentences), sentences)
	}
	for i := range want {
		if sentences[i].text != want[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, want[i], sentences[i].text)
		}
	}
}

func TestSentenceChunkerCoverage(t *testing.T) {
	var parts []string
	for i := 0; i < 40; i++ {
		parts = append(parts, fmt.Sprintf("Sentence number %d talks about topic %d.", i, i%7))
	}
	text := strings.Join(parts, " ")

	c := NewSentenceChunker(120, 20)
	chunks := c.Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Every sentence appears, and sentences appear in non-decreasing chunk order.
	last := 0
	for _, s := range parts {
		found := -1
		for j := last; j < len(chunks); j++ {
			if strings.Contains(chunks[j].Text, s) {
				found = j
				break
			}
		}
		if found < 0 {
			t.Fatalf("sentence %q not found at or after chunk %d", s, last)
		}
		last = found
	}
}

func TestSentenceChunkerBound(t *testing.T) {
	var parts []string
	maxSentence := 0
	for i := 0; i < 50; i++ {
		s := fmt.Sprintf("Item %d is described in a short sentence here.", i)
		if n := utf8.RuneCountInString(s); n > maxSentence {
			maxSentence = n
		}
		parts = append(parts, s)
	}

	size := 100
	c := NewSentenceChunker(size, 20)
	chunks := c.Chunk(strings.Join(parts, " "))

	for i, ch := range chunks[:len(chunks)-1] {
		if n := utf8.RuneCountInString(ch.Text); n > size+maxSentence {
			t.Errorf("chunk %d has %d characters, exceeds %d", i, n, size+maxSentence)
		}
	}
}

func TestSentenceChunkerOverlap(t *testing.T) {
	c := NewSentenceChunker(30, 10)

	chunks := c.Chunk("Alpha beta gamma delta. Epsilon zeta eta theta. Iota kappa lambda mu.")
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Text)
		carry := strings.Join(prev[len(prev)-2:], " ")
		if !strings.HasPrefix(chunks[i].Text, carry+" ") {
			t.Errorf("chunk %d %q should start with overlap %q", i, chunks[i].Text, carry)
		}
	}
}

func TestSentenceChunkerDefaults(t *testing.T) {
	c := NewSentenceChunker(0, -1)
	if c.size != DefaultChunkSize {
		t.Errorf("expected default size %d, got %d", DefaultChunkSize, c.size)
	}
	if c.overlap != 0 {
		t.Errorf("expected negative overlap to clamp to 0, got %d", c.overlap)
	}
}
