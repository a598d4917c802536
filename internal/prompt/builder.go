// Package prompt renders retrieved chunks and learner settings into an
// instruction prompt for an external language model.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"learnrag/internal/adapter/analyzer"
	"learnrag/internal/domain"
)

const DefaultExcerptLength = 150

//go:embed templates/*.tmpl
var templates embed.FS

var educationalTemplate = template.Must(
	template.New("educational.tmpl").
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		ParseFS(templates, "templates/educational.tmpl"),
)

var levelGuidelines = map[domain.LearnerLevel][]string{
	domain.LevelBeginner: {
		"Use simple, everyday language and avoid jargon",
		"Break down concepts into small, digestible steps",
		"Provide relatable analogies and real-world examples",
		"Define any technical terms when first introduced",
		"Use encouraging and supportive tone",
	},
	domain.LevelIntermediate: {
		"Balance technical accuracy with accessibility",
		"Assume basic foundational knowledge",
		"Provide moderate depth with practical examples",
		"Connect concepts to broader themes",
		"Include some technical terminology with brief explanations",
	},
	domain.LevelAdvanced: {
		"Use precise technical language appropriate for the field",
		"Provide in-depth analysis and nuanced explanations",
		"Reference advanced concepts and interconnections",
		"Include edge cases and complex scenarios",
		"Encourage critical thinking and deeper exploration",
	},
}

// Guidelines returns the style directives for level. Unknown levels get the
// intermediate preset.
func Guidelines(level string) []string {
	if g, ok := levelGuidelines[domain.LearnerLevel(strings.ToLower(strings.TrimSpace(level)))]; ok {
		return g
	}
	return levelGuidelines[domain.LevelIntermediate]
}

type templateData struct {
	HasContext bool
	Level      string
	Guidelines []string
	Subject    string
	Objective  string
	Context    string
	Query      string
}

type Builder struct {
	tokenizer  *analyzer.Tokenizer
	excerptLen int
}

func NewBuilder(tokenizer *analyzer.Tokenizer, excerptLen int) *Builder {
	if tokenizer == nil {
		tokenizer = analyzer.NewTokenizer()
	}
	if excerptLen <= 0 {
		excerptLen = DefaultExcerptLength
	}
	return &Builder{
		tokenizer:  tokenizer,
		excerptLen: excerptLen,
	}
}

// Build renders the prompt. Sources follow the order of chunks, so the Nth
// source is the one cited as [Source N].
func (b *Builder) Build(query string, chunks []domain.ScoredChunk, learner domain.LearnerConfig) (domain.PromptResult, error) {
	if strings.TrimSpace(query) == "" {
		return domain.PromptResult{}, domain.ErrMissingQuery
	}

	hasContext := len(chunks) > 0
	context := FormatContext(chunks)

	data := templateData{
		HasContext: hasContext,
		Level:      learner.Level,
		Guidelines: Guidelines(learner.Level),
		Subject:    learner.Subject,
		Objective:  strings.TrimSpace(learner.LearningObjective),
		Context:    context,
		Query:      query,
	}

	var buf bytes.Buffer
	if err := educationalTemplate.Execute(&buf, data); err != nil {
		return domain.PromptResult{}, fmt.Errorf("failed to render prompt: %w", err)
	}
	rendered := strings.TrimSpace(buf.String())

	sources := make([]domain.Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, domain.Source{
			DocumentName: c.Chunk.DocumentName,
			Excerpt:      Excerpt(c.Chunk.Text, b.excerptLen),
			Score:        c.Score,
		})
	}

	return domain.PromptResult{
		Prompt:          rendered,
		Context:         context,
		Sources:         sources,
		HasContext:      hasContext,
		EstimatedTokens: b.tokenizer.CountTokens(rendered),
	}, nil
}

// FormatContext renders chunks as numbered source blocks separated by blank lines.
func FormatContext(chunks []domain.ScoredChunk) string {
	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Source %d - %s]:\n%s", i+1, c.Chunk.DocumentName, c.Chunk.Text)
	}
	return sb.String()
}

// Excerpt returns the first n runes of text, marking truncation with "...".
func Excerpt(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
