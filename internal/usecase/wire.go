package usecase

import (
	"go.uber.org/zap"

	"learnrag/config"
	"learnrag/internal/adapter/analyzer"
	"learnrag/internal/adapter/cache"
	"learnrag/internal/adapter/chunker"
	"learnrag/internal/adapter/memstore"
	"learnrag/internal/adapter/retriever"
	"learnrag/internal/adapter/scorer"
	"learnrag/internal/port"
	"learnrag/internal/prompt"
)

// NewEngineFromConfig assembles an engine over a fresh in-memory store.
func NewEngineFromConfig(cfg *config.Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	tokenizer := analyzer.NewTokenizer()
	store := memstore.NewMemoryStore()
	chk := chunker.NewSentenceChunker(cfg.Chunk.Size, cfg.Chunk.Overlap)
	sc := scorer.NewLexicalScorer(tokenizer, cfg.Retrieve.PhraseBonus, cfg.Retrieve.PhraseBonusOnce)

	var ret port.Retriever = retriever.NewLexicalRetriever(store, sc, cfg.Retrieve.MinScore)
	if cfg.Retrieve.CacheSize > 0 {
		ret = cache.NewCachedRetriever(ret, store, cache.NewQueryCache(cfg.Retrieve.CacheSize, cfg.Retrieve.CacheTTL))
	}

	builder := prompt.NewBuilder(tokenizer, cfg.Prompt.ExcerptLength)

	return NewEngine(store, chk, ret, builder, logger, Defaults{
		TopK:    cfg.Retrieve.TopK,
		Level:   cfg.Prompt.DefaultLevel,
		Subject: cfg.Prompt.DefaultSubject,
	})
}
