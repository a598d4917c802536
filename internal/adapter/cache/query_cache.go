package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"learnrag/internal/domain"
)

// QueryCache is a bounded LRU of retrieval results. Each entry remembers the
// store generation it was computed against and is discarded once the store
// has changed.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	results    []domain.ScoredChunk
	timestamp  time.Time
	generation uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(query string, topK int) string {
	data := []byte(query)
	data = append(data, byte(topK>>24), byte(topK>>16), byte(topK>>8), byte(topK))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(query string, topK int, generation uint64) ([]domain.ScoredChunk, bool) {
	key := cacheKey(query, topK)

	// Hits reorder the LRU list, so even reads take the write lock.
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if c.now().Sub(entry.timestamp) > c.ttl || entry.generation != generation {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}

	c.moveToEnd(key)
	return entry.results, true
}

func (c *QueryCache) Put(query string, topK int, generation uint64, results []domain.ScoredChunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, topK)
	entry := &cacheEntry{
		results:    results,
		timestamp:  c.now(),
		generation: generation,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

type Retriever interface {
	Search(query string, k int) ([]domain.ScoredChunk, error)
}

// GenerationSource reports the current store generation.
type GenerationSource interface {
	Generation() uint64
}

type CachedRetriever struct {
	retriever Retriever
	source    GenerationSource
	cache     *QueryCache
}

func NewCachedRetriever(retriever Retriever, source GenerationSource, cache *QueryCache) *CachedRetriever {
	return &CachedRetriever{
		retriever: retriever,
		source:    source,
		cache:     cache,
	}
}

// Search serves from cache when the store has not changed since the entry
// was computed. The generation is read before searching, so a result computed
// while a write lands is stored under the older generation and never served.
func (r *CachedRetriever) Search(query string, k int) ([]domain.ScoredChunk, error) {
	gen := r.source.Generation()

	if results, hit := r.cache.Get(query, k, gen); hit {
		return results, nil
	}

	results, err := r.retriever.Search(query, k)
	if err != nil {
		return nil, err
	}

	r.cache.Put(query, k, gen, results)

	return results, nil
}
