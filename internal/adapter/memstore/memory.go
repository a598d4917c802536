package memstore

import (
	"fmt"
	"sync"

	"learnrag/internal/domain"
)

// MemoryStore keeps documents and chunks in process memory. A single
// RWMutex guards both collections so readers never observe a document
// without its chunks or a chunk without its document.
type MemoryStore struct {
	mu         sync.RWMutex
	docs       []domain.Document
	docIndex   map[string]int
	chunks     []domain.Chunk
	generation uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docIndex: make(map[string]int),
	}
}

// Add stores doc with its chunks. Chunks are tagged with the document's id
// and name, and ChunkCount is set from the chunk set.
func (s *MemoryStore) Add(doc domain.Document, chunks []domain.Chunk) (domain.Document, error) {
	if doc.ID == "" {
		return domain.Document{}, fmt.Errorf("document id is required")
	}
	if len(chunks) == 0 {
		return domain.Document{}, domain.ErrNoChunksProduced
	}

	tagged := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		c.DocumentID = doc.ID
		c.DocumentName = doc.Name
		tagged[i] = c
	}
	doc.ChunkCount = len(tagged)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docIndex[doc.ID]; exists {
		return domain.Document{}, fmt.Errorf("document already exists: %s", doc.ID)
	}

	s.docIndex[doc.ID] = len(s.docs)
	s.docs = append(s.docs, doc)
	s.chunks = append(s.chunks, tagged...)
	s.generation++

	return doc, nil
}

// List returns documents in ingestion order and the total chunk count.
func (s *MemoryStore) List() ([]domain.Document, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, len(s.docs))
	copy(docs, s.docs)
	return docs, len(s.chunks)
}

func (s *MemoryStore) Get(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.docIndex[id]
	if !ok {
		return domain.Document{}, domain.Errorf(domain.KindNotFound, "document not found: %s", id)
	}
	return s.docs[i], nil
}

// Delete removes the document and cascades to its chunks.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.docIndex[id]
	if !ok {
		return domain.Errorf(domain.KindNotFound, "document not found: %s", id)
	}

	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	delete(s.docIndex, id)
	for j := i; j < len(s.docs); j++ {
		s.docIndex[s.docs[j].ID] = j
	}

	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if c.DocumentID != id {
			kept = append(kept, c)
		}
	}
	clear(s.chunks[len(kept):])
	s.chunks = kept
	s.generation++

	return nil
}

func (s *MemoryStore) ScanChunks(fn func(domain.Chunk)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chunks {
		fn(c)
	}
}

func (s *MemoryStore) Stats() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		DocumentCount: len(s.docs),
		TotalChunks:   len(s.chunks),
	}
}

func (s *MemoryStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
