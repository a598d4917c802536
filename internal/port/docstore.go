package port

import "learnrag/internal/domain"

// DocumentStore holds documents together with their chunks.
type DocumentStore interface {
	// Add stores a document and its chunks as one unit.
	Add(doc domain.Document, chunks []domain.Chunk) (domain.Document, error)

	List() ([]domain.Document, int)

	// Delete removes the document and every chunk that references it.
	Delete(id string) error

	// ScanChunks calls fn for every chunk in insertion order while holding a
	// consistent read view of the store.
	ScanChunks(fn func(domain.Chunk))

	Stats() domain.Stats

	// Generation changes on every successful mutation.
	Generation() uint64
}
