package port

import "learnrag/internal/domain"

// Chunker splits extracted document text into ordered chunks. The returned
// chunks carry local sequence ids and offsets but no document identity.
type Chunker interface {
	Chunk(text string) []domain.Chunk
}
