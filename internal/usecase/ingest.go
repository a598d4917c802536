package usecase

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"learnrag/internal/domain"
	"learnrag/internal/port"
)

// Ingest chunks text and stores it as a new document. Nothing is stored
// unless the full chunk set is.
func (e *Engine) Ingest(name, text string) (domain.Document, error) {
	if strings.TrimSpace(name) == "" {
		name = "untitled"
	}
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, domain.Errorf(domain.KindEmptyInput, "could not extract text from %q", name)
	}

	chunks := e.chunker.Chunk(text)
	if len(chunks) == 0 {
		return domain.Document{}, domain.Errorf(domain.KindNoChunksProduced, "no extractable content in %q", name)
	}

	id, err := e.newID()
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to generate document id: %w", err)
	}

	doc, err := e.store.Add(domain.Document{
		ID:         id,
		Name:       name,
		UploadedAt: e.now().UTC(),
		TextLength: utf8.RuneCountInString(text),
	}, chunks)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to store document: %w", err)
	}

	e.logger.Info("document ingested",
		zap.String("id", doc.ID),
		zap.String("name", doc.Name),
		zap.Int("text_length", doc.TextLength),
		zap.Int("chunks", doc.ChunkCount),
	)
	return doc, nil
}

// IngestMessage is the human-readable confirmation for an ingested document.
func IngestMessage(doc domain.Document) string {
	return fmt.Sprintf("Document %q processed successfully with %d chunks", doc.Name, doc.ChunkCount)
}

// ListDocuments returns documents in ingestion order and the total chunk count.
func (e *Engine) ListDocuments() ([]domain.Document, int) {
	return e.store.List()
}

// DeleteDocument removes a document and all of its chunks.
func (e *Engine) DeleteDocument(id string) error {
	if err := e.store.Delete(id); err != nil {
		return err
	}
	e.logger.Info("document deleted", zap.String("id", id))
	return nil
}

// IngestDirResult contains the results of a directory ingestion.
type IngestDirResult struct {
	FilesIngested int
	FilesSkipped  int
	ChunksCreated int
	Documents     []domain.Document
	Errors        []string
}

// ProgressFunc is called after each file is processed.
type ProgressFunc func(processed, total int, currentFile string)

// IngestDir ingests every file the walker finds under root. Per-file
// failures are collected rather than aborting the walk.
func (e *Engine) IngestDir(root string, walker port.FileWalker, reader port.FileReader, progress ProgressFunc) (*IngestDirResult, error) {
	files, err := walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &IngestDirResult{}
	for i, file := range files {
		if err := e.ingestFile(file, reader, result); err != nil {
			result.FilesSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Path, err))
			e.logger.Warn("skipping file", zap.String("path", file.Path), zap.Error(err))
		}
		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	return result, nil
}

func (e *Engine) ingestFile(file port.FileInfo, reader port.FileReader, result *IngestDirResult) error {
	text, err := reader.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := e.Ingest(filepath.Base(file.Path), text)
	if err != nil {
		return err
	}

	result.FilesIngested++
	result.ChunksCreated += doc.ChunkCount
	result.Documents = append(result.Documents, doc)
	return nil
}
