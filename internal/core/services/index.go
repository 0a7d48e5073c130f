package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasha-health/ragindex/internal/chunker"
	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/core/ports/driving"
	"github.com/tasha-health/ragindex/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService runs the read, segment, schema, insert sequence for one
// source document.
type IndexService struct {
	reader driven.SourceReader
	writer *ChunkWriter
	now    func() time.Time
}

// NewIndexService creates a new index service.
func NewIndexService(reader driven.SourceReader, store driven.ChunkStore) *IndexService {
	return &IndexService{
		reader: reader,
		writer: NewChunkWriter(store),
		now:    time.Now,
	}
}

// Index indexes req.SourcePath into the store.
func (s *IndexService) Index(
	ctx context.Context,
	req domain.IndexRequest,
	progress domain.ProgressFunc,
) (*domain.IndexResult, error) {
	started := s.now()
	result := &domain.IndexResult{RunID: uuid.New().String()}

	logger.Section("Index Run")
	logger.Debug("Run: %s", result.RunID)

	// Settings are checked before any I/O.
	seg, err := chunker.New(req.Chunking)
	if err != nil {
		return nil, err
	}
	if req.Chunking.OverlapIgnored() {
		logger.Warn("Overlap of %d words ignored in %s mode", req.Chunking.Overlap, req.Chunking.Mode)
	}

	if s.reader == nil {
		return nil, fmt.Errorf("source reader not configured")
	}

	logger.Debug("Reading %s", req.SourcePath)
	doc, err := s.reader.Read(ctx, req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	doc.Book = req.Book
	if doc.Book == "" {
		doc.Book = BookFromPath(req.SourcePath)
	}
	result.Book = doc.Book
	result.Characters = len([]rune(doc.Content))
	logger.Info("Read %d characters", result.Characters)

	segments := seg.Segment(doc.Content)
	result.Words = chunker.CountWords(doc.Content)
	result.Segments = len(segments)
	logger.Info("Text has %d words, created %d chunks of up to %d words (%s)",
		result.Words, result.Segments, req.Chunking.Size, req.Chunking.Mode)

	if err := s.writer.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	inserted, err := s.writer.InsertChunks(ctx, doc.Book, segments, progress)
	result.Inserted = inserted
	if err != nil {
		return nil, err
	}

	result.Duration = s.now().Sub(started)
	logger.Info("Inserted %d chunks for %q in %s", result.Inserted, result.Book, result.Duration)
	return result, nil
}

// BookFromPath derives a book identifier from a source path: the file name
// without its final extension.
func BookFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
