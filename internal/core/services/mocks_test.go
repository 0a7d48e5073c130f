package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tasha-health/ragindex/internal/adapters/driven/storage/memory"
	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

var errDiskFull = errors.New("database or disk is full")

// mockReader implements driven.SourceReader over an in-memory file table.
type mockReader struct {
	files map[string]string
	reads int
}

func newMockReader(files map[string]string) *mockReader {
	return &mockReader{files: files}
}

func (m *mockReader) Read(_ context.Context, path string) (*domain.Document, error) {
	m.reads++
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceEmpty, path)
	}
	return &domain.Document{Path: path, Content: content}, nil
}

// failingStore wraps the memory store and breaks the Nth batch after its
// first insert, so the batch has staged work that must be discarded.
type failingStore struct {
	*memory.ChunkStore
	failOn    int
	schemaErr error
	batches   int
}

var _ driven.ChunkStore = (*failingStore)(nil)

func newFailingStore(failOn int) *failingStore {
	return &failingStore{ChunkStore: memory.NewChunkStore(), failOn: failOn}
}

func (f *failingStore) EnsureSchema(ctx context.Context) error {
	if f.schemaErr != nil {
		return f.schemaErr
	}
	return f.ChunkStore.EnsureSchema(ctx)
}

func (f *failingStore) WithBatch(ctx context.Context, fn func(driven.ChunkBatch) error) error {
	f.batches++
	if f.batches != f.failOn {
		return f.ChunkStore.WithBatch(ctx, fn)
	}
	return f.ChunkStore.WithBatch(ctx, func(b driven.ChunkBatch) error {
		return fn(&failingBatch{inner: b, remaining: 1})
	})
}

// failingBatch accepts a fixed number of inserts then fails.
type failingBatch struct {
	inner     driven.ChunkBatch
	remaining int
}

func (b *failingBatch) Insert(ctx context.Context, chunk *domain.Chunk) error {
	if b.remaining == 0 {
		return errDiskFull
	}
	b.remaining--
	return b.inner.Insert(ctx, chunk)
}

// words returns n distinct words separated by single spaces.
func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func segmentsOf(texts ...string) []domain.Segment {
	segs := make([]domain.Segment, len(texts))
	for i, t := range texts {
		segs[i] = domain.Segment{Start: i, End: i + 1, Text: t}
	}
	return segs
}
