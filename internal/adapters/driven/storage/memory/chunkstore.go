// Package memory provides in-memory implementations of driven port interfaces.
// They back dry runs and tests; nothing is persisted.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Batches are staged and only become visible when they commit.
type ChunkStore struct {
	mu        sync.RWMutex
	schema    bool
	nextID    int64
	chunks    []domain.Chunk
	commits   int
	rollbacks int
	closed    bool
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{nextID: 1}
}

// EnsureSchema marks the schema as present.
func (s *ChunkStore) EnsureSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = true
	return nil
}

// HasSchema reports whether EnsureSchema has been called.
func (s *ChunkStore) HasSchema() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema
}

// batch stages inserts until the surrounding WithBatch commits.
type batch struct {
	nextID int64
	staged []domain.Chunk
}

func (b *batch) Insert(_ context.Context, chunk *domain.Chunk) error {
	chunk.ID = b.nextID
	b.nextID++
	b.staged = append(b.staged, *chunk)
	return nil
}

// WithBatch runs fn and publishes its inserts only if fn succeeds.
func (s *ChunkStore) WithBatch(_ context.Context, fn func(batch driven.ChunkBatch) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := &batch{nextID: s.nextID}
	if err := fn(b); err != nil {
		s.rollbacks++
		return err
	}

	s.chunks = append(s.chunks, b.staged...)
	s.nextID = b.nextID
	s.commits++
	return nil
}

// CountChunks returns the committed rows for book, or all rows when empty.
func (s *ChunkStore) CountChunks(_ context.Context, book string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if book == "" {
		return len(s.chunks), nil
	}
	count := 0
	for i := range s.chunks {
		if s.chunks[i].Book == book {
			count++
		}
	}
	return count, nil
}

// ListBooks returns chunk counts grouped by book. Nothing is ever embedded.
func (s *ChunkStore) ListBooks(_ context.Context) ([]domain.BookStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for i := range s.chunks {
		counts[s.chunks[i].Book]++
	}

	books := make([]domain.BookStats, 0, len(counts))
	for book, n := range counts {
		books = append(books, domain.BookStats{Book: book, Chunks: n})
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Book < books[j].Book })
	return books, nil
}

// Chunks returns a copy of the committed chunks in insertion order.
func (s *ChunkStore) Chunks() []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Commits returns how many batches committed.
func (s *ChunkStore) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Rollbacks returns how many batches were discarded.
func (s *ChunkStore) Rollbacks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rollbacks
}

// Close marks the store closed.
func (s *ChunkStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *ChunkStore) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
