package cli

import (
	"context"
	"fmt"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

// Ensure lazyStore implements the interface.
var _ driven.ChunkStore = (*lazyStore)(nil)

// lazyStore opens the destination on first use. The index service reads and
// segments the source before touching the store, so a missing or empty
// source never creates a database file or its directories.
type lazyStore struct {
	path  string
	open  func(path string) (driven.ChunkStore, error)
	store driven.ChunkStore
}

func newLazyStore(path string, open func(path string) (driven.ChunkStore, error)) *lazyStore {
	return &lazyStore{path: path, open: open}
}

func (s *lazyStore) get() (driven.ChunkStore, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, err := s.open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", s.path, err)
	}
	s.store = store
	return store, nil
}

func (s *lazyStore) EnsureSchema(ctx context.Context) error {
	store, err := s.get()
	if err != nil {
		return err
	}
	return store.EnsureSchema(ctx)
}

func (s *lazyStore) WithBatch(ctx context.Context, fn func(batch driven.ChunkBatch) error) error {
	store, err := s.get()
	if err != nil {
		return err
	}
	return store.WithBatch(ctx, fn)
}

func (s *lazyStore) CountChunks(ctx context.Context, book string) (int, error) {
	store, err := s.get()
	if err != nil {
		return 0, err
	}
	return store.CountChunks(ctx, book)
}

func (s *lazyStore) ListBooks(ctx context.Context) ([]domain.BookStats, error) {
	store, err := s.get()
	if err != nil {
		return nil, err
	}
	return store.ListBooks(ctx)
}

// Close closes the underlying store if it was opened.
func (s *lazyStore) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
