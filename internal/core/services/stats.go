package services

import (
	"context"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService reports what a chunk store holds.
type StatsService struct {
	store driven.ChunkStore
}

// NewStatsService creates a new stats service.
func NewStatsService(store driven.ChunkStore) *StatsService {
	return &StatsService{store: store}
}

// Books returns per-book statistics.
func (s *StatsService) Books(ctx context.Context) ([]domain.BookStats, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.ListBooks(ctx)
}

// Totals returns the statistics summed over all books.
func (s *StatsService) Totals(ctx context.Context) (domain.BookStats, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return domain.BookStats{}, err
	}

	var total domain.BookStats
	for _, b := range books {
		total.Chunks += b.Chunks
		total.Embedded += b.Embedded
	}
	return total, nil
}
