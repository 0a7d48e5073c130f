package driving

import (
	"context"

	"github.com/tasha-health/ragindex/internal/core/domain"
)

// IndexService segments a source document and loads it into a chunk store.
type IndexService interface {
	// Index runs one indexing pass. Progress, when non-nil, is called after
	// every committed batch.
	//
	// Errors wrap domain.ErrInvalidArgument, domain.ErrSourceNotFound or
	// domain.ErrSourceEmpty, or are a *domain.StoreWriteError.
	Index(ctx context.Context, req domain.IndexRequest, progress domain.ProgressFunc) (*domain.IndexResult, error)
}

// StatsService reports on what a chunk store holds.
type StatsService interface {
	// Books returns per-book chunk and embedding counts.
	Books(ctx context.Context) ([]domain.BookStats, error)

	// Totals sums the per-book statistics.
	Totals(ctx context.Context) (domain.BookStats, error)
}
