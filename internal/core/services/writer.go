package services

import (
	"context"
	"fmt"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/logger"
)

// ChunkWriter loads segments into a ChunkStore in bounded batches.
//
// Each batch is committed before the next begins, so a failure leaves every
// earlier batch durably stored. The load as a whole is not atomic; callers
// that need all-or-nothing semantics must write to an empty store and
// discard it on failure.
type ChunkWriter struct {
	store driven.ChunkStore
}

// NewChunkWriter creates a writer over store.
func NewChunkWriter(store driven.ChunkStore) *ChunkWriter {
	return &ChunkWriter{store: store}
}

// EnsureSchema creates the store schema if needed.
// Failures are reported as *domain.StoreWriteError with nothing committed.
func (w *ChunkWriter) EnsureSchema(ctx context.Context) error {
	if err := w.store.EnsureSchema(ctx); err != nil {
		return domain.NewStoreWriteError(0, fmt.Errorf("ensuring schema: %w", err))
	}
	return nil
}

// InsertChunks writes one row per segment under book and returns the number
// of rows committed.
//
// Stored positions are the 1-based index of the segment within this call,
// not the segment's word offsets. On failure the returned error is a
// *domain.StoreWriteError whose Committed field equals the returned count.
func (w *ChunkWriter) InsertChunks(
	ctx context.Context,
	book string,
	segments []domain.Segment,
	progress domain.ProgressFunc,
) (int, error) {
	total := len(segments)
	if total == 0 {
		return 0, nil
	}

	size := domain.BatchSize(total)
	logger.Debug("Inserting %d chunks in batches of %d", total, size)

	committed := 0
	for start := 0; start < total; start += size {
		end := min(start+size, total)

		err := w.store.WithBatch(ctx, func(batch driven.ChunkBatch) error {
			for i := start; i < end; i++ {
				chunk := domain.Chunk{
					Book:     book,
					StartPos: i + 1,
					EndPos:   i + 1,
					Text:     segments[i].Text,
				}
				if err := batch.Insert(ctx, &chunk); err != nil {
					return fmt.Errorf("chunk %d: %w", i+1, err)
				}
			}
			return nil
		})
		if err != nil {
			logger.Error("Batch %d-%d failed after %d committed rows: %v", start+1, end, committed, err)
			return committed, domain.NewStoreWriteError(committed, err)
		}

		committed = end
		p := domain.ProgressAt(committed, total)
		logger.Debug("Committed batch %d/%d (%d/%d rows, %d%%)", p.Batch, p.Batches, p.Done, p.Total, p.Percent())
		if progress != nil {
			progress(p)
		}
	}

	return committed, nil
}
