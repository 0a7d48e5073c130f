package driven

import (
	"context"

	"github.com/tasha-health/ragindex/internal/core/domain"
)

// ChunkStore persists chunks and their embedding slots.
// Backed by SQLite for real runs and by memory for dry runs.
type ChunkStore interface {
	// EnsureSchema creates the chunks and embeddings tables if absent.
	// Calling it on an initialised store is a no-op.
	EnsureSchema(ctx context.Context) error

	// WithBatch runs fn inside one write transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise; the
	// underlying resources are released on every path.
	WithBatch(ctx context.Context, fn func(batch ChunkBatch) error) error

	// CountChunks returns the number of chunk rows for a book.
	// An empty book counts every row.
	CountChunks(ctx context.Context, book string) (int, error)

	// ListBooks returns per-book statistics ordered by book.
	ListBooks(ctx context.Context) ([]domain.BookStats, error)

	// Close releases the store handle.
	Close() error
}

// ChunkBatch inserts rows inside a ChunkStore transaction.
type ChunkBatch interface {
	// Insert adds a chunk row and sets chunk.ID to the assigned identity.
	Insert(ctx context.Context, chunk *domain.Chunk) error
}

// EmbeddingSlotStore is the read/write contract the external embedding
// collaborator uses against the store. The indexer never calls it.
type EmbeddingSlotStore interface {
	// PutEmbedding writes or replaces the vector for a chunk.
	// Returns domain.ErrNotFound when the chunk does not exist.
	PutEmbedding(ctx context.Context, chunkID int64, vec []float32) error

	// GetEmbedding returns the slot for a chunk. A slot without a row or
	// with a NULL payload is returned with a nil Embedding.
	GetEmbedding(ctx context.Context, chunkID int64) (*domain.EmbeddingSlot, error)

	// PendingChunks returns up to limit chunks of a book that have no vector,
	// ordered by identity. A limit <= 0 means no limit.
	PendingChunks(ctx context.Context, book string, limit int) ([]domain.Chunk, error)
}
