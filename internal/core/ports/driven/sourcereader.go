package driven

import (
	"context"

	"github.com/tasha-health/ragindex/internal/core/domain"
)

// SourceReader loads a source document fully into memory.
type SourceReader interface {
	// Read returns the decoded document at path. Book is left empty for
	// the caller to fill in.
	// Returns domain.ErrSourceNotFound when path does not exist and
	// domain.ErrSourceEmpty when it has no content.
	Read(ctx context.Context, path string) (*domain.Document, error)
}

// FormatReader is a SourceReader bound to specific file extensions.
type FormatReader interface {
	SourceReader

	// Extensions returns the lower-case file extensions handled, with dot.
	Extensions() []string
}
