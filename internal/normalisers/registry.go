package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/normalisers/pdf"
	"github.com/tasha-health/ragindex/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.SourceReader = (*Registry)(nil)

// Registry dispatches Read calls to a FormatReader by file extension.
type Registry struct {
	readers  map[string]driven.FormatReader
	fallback driven.SourceReader
}

// NewRegistry creates an empty registry with no fallback.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]driven.FormatReader)}
}

// Default returns a registry with the built-in readers. Unknown extensions
// are read as plain text, matching how the indexer treats any text file.
func Default() *Registry {
	text := plaintext.New()
	r := NewRegistry()
	r.Register(text)
	r.Register(pdf.New())
	r.SetFallback(text)
	return r
}

// Register binds reader to each of its extensions. Later registrations win.
func (r *Registry) Register(reader driven.FormatReader) {
	for _, ext := range reader.Extensions() {
		r.readers[strings.ToLower(ext)] = reader
	}
}

// SetFallback sets the reader used when no extension matches.
func (r *Registry) SetFallback(reader driven.SourceReader) {
	r.fallback = reader
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ReaderFor returns the reader for path, or ErrUnsupportedSource.
func (r *Registry) ReaderFor(path string) (driven.SourceReader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if reader, ok := r.readers[ext]; ok {
		return reader, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, ext)
}

// Read implements driven.SourceReader.
func (r *Registry) Read(ctx context.Context, path string) (*domain.Document, error) {
	reader, err := r.ReaderFor(path)
	if err != nil {
		return nil, err
	}
	return reader.Read(ctx, path)
}
