package plaintext

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.FormatReader = (*Normaliser)(nil)

// Normaliser reads plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".md"}
}

// Read loads the whole file. Invalid UTF-8 sequences are dropped rather than
// failing the run. A zero-length file is domain.ErrSourceEmpty; a file of
// only whitespace is returned as is.
func (n *Normaliser) Read(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	content := strings.ToValidUTF8(string(data), "")
	if content == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceEmpty, path)
	}

	return &domain.Document{
		Path:    path,
		Content: content,
		ReadAt:  time.Now(),
	}, nil
}
