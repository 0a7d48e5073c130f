package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.FormatReader = (*Normaliser)(nil)

// Normaliser extracts the text layer of PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".pdf"}
}

// Read extracts the plain text of every page in order. Scanned PDFs with no
// text layer yield domain.ErrSourceEmpty.
func (n *Normaliser) Read(_ context.Context, path string) (*domain.Document, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	content, err := extractText(path)
	if err != nil {
		return nil, fmt.Errorf("extracting pdf text from %s: %w", path, err)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceEmpty, path)
	}

	return &domain.Document{
		Path:    path,
		Content: content,
		ReadAt:  time.Now(),
	}, nil
}

// extractText converts parser panics on malformed input into errors.
func extractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
