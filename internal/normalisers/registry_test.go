package normalisers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/normalisers/pdf"
	"github.com/tasha-health/ragindex/internal/normalisers/plaintext"
)

func TestDefault_Extensions(t *testing.T) {
	assert.Equal(t, []string{".md", ".pdf", ".text", ".txt"}, Default().Extensions())
}

func TestRegistry_ReaderFor(t *testing.T) {
	r := Default()

	tests := []struct {
		path string
		want any
	}{
		{"book.txt", &plaintext.Normaliser{}},
		{"BOOK.TXT", &plaintext.Normaliser{}},
		{"scan.pdf", &pdf.Normaliser{}},
		{"Report.PDF", &pdf.Normaliser{}},
		{"notes.rst", &plaintext.Normaliser{}},
		{"no-extension", &plaintext.Normaliser{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			reader, err := r.ReaderFor(tt.path)
			require.NoError(t, err)
			assert.IsType(t, tt.want, reader)
		})
	}
}

func TestRegistry_NoFallback(t *testing.T) {
	r := NewRegistry()
	r.Register(pdf.New())

	_, err := r.ReaderFor("book.epub")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)

	_, err = r.Read(context.Background(), "book.epub")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestRegistry_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letters.txt")
	require.NoError(t, os.WriteFile(path, []byte("a b c d e f g"), 0o600))

	doc, err := Default().Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "a b c d e f g", doc.Content)
}

func TestRegistry_ReadMissing(t *testing.T) {
	_, err := Default().Read(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}
