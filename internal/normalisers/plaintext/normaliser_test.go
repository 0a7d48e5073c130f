package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestExtensions(t *testing.T) {
	exts := New().Extensions()
	assert.Contains(t, exts, ".txt")
	assert.Contains(t, exts, ".md")
}

func TestRead_Success(t *testing.T) {
	path := writeFile(t, "moby.txt", []byte("Call me Ishmael.\nSome years ago"))

	doc, err := New().Read(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "Call me Ishmael.\nSome years ago", doc.Content)
	assert.Empty(t, doc.Book)
	assert.False(t, doc.ReadAt.IsZero())
}

func TestRead_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	doc, err := New().Read(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
	assert.Nil(t, doc)
}

func TestRead_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)

	_, err := New().Read(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrSourceEmpty)
}

func TestRead_WhitespaceIsNotEmpty(t *testing.T) {
	path := writeFile(t, "blank.txt", []byte(" \n\t \n"))

	doc, err := New().Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, " \n\t \n", doc.Content)
}

func TestRead_DropsInvalidUTF8(t *testing.T) {
	path := writeFile(t, "mixed.txt", []byte("caf\xc3\xa9 \xff\xfebad bytes"))

	doc, err := New().Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "café bad bytes", doc.Content)
}

func TestRead_OnlyInvalidUTF8IsEmpty(t *testing.T) {
	path := writeFile(t, "garbage.txt", []byte{0xff, 0xfe, 0xfd})

	_, err := New().Read(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrSourceEmpty)
}

func TestRead_Directory(t *testing.T) {
	_, err := New().Read(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.FormatReader = New()
}
