package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tasha-health/ragindex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.ChunkStore         = (*Store)(nil)
	_ driven.EmbeddingSlotStore = (*Store)(nil)
)

const insertChunkSQL = `
	INSERT INTO chunks (book, start_page, end_page, text)
	VALUES (?, ?, ?, ?)
`

// Store is a SQLite-backed chunk store bound to a single database file.
type Store struct {
	db   *sql.DB
	path string
	fsys fs.FS
}

// NewStore opens (creating if absent) the database file at path.
// If path is empty, defaults to rag_vectors.db in the working directory.
// The schema is not touched until EnsureSchema is called.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = domain.DefaultDBPath
	}

	// Ensure parent directory exists
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer owns the file for the whole run.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Store{
		db:   db,
		path: path,
		fsys: migrations.FS,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema applies any pending migrations. It is idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.migrate(ctx, s.fsys); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the last applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// migrate runs all pending up migrations, each in its own transaction.
func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_chunks.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(ctx, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		currentVersion = version
	}

	return nil
}

func (s *Store) applyMigration(ctx context.Context, version int, script string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}

	return tx.Commit()
}

// ==================== Chunk Writes ====================

// chunkBatch implements driven.ChunkBatch over a prepared statement.
type chunkBatch struct {
	stmt *sql.Stmt
}

// Insert adds one chunk row and records its identity on the chunk.
func (b *chunkBatch) Insert(ctx context.Context, chunk *domain.Chunk) error {
	res, err := b.stmt.ExecContext(ctx, chunk.Book, chunk.StartPos, chunk.EndPos, chunk.Text)
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading chunk id: %w", err)
	}
	chunk.ID = id
	return nil
}

// WithBatch runs fn in a transaction with a prepared insert statement.
// Commit happens only when fn succeeds; the statement and transaction are
// released on every path.
func (s *Store) WithBatch(ctx context.Context, fn func(batch driven.ChunkBatch) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, insertChunkSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	if err := fn(&chunkBatch{stmt: stmt}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Chunk Reads ====================

// CountChunks returns the number of chunk rows for a book, or all rows
// when book is empty.
func (s *Store) CountChunks(ctx context.Context, book string) (int, error) {
	query := "SELECT COUNT(*) FROM chunks"
	var args []any
	if book != "" {
		query += " WHERE book = ?"
		args = append(args, book)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// ListChunks returns every chunk of a book ordered by identity.
func (s *Store) ListChunks(ctx context.Context, book string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, book, start_page, end_page, text
		FROM chunks WHERE book = ?
		ORDER BY id
	`, book)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// ListBooks returns chunk and embedding counts grouped by book.
func (s *Store) ListBooks(ctx context.Context) ([]domain.BookStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.book, COUNT(*),
			SUM(CASE WHEN length(e.embedding) > 0 THEN 1 ELSE 0 END)
		FROM chunks c
		LEFT JOIN embeddings e ON e.chunk_id = c.id
		GROUP BY c.book
		ORDER BY c.book
	`)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var books []domain.BookStats //nolint:prealloc // size unknown from query
	for rows.Next() {
		var book sql.NullString
		var stats domain.BookStats
		if err := rows.Scan(&book, &stats.Chunks, &stats.Embedded); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		stats.Book = book.String
		books = append(books, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
}

// ==================== Embedding Slots ====================

// PutEmbedding writes or replaces the vector stored for a chunk.
// An empty vector clears the payload but keeps the slot.
func (s *Store) PutEmbedding(ctx context.Context, chunkID int64, vec []float32) error {
	if err := s.chunkExists(ctx, chunkID); err != nil {
		return err
	}

	// Bind SQL NULL rather than a zero-length blob for an empty vector.
	var blob any
	if b := float32SliceToBytes(vec); b != nil {
		blob = b
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings (chunk_id, embedding)
		VALUES (?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			embedding = excluded.embedding
	`, chunkID, blob)
	if err != nil {
		return fmt.Errorf("saving embedding: %w", err)
	}
	return nil
}

// GetEmbedding returns the slot for a chunk. Absent rows and NULL payloads
// both produce a slot with a nil Embedding.
func (s *Store) GetEmbedding(ctx context.Context, chunkID int64) (*domain.EmbeddingSlot, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT e.embedding
		FROM chunks c
		LEFT JOIN embeddings e ON e.chunk_id = c.id
		WHERE c.id = ?
	`, chunkID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning embedding: %w", err)
	}

	vec, err := bytesToFloat32Slice(blob)
	if err != nil {
		return nil, err
	}

	return &domain.EmbeddingSlot{ChunkID: chunkID, Embedding: vec}, nil
}

// PendingChunks returns chunks of a book that have no stored vector.
func (s *Store) PendingChunks(ctx context.Context, book string, limit int) ([]domain.Chunk, error) {
	query := `
		SELECT c.id, c.book, c.start_page, c.end_page, c.text
		FROM chunks c
		LEFT JOIN embeddings e ON e.chunk_id = c.id
		WHERE c.book = ? AND (e.embedding IS NULL OR length(e.embedding) = 0)
		ORDER BY c.id
	`
	args := []any{book}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pending chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

func (s *Store) chunkExists(ctx context.Context, chunkID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM chunks WHERE id = ?", chunkID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking chunk: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored blob back to []float32.
func bytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d (not multiple of 4)", len(data))
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}

// scanChunks scans chunk rows. NULL columns written by other tools scan
// as zero values.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var book, text sql.NullString
		var start, end sql.NullInt64
		if err := rows.Scan(&chunk.ID, &book, &start, &end, &text); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Book = book.String
		chunk.StartPos = int(start.Int64)
		chunk.EndPos = int(end.Int64)
		chunk.Text = text.String
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}
