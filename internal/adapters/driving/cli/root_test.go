package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasha-health/ragindex/internal/adapters/driven/storage/sqlite"
	"github.com/tasha-health/ragindex/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ragindex", rootCmd.Use)
}

func TestRootCmd_FlagDefaults(t *testing.T) {
	tests := []struct {
		name string
		def  string
	}{
		{"txt", ""},
		{"db", "rag_vectors.db"},
		{"book", ""},
		{"chunk-size", "800"},
		{"overlap", "0"},
		{"mode", "strict"},
		{"dry-run", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := rootCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "flag %s should exist", tt.name)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "quiet"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
	assert.Equal(t, "q", rootCmd.PersistentFlags().Lookup("quiet").Shorthand)
}

func TestRootCmd_IndexesDocument(t *testing.T) {
	te := setupTestDeps(t)
	src := writeSource(t, "letters.txt", "a b c d e f g")

	code, stdout, stderr := execute(t, "--txt", src, "--chunk-size", "3")

	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "Read 13 characters")
	assert.Contains(t, stdout, "Text has 7 words, created 3 chunks of up to 3 words")
	assert.Contains(t, stdout, `Inserted 3 chunks into rag_vectors.db for book "letters"`)
	assert.Equal(t, []string{"rag_vectors.db"}, te.opened)
	assert.True(t, te.store.Closed())

	chunks := te.store.Chunks()
	require.Len(t, chunks, 3)
	for i, want := range []string{"a b c", "d e f", "g"} {
		assert.Equal(t, want, chunks[i].Text)
		assert.Equal(t, "letters", chunks[i].Book)
		assert.Equal(t, i+1, chunks[i].StartPos)
		assert.Equal(t, i+1, chunks[i].EndPos)
	}
}

func TestRootCmd_BookAndDBFlags(t *testing.T) {
	te := setupTestDeps(t)
	src := writeSource(t, "moby.txt", "Call me Ishmael")

	code, stdout, _ := execute(t, "--txt", src, "--db", "out/books.db", "--book", "moby-dick")

	require.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"out/books.db"}, te.opened)
	assert.Contains(t, stdout, `for book "moby-dick"`)
	assert.Equal(t, "moby-dick", te.store.Chunks()[0].Book)
}

func TestRootCmd_ProgressLines(t *testing.T) {
	setupTestDeps(t)
	src := writeSource(t, "w.txt", strings.Repeat("word ", 25))

	code, _, stderr := execute(t, "--txt", src, "--chunk-size", "1")

	require.Equal(t, ExitOK, code)
	assert.Contains(t, stderr, "Committed batch 1/13: 2/25 chunks (8%)")
	assert.Contains(t, stderr, "Committed batch 13/13: 25/25 chunks (100%)")
}

func TestRootCmd_QuietSuppressesProgress(t *testing.T) {
	setupTestDeps(t)
	src := writeSource(t, "w.txt", strings.Repeat("word ", 25))

	code, _, stderr := execute(t, "--txt", src, "--chunk-size", "1", "-q")

	require.Equal(t, ExitOK, code)
	assert.NotContains(t, stderr, "Committed batch")
}

func TestRootCmd_ExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		openErr error
		want    int
		errText string
	}{
		{
			name:    "missing txt flag",
			args:    func(*testing.T) []string { return []string{} },
			want:    ExitUsage,
			errText: `required flag(s) "txt" not set`,
		},
		{
			name: "chunk size zero",
			args: func(t *testing.T) []string {
				return []string{"--txt", writeSource(t, "a.txt", "a b"), "--chunk-size", "0"}
			},
			want:    ExitUsage,
			errText: "chunk size must be > 0",
		},
		{
			name: "unknown mode",
			args: func(t *testing.T) []string {
				return []string{"--txt", writeSource(t, "a.txt", "a b"), "--mode", "fuzzy"}
			},
			want:    ExitUsage,
			errText: "unknown chunk mode",
		},
		{
			name: "overlap not smaller than size",
			args: func(t *testing.T) []string {
				return []string{"--txt", writeSource(t, "a.txt", "a b"), "--mode", "overlap",
					"--chunk-size", "3", "--overlap", "3"}
			},
			want:    ExitUsage,
			errText: "must be smaller than chunk size",
		},
		{
			name: "source not found",
			args: func(t *testing.T) []string {
				return []string{"--txt", filepath.Join(t.TempDir(), "nope.txt")}
			},
			want:    ExitSourceNotFound,
			errText: "source not found",
		},
		{
			name: "source empty",
			args: func(t *testing.T) []string {
				return []string{"--txt", writeSource(t, "empty.txt", "")}
			},
			want:    ExitSourceEmpty,
			errText: "source is empty",
		},
		{
			name: "store cannot be opened",
			args: func(t *testing.T) []string {
				return []string{"--txt", writeSource(t, "a.txt", "a b")}
			},
			openErr: errOpen,
			want:    ExitStoreFailure,
			errText: "unable to open database file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := setupTestDeps(t)
			te.openErr = tt.openErr

			code, _, stderr := execute(t, tt.args(t)...)

			assert.Equal(t, tt.want, code)
			assert.Contains(t, stderr, tt.errText)
			assert.Empty(t, te.store.Chunks())
			if tt.want == ExitSourceNotFound || tt.want == ExitSourceEmpty {
				assert.Empty(t, te.opened)
			}
		})
	}
}

func TestRootCmd_InvalidSettingsNeverOpenStore(t *testing.T) {
	te := setupTestDeps(t)
	src := writeSource(t, "a.txt", "a b c")

	code, _, _ := execute(t, "--txt", src, "--chunk-size", "-5")

	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, te.opened)
}

func TestRootCmd_WhitespaceOnlySource(t *testing.T) {
	te := setupTestDeps(t)
	src := writeSource(t, "blank.txt", "  \n\t ")

	code, stdout, _ := execute(t, "--txt", src)

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Inserted 0 chunks")
	assert.True(t, te.store.HasSchema())
}

func TestRootCmd_DryRun(t *testing.T) {
	te := setupTestDeps(t)
	src := writeSource(t, "letters.txt", "a b c d e f g")

	code, stdout, _ := execute(t, "--txt", src, "--chunk-size", "3", "--dry-run")

	require.Equal(t, ExitOK, code)
	assert.Empty(t, te.opened)
	assert.Empty(t, te.store.Chunks())
	assert.Contains(t, stdout, "Dry run: 3 chunks would be inserted into rag_vectors.db")
}

func TestRootCmd_OverlapMode(t *testing.T) {
	te := setupTestDeps(t)
	src := writeSource(t, "letters.txt", "a b c d e f g")

	code, _, _ := execute(t, "--txt", src, "--mode", "overlap", "--chunk-size", "4", "--overlap", "2")

	require.Equal(t, ExitOK, code)
	var texts []string
	for _, c := range te.store.Chunks() {
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"a b c d", "c d e f", "e f g"}, texts)
}

func TestRootCmd_StrictModeWarnsAboutOverlap(t *testing.T) {
	te := setupTestDeps(t)
	src := writeSource(t, "letters.txt", "a b c d e f g")

	var logs strings.Builder
	setLoggerOutput(t, &logs)
	code, _, _ := execute(t, "--txt", src, "--chunk-size", "3", "--overlap", "1")

	require.Equal(t, ExitOK, code)
	assert.Len(t, te.store.Chunks(), 3)
	assert.Contains(t, logs.String(), "Overlap of 1 words ignored in strict mode")
}

func TestRootCmd_SQLiteEndToEnd(t *testing.T) {
	setupTestDeps(t)
	useSQLite(t)
	db := filepath.Join(t.TempDir(), "nested", "rag.db")
	src := writeSource(t, "letters.txt", "a b c d e f g")

	code, _, stderr := execute(t, "--txt", src, "--db", db, "--chunk-size", "3")
	require.Equal(t, ExitOK, code, stderr)

	// A second run appends rather than replacing.
	resetCommandState()
	code, _, _ = execute(t, "--txt", src, "--db", db, "--chunk-size", "3", "--book", "again")
	require.Equal(t, ExitOK, code)

	store, err := sqlite.NewStore(db)
	require.NoError(t, err)
	defer store.Close()

	books, err := store.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.BookStats{
		{Book: "again", Chunks: 3},
		{Book: "letters", Chunks: 3},
	}, books)

	chunks, err := store.ListChunks(context.Background(), "letters")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "g", chunks[2].Text)
	assert.Equal(t, 3, chunks[2].StartPos)
}

func TestExecute_ReportsCommittedRows(t *testing.T) {
	setupTestDeps(t)
	useSQLite(t)
	db := filepath.Join(t.TempDir(), "rag.db")

	// Create the schema, then break inserts of the fifth word.
	store, err := sqlite.NewStore(db)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.Close())
	installFailingTrigger(t, db, "w4")

	src := writeSource(t, "w.txt", "w0 w1 w2 w3 w4 w5 w6 w7 w8 w9")
	code, _, stderr := execute(t, "--txt", src, "--db", db, "--chunk-size", "1")

	assert.Equal(t, ExitStoreFailure, code)
	assert.Contains(t, stderr, "store write failed after 4 committed rows")
	assert.Contains(t, stderr, "4 chunks were committed before the failure")
}

func TestRootCmd_SourceErrorsLeaveNoDatabase(t *testing.T) {
	tests := []struct {
		name string
		src  func(t *testing.T) string
		want int
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.txt") }, ExitSourceNotFound},
		{"empty", func(t *testing.T) string { return writeSource(t, "empty.txt", "") }, ExitSourceEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDeps(t)
			useSQLite(t)
			dir := filepath.Join(t.TempDir(), "sub")
			db := filepath.Join(dir, "rag.db")

			code, _, _ := execute(t, "--txt", tt.src(t), "--db", db)

			assert.Equal(t, tt.want, code)
			assert.NoFileExists(t, db)
			assert.NoDirExists(t, dir)
		})
	}
}
