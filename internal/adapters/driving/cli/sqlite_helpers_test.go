package cli

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tasha-health/ragindex/internal/logger"
)

// installFailingTrigger makes every insert of text abort.
// Triggers cannot bind parameters, so text is inlined as a quoted literal.
func installFailingTrigger(t *testing.T, dbPath, text string) {
	t.Helper()

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf(`CREATE TRIGGER fail_insert BEFORE INSERT ON chunks
		WHEN NEW.text = '%s' BEGIN SELECT RAISE(ABORT, 'injected failure'); END`,
		strings.ReplaceAll(text, "'", "''")))
	require.NoError(t, err)
}

func setLoggerOutput(t *testing.T, w io.Writer) {
	t.Helper()
	logger.SetOutput(w)
	t.Cleanup(logger.Reset)
}
