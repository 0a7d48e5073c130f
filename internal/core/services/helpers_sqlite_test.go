package services

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// injectFailure installs a trigger that aborts any insert of text.
// Triggers cannot bind parameters, so text is inlined as a quoted literal.
func injectFailure(t *testing.T, dbPath, text string) {
	t.Helper()

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TRIGGER fail_insert BEFORE INSERT ON chunks
		WHEN NEW.text = '%s'
		BEGIN
			SELECT RAISE(ABORT, 'injected failure');
		END
	`, strings.ReplaceAll(text, "'", "''")))
	require.NoError(t, err)
}
