package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/tasha-health/ragindex/internal/adapters/driven/config/file"
	"github.com/tasha-health/ragindex/internal/adapters/driven/storage/memory"
	"github.com/tasha-health/ragindex/internal/adapters/driven/storage/sqlite"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/core/ports/driving"
	"github.com/tasha-health/ragindex/internal/core/services"
	"github.com/tasha-health/ragindex/internal/logger"
	"github.com/tasha-health/ragindex/internal/normalisers"
)

// testEnv records what the commands asked of their adapters.
type testEnv struct {
	store   *memory.ChunkStore
	opened  []string
	openErr error
	env     map[string]string
	dir     string
}

// setupTestDeps wires the commands to an in-memory store, the real services
// and readers, and a config file under a temp dir.
func setupTestDeps(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		store: memory.NewChunkStore(),
		env:   map[string]string{},
		dir:   t.TempDir(),
	}

	SetDependencies(Dependencies{
		OpenStore: func(path string) (driven.ChunkStore, error) {
			te.opened = append(te.opened, path)
			if te.openErr != nil {
				return nil, te.openErr
			}
			return te.store, nil
		},
		NewIndexer: func(store driven.ChunkStore) driving.IndexService {
			return services.NewIndexService(normalisers.Default(), store)
		},
		NewStats: func(store driven.ChunkStore) driving.StatsService {
			return services.NewStatsService(store)
		},
		OpenConfig: func(path string) (driven.ConfigStore, error) {
			if path == "" {
				return file.NewConfigStore(filepath.Join(te.dir, "home"))
			}
			return file.OpenConfigFile(path)
		},
	})

	lookupEnv = func(key string) (string, bool) {
		v, ok := te.env[key]
		return v, ok
	}

	resetCommandState()
	t.Cleanup(func() {
		SetDependencies(Dependencies{})
		lookupEnv = os.LookupEnv
		resetCommandState()
		logger.Reset()
	})
	return te
}

// useSQLite swaps the in-memory store for real databases.
func useSQLite(t *testing.T) {
	t.Helper()
	d := deps
	d.OpenStore = func(path string) (driven.ChunkStore, error) {
		return sqlite.NewStore(path)
	}
	SetDependencies(d)
}

var errOpen = errors.New("unable to open database file")

// resetCommandState restores every flag to its default, since the command
// tree is package state shared by all tests.
func resetCommandState() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	rootCmd.SetArgs(nil)
}

// execute runs the command tree with args and returns the exit code and
// captured output.
func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	code = Execute()
	return code, out.String(), errOut.String()
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
