// Command ragindex splits a text document into word-count chunks and appends
// them to a SQLite database for retrieval-augmented generation.
package main

import (
	"os"

	"github.com/tasha-health/ragindex/internal/adapters/driven/config/file"
	"github.com/tasha-health/ragindex/internal/adapters/driven/storage/sqlite"
	"github.com/tasha-health/ragindex/internal/adapters/driving/cli"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/core/ports/driving"
	"github.com/tasha-health/ragindex/internal/core/services"
	"github.com/tasha-health/ragindex/internal/normalisers"
)

func main() {
	readers := normalisers.Default()

	cli.SetDependencies(cli.Dependencies{
		OpenStore: func(path string) (driven.ChunkStore, error) {
			return sqlite.NewStore(path)
		},
		NewIndexer: func(store driven.ChunkStore) driving.IndexService {
			return services.NewIndexService(readers, store)
		},
		NewStats: func(store driven.ChunkStore) driving.StatsService {
			return services.NewStatsService(store)
		},
		OpenConfig: func(path string) (driven.ConfigStore, error) {
			if path == "" {
				return file.NewConfigStore("")
			}
			return file.OpenConfigFile(path)
		},
	})

	os.Exit(cli.Execute())
}
