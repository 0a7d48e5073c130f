package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tasha-health/ragindex/internal/adapters/driven/storage/memory"
	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/core/ports/driving"
	"github.com/tasha-health/ragindex/internal/logger"
)

// Dependencies wires the command tree to its adapters.
type Dependencies struct {
	// OpenStore opens or creates the chunk store at path.
	OpenStore func(path string) (driven.ChunkStore, error)

	// NewIndexer builds an index service writing to store.
	NewIndexer func(store driven.ChunkStore) driving.IndexService

	// NewStats builds a stats service reading from store.
	NewStats func(store driven.ChunkStore) driving.StatsService

	// OpenConfig opens the settings file at path; an empty path selects the
	// default location.
	OpenConfig func(path string) (driven.ConfigStore, error)
}

var deps Dependencies

// SetDependencies sets the adapters used by all commands.
func SetDependencies(d Dependencies) {
	deps = d
}

var (
	txtPath    string
	dbPath     string
	bookName   string
	chunkSize  int
	overlap    int
	modeName   string
	dryRun     bool
	configPath string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "ragindex",
	Short: "Chunk a text document into a SQLite store for retrieval",
	Long: `ragindex reads a text document, splits it into word-count chunks and
appends them to a SQLite database consulted by a RAG service.

Chunks are committed in batches of roughly a tenth of the document, so a
failure part way through leaves the earlier batches in place.

Settings are taken from flags, then RAGINDEX_* environment variables
(a .env file in the working directory is loaded), then the config file.`,
	Example: `  ragindex --txt moby-dick.txt
  ragindex --txt manual.pdf --db data/rag.db --book manual --chunk-size 400
  ragindex --txt notes.txt --mode overlap --overlap 50 --dry-run`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	RunE:              runIndex,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&txtPath, "txt", "", "source document to index (.txt, .md, .pdf)")
	flags.StringVar(&dbPath, "db", domain.DefaultDBPath, "SQLite database to append chunks to")
	flags.StringVar(&bookName, "book", "", "book id stored on every chunk (default: source filename stem)")
	flags.IntVar(&chunkSize, "chunk-size", domain.DefaultChunkSize, "words per chunk")
	flags.IntVar(&overlap, "overlap", domain.DefaultOverlap, "words shared by consecutive chunks (overlap mode only)")
	flags.StringVar(&modeName, "mode", string(domain.ChunkModeStrict), "segmentation mode: strict or overlap")
	flags.BoolVar(&dryRun, "dry-run", false, "segment and count without touching the database")
	_ = rootCmd.MarkFlagRequired("txt")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&configPath, "config", "", "settings file (default ~/.ragindex/config.toml)")
	persistent.BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	persistent.BoolVarP(&quiet, "quiet", "q", false, "suppress progress and warnings")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln(errorStyle.Render("Error: " + err.Error()))
		var swe *domain.StoreWriteError
		if errors.As(err, &swe) && swe.Committed > 0 {
			rootCmd.PrintErrln(mutedStyle.Render(
				fmt.Sprintf("%d chunks were committed before the failure and remain in the store.", swe.Committed)))
		}
		return ExitCode(err)
	}
	return ExitOK
}

func setupRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)

	// A missing .env file is normal.
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env loaded: %v", err)
	}
	return nil
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if deps.NewIndexer == nil {
		return errors.New("index service not configured")
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	store, err := openRunStore(settings)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Closing store: %v", cerr)
		}
	}()

	req := domain.IndexRequest{
		SourcePath: txtPath,
		Book:       settings.Book,
		Chunking:   settings.Chunking,
	}

	progress := newProgressReporter(cmd.ErrOrStderr(), quiet)
	result, err := deps.NewIndexer(store).Index(context.Background(), req, progress.Update)
	progress.Finish()
	if err != nil {
		return err
	}

	printIndexReport(cmd, result, settings)
	return nil
}

// openRunStore returns the destination store, or an in-memory one for dry
// runs. The database is opened only when the index service first needs it.
func openRunStore(settings runSettings) (driven.ChunkStore, error) {
	if settings.DryRun {
		logger.Debug("Dry run: using in-memory store")
		return memory.NewChunkStore(), nil
	}
	if deps.OpenStore == nil {
		return nil, errors.New("store not configured")
	}
	return newLazyStore(settings.DBPath, deps.OpenStore), nil
}

func printIndexReport(cmd *cobra.Command, result *domain.IndexResult, settings runSettings) {
	cmd.Println(titleStyle.Render("Indexed " + result.Book))
	cmd.Printf("  Read %d characters\n", result.Characters)
	cmd.Printf("  Text has %d words, created %d chunks of up to %d words (%s)\n",
		result.Words, result.Segments, settings.Chunking.Size, settings.Chunking.Mode)

	if settings.DryRun {
		cmd.Println(mutedStyle.Render(fmt.Sprintf("  Dry run: %d chunks would be inserted into %s",
			result.Inserted, settings.DBPath)))
		return
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("  Inserted %d chunks into %s for book %q",
		result.Inserted, settings.DBPath, result.Book)))
	logger.Info("Run %s took %s", result.RunID, result.Duration)
}
