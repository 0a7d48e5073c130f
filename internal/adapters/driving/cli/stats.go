package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/logger"
)

var (
	statsDB   string
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chunk counts per book",
	Long: `Lists every book in the database with its chunk count and how many
chunks already have an embedding attached.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsDB, "db", domain.DefaultDBPath, "SQLite database to inspect")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if deps.OpenStore == nil || deps.NewStats == nil {
		return errors.New("stats service not configured")
	}

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	path := resolveString(cmd.Flags().Changed("db"), statsDB, EnvDBPath, cfg, driven.ConfigKeyDBPath)

	// Opening would create an empty database.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: database %s", domain.ErrSourceNotFound, path)
	}

	store, err := deps.OpenStore(path)
	if err != nil {
		return fmt.Errorf("opening store %s: %w", path, err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Closing store: %v", cerr)
		}
	}()

	books, err := deps.NewStats(store).Books(context.Background())
	if err != nil {
		return fmt.Errorf("listing books: %w", err)
	}

	if statsJSON {
		return outputStatsJSON(cmd, books)
	}
	outputStatsTable(cmd, path, books)
	return nil
}

func outputStatsJSON(cmd *cobra.Command, books []domain.BookStats) error {
	if books == nil {
		books = []domain.BookStats{}
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputStatsTable(cmd *cobra.Command, path string, books []domain.BookStats) {
	cmd.Println(titleStyle.Render(path))
	if len(books) == 0 {
		cmd.Println("No chunks indexed.")
		return
	}

	var total domain.BookStats
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			b.Book,
			strconv.Itoa(b.Chunks),
			strconv.Itoa(b.Embedded),
			strconv.Itoa(b.Pending()),
		})
		total.Chunks += b.Chunks
		total.Embedded += b.Embedded
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("BOOK", "CHUNKS", "EMBEDDED", "PENDING").
		Rows(rows...)
	cmd.Println(t.Render())
	cmd.Printf("%d books, %d chunks, %d embedded\n", len(books), total.Chunks, total.Embedded)
}
