package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
)

// configKeys lists the settings the config command accepts, with a parser
// that validates and converts the value given on the command line.
var configKeys = map[string]func(string) (any, error){
	driven.ConfigKeyChunkSize: parsePositiveInt,
	driven.ConfigKeyOverlap:   parseNonNegativeInt,
	driven.ConfigKeyMode:      parseMode,
	driven.ConfigKeyDBPath:    parseNonEmpty,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	Long: `Read and write ragindex settings. Keys:

  index.chunk_size  words per chunk
  index.overlap     words shared by consecutive chunks (overlap mode)
  index.mode        strict or overlap
  storage.db_path   default database path

The file is TOML unless --config names a .yaml or .yml file.`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	// Stop flag parsing at the key so values such as "-1" reach the
	// validator instead of being read as shorthand flags.
	configSetCmd.Flags().SetInterspersed(false)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func openConfigStore() (driven.ConfigStore, error) {
	if deps.OpenConfig == nil {
		return nil, errors.New("config store not configured")
	}
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("config file unavailable")
	}
	return cfg, nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	cfg, err := openConfigStore()
	if err != nil {
		return err
	}

	keys := cfg.Keys()
	if len(keys) == 0 {
		cmd.Println(mutedStyle.Render("No settings in " + cfg.Path()))
		return nil
	}
	for _, key := range keys {
		val, _ := cfg.Get(key)
		cmd.Printf("%s = %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := openConfigStore()
	if err != nil {
		return err
	}

	val, ok := cfg.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: config key %q", domain.ErrNotFound, args[0])
	}
	cmd.Println(val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	parse, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidArgument, key)
	}
	val, err := parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, key, err)
	}

	cfg, err := openConfigStore()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, val); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Set %s = %v", key, val)))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	cfg, err := openConfigStore()
	if err != nil {
		return err
	}
	cmd.Println(cfg.Path())
	return nil
}

func parsePositiveInt(s string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("want a positive integer, got %q", s)
	}
	return n, nil
}

func parseNonNegativeInt(s string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("want a non-negative integer, got %q", s)
	}
	return n, nil
}

func parseMode(s string) (any, error) {
	mode := domain.ChunkMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return nil, fmt.Errorf("want %s or %s, got %q", domain.ChunkModeStrict, domain.ChunkModeOverlap, s)
	}
	return string(mode), nil
}

func parseNonEmpty(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("value must not be empty")
	}
	return s, nil
}
