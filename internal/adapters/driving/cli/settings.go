package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasha-health/ragindex/internal/core/domain"
	"github.com/tasha-health/ragindex/internal/core/ports/driven"
	"github.com/tasha-health/ragindex/internal/logger"
)

// Environment variables consulted when a flag is not given.
const (
	EnvDBPath    = "RAGINDEX_DB"
	EnvChunkSize = "RAGINDEX_CHUNK_SIZE"
	EnvOverlap   = "RAGINDEX_OVERLAP"
	EnvMode      = "RAGINDEX_MODE"
)

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

// runSettings is the resolved configuration of one index run.
type runSettings struct {
	DBPath   string
	Book     string
	Chunking domain.ChunkSettings
	DryRun   bool
}

// resolveSettings merges flags, environment, config file and defaults, in
// that order of precedence.
func resolveSettings(cmd *cobra.Command) (runSettings, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return runSettings{}, err
	}

	flags := cmd.Flags()
	settings := runSettings{
		Book:   strings.TrimSpace(bookName),
		DryRun: dryRun,
	}

	settings.DBPath = resolveString(flags.Changed("db"), dbPath, EnvDBPath, cfg, driven.ConfigKeyDBPath)

	mode := resolveString(flags.Changed("mode"), modeName, EnvMode, cfg, driven.ConfigKeyMode)
	settings.Chunking.Mode = domain.ChunkMode(strings.ToLower(mode))

	if settings.Chunking.Size, err = resolveInt(
		flags.Changed("chunk-size"), chunkSize, EnvChunkSize, cfg, driven.ConfigKeyChunkSize); err != nil {
		return runSettings{}, err
	}
	if settings.Chunking.Overlap, err = resolveInt(
		flags.Changed("overlap"), overlap, EnvOverlap, cfg, driven.ConfigKeyOverlap); err != nil {
		return runSettings{}, err
	}

	if err := settings.Chunking.Validate(); err != nil {
		return runSettings{}, err
	}

	logger.Debug("Settings: db=%s size=%d overlap=%d mode=%s dry-run=%t",
		settings.DBPath, settings.Chunking.Size, settings.Chunking.Overlap, settings.Chunking.Mode, settings.DryRun)
	return settings, nil
}

// loadConfig opens the settings file. With mustExist, an explicit --config
// path that does not exist is an error; the default location may be absent.
func loadConfig(mustExist bool) (driven.ConfigStore, error) {
	if deps.OpenConfig == nil {
		return nil, nil
	}

	if configPath != "" && mustExist {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file %s does not exist", domain.ErrInvalidArgument, configPath)
		}
	}

	cfg, err := deps.OpenConfig(configPath)
	if err != nil {
		if configPath == "" {
			logger.Warn("Ignoring default config file: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: loading config %s: %v", domain.ErrInvalidArgument, configPath, err)
	}
	logger.Debug("Config: %s", cfg.Path())
	return cfg, nil
}

func resolveString(flagSet bool, flagVal, env string, cfg driven.ConfigStore, key string) string {
	if flagSet {
		return flagVal
	}
	if v, ok := lookupEnv(env); ok && v != "" {
		return v
	}
	if cfg != nil {
		if v := cfg.GetString(key); v != "" {
			return v
		}
	}
	return flagVal
}

func resolveInt(flagSet bool, flagVal int, env string, cfg driven.ConfigStore, key string) (int, error) {
	if flagSet {
		return flagVal, nil
	}
	if v, ok := lookupEnv(env); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidArgument, env, v)
		}
		return n, nil
	}
	if cfg != nil {
		if v, ok := cfg.Get(key); ok {
			n, err := toInt(v)
			if err != nil {
				return 0, fmt.Errorf("%w: config %s: %v", domain.ErrInvalidArgument, key, err)
			}
			return n, nil
		}
	}
	return flagVal, nil
}

// toInt accepts the integer types produced by the TOML and YAML decoders and
// numeric strings written by "config set".
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%v (%T) is not an integer", v, v)
	}
}
