package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is read from the working directory when --config is not given.
	DefaultConfigFile = "config.json"

	// DefaultEnvFile is loaded into the process environment if present.
	DefaultEnvFile = ".env"

	// EnvPrefix marks environment variables that override config keys,
	// e.g. ADDRESSBOOK_DATABASE.
	EnvPrefix = "ADDRESSBOOK_"
)

// Config is the resolved configuration of one addressbook invocation.
type Config struct {
	Database    string `koanf:"database"`
	Format      string `koanf:"format"`
	Driver      string `koanf:"driver"`
	HistoryFile string `koanf:"history_file"`
	LogLevel    string `koanf:"log_level"`

	// ConfigFile is the file that was read, empty if none was.
	ConfigFile string `koanf:"-"`
}

// knownKeys are the only keys taken from the environment and flags.
var knownKeys = map[string]bool{
	"database":     true,
	"format":       true,
	"driver":       true,
	"history_file": true,
	"log_level":    true,
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"db": "database",
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile overrides DefaultConfigFile. An explicitly named file must
	// exist; the default one may be absent.
	ConfigFile string

	// EnvFile overrides DefaultEnvFile.
	EnvFile string

	// Flags contributes every flag the user changed.
	Flags *pflag.FlagSet

	// Args holds positional arguments; Args[0], if set, is the database.
	Args []string
}

// Load resolves the configuration.
//
// Precedence (highest to lowest): positional argument > flags >
// ADDRESSBOOK_* environment (including the .env file) > config file > defaults.
//
// The default config file is skipped when Args names the database; an
// explicit ConfigFile is always read. Config file problems are returned as
// *FileError. A missing database is
// not an error here; see Config.RequireDatabase.
func Load(opts Options) (*Config, error) {
	sch, err := newSchema()
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"format":       "text",
		"driver":       "sqlite3",
		"history_file": "",
		"log_level":    "info",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file. A positional database stands in for the default
	// file, which is then not read at all.
	positional := len(opts.Args) > 0 && opts.Args[0] != ""
	cfgFile, explicit := opts.ConfigFile, opts.ConfigFile != ""
	if !explicit {
		cfgFile = DefaultConfigFile
	}
	var loaded bool
	if explicit || !positional {
		if loaded, err = loadFile(k, sch, cfgFile, explicit); err != nil {
			return nil, err
		}
	}

	// 3. Environment. .env never overrides variables that are already set.
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if !knownKeys[key] {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			if !knownKeys[key] {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Positional database argument
	if positional {
		if err := k.Set("database", opts.Args[0]); err != nil {
			return nil, fmt.Errorf("failed to set database: %w", err)
		}
	}

	if err := sch.checkMap(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if loaded {
		cfg.ConfigFile = cfgFile
	}

	return &cfg, nil
}

// loadFile validates and merges a JSON config file. It reports whether the
// file was read.
func loadFile(k *koanf.Koanf, sch *schema, path string, required bool) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return false, nil
	}
	if err != nil {
		return false, &FileError{Path: path, Err: err}
	}

	if err := sch.checkFile(path, data); err != nil {
		return false, &FileError{Path: path, Err: err}
	}

	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return false, &FileError{Path: path, Err: err}
	}
	return true, nil
}

// RequireDatabase returns ErrNoDatabase if no source named a database.
func (c *Config) RequireDatabase() error {
	if c.Database == "" {
		return ErrNoDatabase
	}
	return nil
}
