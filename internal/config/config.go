// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config is the root configuration structure.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
	Game     GameConfig     `toml:"game"`
	Profiles ProfilesConfig `toml:"profiles"`
	Catalog  CatalogConfig  `toml:"catalog"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// GameConfig identifies the game whose profiles are imported.
type GameConfig struct {
	Name      string `toml:"name"`        // display name, e.g. "Lethal Company"
	Community string `toml:"community"`   // Thunderstore community slug
	R2DirName string `toml:"r2_dir_name"` // game directory inside r2modman's data folder
}

type ProfilesConfig struct {
	Root string `toml:"root"`
}

// CatalogConfig controls where the mod catalog comes from.
// A non-empty Snapshot is read from disk instead of fetching URL.
type CatalogConfig struct {
	URL               string        `toml:"url"`
	Snapshot          string        `toml:"snapshot"`
	PollInterval      time.Duration `toml:"poll_interval"`
	MaxWait           time.Duration `toml:"max_wait"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
	Attempts          int           `toml:"attempts"`
	CacheTTL          time.Duration `toml:"cache_ttl"` // 0 disables the cache
}

// Load reads, parses, and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies
// defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Profiles.Root = expandHome(cfg.Profiles.Root)
	cfg.Catalog.Snapshot = expandHome(cfg.Catalog.Snapshot)
	return &cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(xdg.DataHome, "modport", "modport.db")
	}
	if c.Game.Name == "" {
		c.Game.Name = "Lethal Company"
	}
	if c.Game.Community == "" {
		c.Game.Community = "lethal-company"
	}
	if c.Game.R2DirName == "" {
		c.Game.R2DirName = strings.ReplaceAll(c.Game.Name, " ", "")
	}
	if c.Profiles.Root == "" {
		c.Profiles.Root = filepath.Join(xdg.DataHome, "modport", "profiles")
	}
	if c.Catalog.URL == "" {
		c.Catalog.URL = "https://thunderstore.io"
	}
	if c.Catalog.PollInterval == 0 {
		c.Catalog.PollInterval = time.Second
	}
	if c.Catalog.RequestsPerSecond == 0 {
		c.Catalog.RequestsPerSecond = 1
	}
	if c.Catalog.Attempts == 0 {
		c.Catalog.Attempts = 3
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces environment references in content.
// Unresolved references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case "-":
			if !ok || value == "" {
				return arg
			}
			return value
		case "?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
