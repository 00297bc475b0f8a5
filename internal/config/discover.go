// internal/config/discover.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// EnvConfig names the environment variable that overrides discovery.
const EnvConfig = "MODPORT_CONFIG"

// DefaultPath returns the XDG config path, $XDG_CONFIG_HOME/modport/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "modport", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. MODPORT_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/modport/config.toml
//  4. /etc/modport/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/modport/config.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
