// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	if c.Game.R2DirName == "" {
		errs = append(errs, "game.r2_dir_name: required")
	}
	if c.Profiles.Root == "" {
		errs = append(errs, "profiles.root: required")
	}

	// Catalog validation
	if c.Catalog.Snapshot != "" {
		if _, err := os.Stat(c.Catalog.Snapshot); err != nil {
			errs = append(errs, fmt.Sprintf("catalog.snapshot: %v", err))
		}
	} else {
		if c.Game.Community == "" {
			errs = append(errs, "game.community: required when fetching the catalog")
		}
		if u, err := url.Parse(c.Catalog.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("catalog.url: must be an http(s) URL, got %q", c.Catalog.URL))
		}
	}
	if c.Catalog.PollInterval < 0 {
		errs = append(errs, fmt.Sprintf("catalog.poll_interval: must not be negative, got %s", c.Catalog.PollInterval))
	}
	if c.Catalog.MaxWait < 0 {
		errs = append(errs, fmt.Sprintf("catalog.max_wait: must not be negative, got %s", c.Catalog.MaxWait))
	}
	if c.Catalog.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("catalog.requests_per_second: must not be negative, got %g", c.Catalog.RequestsPerSecond))
	}
	if c.Catalog.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("catalog.cache_ttl: must not be negative, got %s", c.Catalog.CacheTTL))
	}
	if c.Catalog.Attempts < 0 {
		errs = append(errs, fmt.Sprintf("catalog.attempts: must not be negative, got %d", c.Catalog.Attempts))
	}

	return errs
}
