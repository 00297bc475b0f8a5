// Package catalog holds the in-memory index of known mod packages, populated
// asynchronously from Thunderstore.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vmunix/modport/internal/mods"
)

// Package is a Thunderstore package listing.
type Package struct {
	Name         string    `json:"name"`
	FullName     string    `json:"full_name"`
	Owner        string    `json:"owner"`
	IsDeprecated bool      `json:"is_deprecated"`
	Versions     []Version `json:"versions"`
}

// Version is one published version of a package.
type Version struct {
	FullName      string   `json:"full_name"`
	VersionNumber string   `json:"version_number"`
	DownloadURL   string   `json:"download_url"`
	Dependencies  []string `json:"dependencies"`
	FileSize      int64    `json:"file_size"`
}

// ModInstall is a descriptor entry resolved against the catalog.
type ModInstall struct {
	FullName    string `json:"full_name"`
	Version     string `json:"version"`
	Enabled     bool   `json:"enabled"`
	DownloadURL string `json:"download_url,omitempty"`
}

// Catalog is safe for concurrent use. Every method holds the lock only for
// the duration of the call.
type Catalog struct {
	mu       sync.RWMutex
	packages map[string]*Package
	names    []string
	fetched  bool
	log      *slog.Logger
}

// New creates an empty catalog that is not yet ready.
func New(log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{
		packages: make(map[string]*Package),
		log:      log,
	}
}

// Ready reports whether packages have been fetched.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetched
}

// Len returns the number of known packages.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.packages)
}

// Replace swaps in a new package list and marks the catalog ready.
func (c *Catalog) Replace(pkgs []Package) {
	packages := make(map[string]*Package, len(pkgs))
	names := make([]string, 0, len(pkgs))
	for i := range pkgs {
		p := &pkgs[i]
		if _, dup := packages[p.FullName]; dup {
			continue
		}
		packages[p.FullName] = p
		names = append(names, p.FullName)
	}
	sort.Strings(names)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.packages = packages
	c.names = names
	c.fetched = true
}

// Load fetches the package list and replaces the catalog contents.
// The catalog stays not-ready if the fetch fails.
func (c *Catalog) Load(ctx context.Context, f Fetcher) error {
	c.log.Info("catalog fetch started")
	pkgs, err := f.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	c.Replace(pkgs)
	c.log.Info("catalog fetch complete", "packages", len(pkgs))
	return nil
}

// Resolve maps descriptor entries onto catalog versions, preserving order.
// Entries whose package or version is unknown are returned in missing.
func (c *Catalog) Resolve(refs []mods.Ref) (installs []ModInstall, missing []mods.Ref) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, ref := range refs {
		p, ok := c.packages[ref.Name]
		if !ok {
			missing = append(missing, ref)
			continue
		}
		v, ok := p.version(ref.Version.String())
		if !ok {
			missing = append(missing, ref)
			continue
		}
		installs = append(installs, ModInstall{
			FullName:    p.FullName,
			Version:     v.VersionNumber,
			Enabled:     ref.Enabled,
			DownloadURL: v.DownloadURL,
		})
	}
	return installs, missing
}

func (p *Package) version(number string) (*Version, bool) {
	for i := range p.Versions {
		if p.Versions[i].VersionNumber == number {
			return &p.Versions[i], true
		}
	}
	return nil, false
}
