package importer

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/modport/internal/catalog"
	"github.com/vmunix/modport/internal/migrations"
	"github.com/vmunix/modport/internal/profile"
	_ "modernc.org/sqlite"
)

const testGameDir = "LethalCompany"

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(db), "apply schema")
	return db
}

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureHandler records log records for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

// atLevel returns the "profile" attribute of every record logged at level.
func (h *captureHandler) atLevel(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		if r.Level != level {
			continue
		}
		name := ""
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "profile" {
				name = a.Value.String()
				return false
			}
			return true
		})
		out = append(out, name)
	}
	return out
}

// recordingPublisher collects status lines.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []string
}

func (p *recordingPublisher) Publish(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *recordingPublisher) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.messages...)
}

// fakeClock returns immediately and counts sleeps.
type fakeClock struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	return nil
}

// pollingReady becomes ready once Ready has been called more than after times.
type pollingReady struct {
	mu    sync.Mutex
	after int
	polls int
}

func (r *pollingReady) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls++
	return r.polls > r.after
}

func testPackages() []catalog.Package {
	return []catalog.Package{
		{
			Name: "BepInExPack", FullName: "BepInEx-BepInExPack", Owner: "BepInEx",
			Versions: []catalog.Version{{FullName: "BepInEx-BepInExPack-5.4.2100", VersionNumber: "5.4.2100"}},
		},
		{
			Name: "MoreCompany", FullName: "notnotnotswipez-MoreCompany", Owner: "notnotnotswipez",
			Versions: []catalog.Version{{FullName: "notnotnotswipez-MoreCompany-1.8.1", VersionNumber: "1.8.1"}},
		},
	}
}

func testCatalog() *catalog.Catalog {
	c := catalog.New(testLogger())
	c.Replace(testPackages())
	return c
}

const twoMods = `- name: BepInEx-BepInExPack
  versionNumber: {major: 5, minor: 4, patch: 2100}
  enabled: true
- name: notnotnotswipez-MoreCompany
  versionNumber: {major: 1, minor: 8, patch: 1}
  enabled: false
`

// writeProfile creates <root>/<game>/profiles/<name>. A nil descriptor
// leaves out mods.yml.
func writeProfile(t *testing.T, root, name string, descriptor *string) string {
	t.Helper()
	dir := filepath.Join(root, testGameDir, "profiles", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if descriptor != nil {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "mods.yml"), []byte(*descriptor), 0o644))
	}
	return dir
}

func ptr(s string) *string { return &s }

func setupTestManager(t *testing.T) *profile.Manager {
	t.Helper()
	return profile.NewManager(profile.NewStore(setupTestDB(t)), testGameDir, t.TempDir(), testLogger())
}
