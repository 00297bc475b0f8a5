// Package importer imports mod manager profiles into the local profile store.
//
// A batch waits for the mod catalog, discovers profiles under an external
// manager's data directory, and imports each selected one independently:
// a failing profile is rolled back and the batch moves on.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/vmunix/modport/internal/catalog"
	"github.com/vmunix/modport/internal/events"
	"github.com/vmunix/modport/internal/install"
	"github.com/vmunix/modport/internal/mods"
)

//go:generate mockgen -destination=mocks/mock_applier.go -package=mocks github.com/vmunix/modport/internal/importer Applier

// Applier installs a prepared profile.
type Applier interface {
	Apply(ctx context.Context, data install.ImportData, opts install.Options) error
}

// ProfileStore is the subset of the profile manager the importer needs.
type ProfileStore interface {
	ProfileIndex(name string) (int, bool)
	DeleteProfile(index int, purge bool) error
}

// Registry resolves descriptor entries against the mod catalog.
type Registry interface {
	Readiness
	Resolve(refs []mods.Ref) ([]catalog.ModInstall, []mods.Ref)
	Suggest(fullName string) (string, bool)
}

// SkipReason explains why a profile produced no import request.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNoDescriptor
	SkipEmpty
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoDescriptor:
		return "no mods.yml"
	case SkipEmpty:
		return "no mods"
	default:
		return ""
	}
}

// Importer coordinates profile imports.
type Importer struct {
	profiles ProfileStore
	registry Registry
	applier  Applier
	status   Publisher
	gate     *Gate
	bus      *events.Bus   // nil if events are disabled
	history  *HistoryStore // nil if history is disabled
	gameDir  string
	log      *slog.Logger
}

// Config for the importer.
type Config struct {
	GameDir      string // directory name of the game inside the manager's data dir
	PollInterval time.Duration
	MaxWait      time.Duration
	Clock        Clock // nil uses the wall clock
}

// New creates an importer.
func New(profiles ProfileStore, registry Registry, applier Applier, status Publisher, cfg Config, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "importer")
	return &Importer{
		profiles: profiles,
		registry: registry,
		applier:  applier,
		status:   status,
		gate:     NewGate(registry, status, cfg.Clock, cfg.PollInterval, cfg.MaxWait, log),
		gameDir:  cfg.GameDir,
		log:      log,
	}
}

// SetBus enables domain events for batches and profiles.
func (i *Importer) SetBus(bus *events.Bus) {
	i.bus = bus
}

// SetHistory enables recording of per-profile outcomes.
func (i *Importer) SetHistory(h *HistoryStore) {
	i.history = h
}

// Prepare turns a profile directory into an import request.
// A profile without mods.yml or with no usable mods is skipped, not failed.
// An existing profile of the same name is deleted once at least one mod
// resolves, before the request is returned.
func (i *Importer) Prepare(profileDir string) (*install.ImportData, SkipReason, error) {
	name := filepath.Base(profileDir)

	refs, err := mods.ReadDescriptor(profileDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		i.log.Info("no mods.yml found, skipping", "profile", name)
		return nil, SkipNoDescriptor, nil
	case errors.Is(err, mods.ErrUnreadable):
		return nil, SkipNone, fmt.Errorf("%w: %w", ErrDescriptorRead, err)
	case err != nil:
		return nil, SkipNone, fmt.Errorf("%w: %w", ErrDescriptorParse, err)
	}
	if len(refs) == 0 {
		i.log.Info("profile has no mods, skipping", "profile", name)
		return nil, SkipEmpty, nil
	}

	installs, missing := i.registry.Resolve(refs)
	for _, ref := range missing {
		if guess, ok := i.registry.Suggest(ref.Name); ok {
			i.log.Warn("mod not found in catalog", "profile", name, "mod", ref.Ident(), "suggestion", guess)
		} else {
			i.log.Warn("mod not found in catalog", "profile", name, "mod", ref.Ident())
		}
	}
	if len(installs) == 0 {
		i.log.Info("no mods resolved against catalog, skipping", "profile", name)
		return nil, SkipEmpty, nil
	}

	// A skipped profile must leave the store untouched, so the existing
	// profile is only replaced once there is something to import.
	if idx, ok := i.profiles.ProfileIndex(name); ok {
		i.log.Info("deleting existing profile", "profile", name)
		if err := i.profiles.DeleteProfile(idx, true); err != nil {
			return nil, SkipNone, fmt.Errorf("%w: %w", ErrDeleteExisting, err)
		}
	}

	return &install.ImportData{
		Name:       name,
		Mods:       installs,
		SourceRoot: profileDir,
		Source:     install.SourceR2,
	}, SkipNone, nil
}

// Execute installs data without cancellation or installer status messages.
// onProgress receives the completed fraction in [0, 1] and may be nil.
func (i *Importer) Execute(ctx context.Context, data install.ImportData, onProgress func(float64)) error {
	opts := install.Options{
		CanCancel:    false,
		SendProgress: false,
		OnProgress: func(p install.Progress) {
			if onProgress != nil {
				onProgress(p.TotalProgress)
			}
		},
	}
	return i.applier.Apply(context.WithoutCancel(ctx), data, opts)
}

// importProfile executes data, publishing percentage updates.
func (i *Importer) importProfile(ctx context.Context, data install.ImportData) error {
	i.log.Info("importing profile", "profile", data.Name, "mods", len(data.Mods))
	i.status.Publish(ProgressMessage(data.Name, 0))
	return i.Execute(ctx, data, func(fraction float64) {
		i.status.Publish(ProgressMessage(data.Name, fraction))
	})
}

// ProgressMessage formats the status line for a profile import.
func ProgressMessage(name string, fraction float64) string {
	return fmt.Sprintf("Importing profile '%s'... %d%%", name, int(math.Round(fraction*100)))
}

// rollback removes a profile left behind by a failed import.
// It reports whether a profile was deleted.
func (i *Importer) rollback(name string) bool {
	idx, ok := i.profiles.ProfileIndex(name)
	if !ok {
		return false
	}
	if err := i.profiles.DeleteProfile(idx, true); err != nil {
		i.log.Warn("failed to delete possibly corrupted profile", "profile", name, "error", err)
		return false
	}
	return true
}
