// Package server wires the catalog loader and the import batch together.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/modport/internal/catalog"
	"github.com/vmunix/modport/internal/events"
	"github.com/vmunix/modport/internal/importer"
	"github.com/vmunix/modport/internal/install"
	"github.com/vmunix/modport/internal/profile"
	"golang.org/x/sync/errgroup"
)

// Config for an import run.
type Config struct {
	Game         string // profile store namespace
	GameDir      string // game directory inside the source manager's data dir
	ProfilesRoot string

	Community         string
	CatalogURL        string
	Snapshot          string // local package list; overrides CatalogURL
	PollInterval      time.Duration
	MaxWait           time.Duration
	RequestsPerSecond float64
	Attempts          int
	CacheTTL          time.Duration // 0 disables the catalog cache
}

// Runner loads the mod catalog and runs an import batch concurrently.
// Every batch goes through the same profile manager.
type Runner struct {
	db       *sql.DB
	config   Config
	fetcher  catalog.Fetcher
	profiles *profile.Manager
	onStatus func(message string)
	logger   *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(db *sql.DB, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	fetcher := newFetcher(cfg)
	if cfg.CacheTTL > 0 && cfg.Snapshot == "" {
		fetcher = catalog.NewCachedFetcher(fetcher, catalog.NewCache(db), cfg.Community, cfg.CacheTTL, logger.With("component", "catalog"))
	}
	return &Runner{
		db:       db,
		config:   cfg,
		fetcher:  fetcher,
		profiles: profile.NewManager(profile.NewStore(db), cfg.Game, cfg.ProfilesRoot, logger.With("component", "profiles")),
		logger:   logger,
	}
}

func newFetcher(cfg Config) catalog.Fetcher {
	if cfg.Snapshot != "" {
		return catalog.FileFetcher{Path: cfg.Snapshot}
	}
	var opts []catalog.Option
	if cfg.CatalogURL != "" {
		opts = append(opts, catalog.WithBaseURL(cfg.CatalogURL))
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, catalog.WithRateLimit(cfg.RequestsPerSecond))
	}
	if cfg.Attempts > 0 {
		opts = append(opts, catalog.WithAttempts(cfg.Attempts))
	}
	return catalog.NewClient(cfg.Community, opts...)
}

// Profiles returns the profile manager batches import into. Share it with
// other readers of the profile store.
func (r *Runner) Profiles() *profile.Manager {
	return r.profiles
}

// SetFetcher replaces the catalog source.
func (r *Runner) SetFetcher(f catalog.Fetcher) {
	r.fetcher = f
}

// OnStatus registers a handler for transfer updates published during Run.
func (r *Runner) OnStatus(fn func(message string)) {
	r.onStatus = fn
}

// Run imports the profiles under root selected by include.
// It returns once the batch has finished, or with the first error from
// either the catalog load or the batch.
func (r *Runner) Run(ctx context.Context, root string, include []bool) (*importer.BatchResult, error) {
	eventLog := events.NewEventLog(r.db)
	bus := events.NewBus(eventLog, r.logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()
	bus.SetEphemeral(events.EventTransferUpdate)

	updates := bus.Subscribe(events.EventTransferUpdate, 256)
	status := events.NewStatusPublisher(bus)

	cat := catalog.New(r.logger.With("component", "catalog"))
	profiles := r.profiles
	installer := install.New(profiles, status, r.logger.With("component", "install"))

	imp := importer.New(profiles, cat, installer, status, importer.Config{
		GameDir:      r.config.GameDir,
		PollInterval: r.config.PollInterval,
		MaxWait:      r.config.MaxWait,
	}, r.logger)
	imp.SetBus(bus)
	imp.SetHistory(importer.NewHistoryStore(r.db))

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		if err := cat.Load(gctx, r.fetcher); err != nil {
			return err
		}
		return bus.Publish(gctx, &events.CatalogLoaded{
			BaseEvent: events.NewBaseEvent(events.EventCatalogLoaded, events.EntityCatalog, 0),
			Packages:  cat.Len(),
		})
	})

	g.Go(func() error {
		r.forward(updates, done)
		return nil
	})

	var result *importer.BatchResult
	g.Go(func() error {
		defer close(done)
		var err error
		result, err = imp.Run(gctx, root, include)
		if err != nil {
			return fmt.Errorf("import batch: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// forward delivers transfer updates to the status handler until done is
// closed, then drains what is already buffered.
func (r *Runner) forward(updates <-chan events.Event, done <-chan struct{}) {
	deliver := func(e events.Event) {
		if u, ok := e.(*events.TransferUpdate); ok && r.onStatus != nil {
			r.onStatus(u.Message)
		}
	}
	for {
		select {
		case e, ok := <-updates:
			if !ok {
				return
			}
			deliver(e)
		case <-done:
			for {
				select {
				case e, ok := <-updates:
					if !ok {
						return
					}
					deliver(e)
				default:
					return
				}
			}
		}
	}
}
