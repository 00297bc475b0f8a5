// Package install applies a prepared import to the profile store: it creates
// the profile, records its mods and copies the source profile's config files.
package install

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/modport/internal/catalog"
	"github.com/vmunix/modport/internal/profile"
)

// ImportSource tags where an import came from.
type ImportSource string

const (
	// SourceR2 marks profiles imported from r2modman or the Thunderstore Mod Manager.
	SourceR2 ImportSource = "r2"
)

// ImportData is a normalized, source-agnostic import request.
type ImportData struct {
	Name       string
	Mods       []catalog.ModInstall
	ExtraFiles []string // paths relative to SourceRoot
	SourceRoot string
	Overwrite  bool
	Source     ImportSource
}

// Progress describes how far an Apply call has come.
type Progress struct {
	TotalProgress float64 // 0.0 to 1.0
	Completed     int
	Total         int
	Current       string
}

// Options controls how Apply behaves.
type Options struct {
	// CanCancel lets ctx interrupt the apply between steps.
	CanCancel bool
	// SendProgress publishes the installer's own status lines.
	SendProgress bool
	// OnProgress, if set, is called after every step.
	OnProgress func(Progress)
}

// Publisher receives human readable status lines.
type Publisher interface {
	Publish(message string)
}

// Installer applies imports to a profile manager.
type Installer struct {
	profiles *profile.Manager
	status   Publisher
	log      *slog.Logger
}

// New creates an installer. status may be nil.
func New(profiles *profile.Manager, status Publisher, log *slog.Logger) *Installer {
	if log == nil {
		log = slog.Default()
	}
	return &Installer{
		profiles: profiles,
		status:   status,
		log:      log,
	}
}

// Apply creates the profile described by data. On error the profile may be
// left partially applied; cleaning it up is the caller's responsibility.
func (i *Installer) Apply(ctx context.Context, data ImportData, opts Options) error {
	if opts.CanCancel {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if data.Overwrite {
		if _, err := i.profiles.DeleteByName(data.Name, true); err != nil {
			return fmt.Errorf("overwrite profile: %w", err)
		}
	}

	p, err := i.profiles.CreateProfile(data.Name, string(data.Source))
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	files, err := configFiles(data.SourceRoot, data.ExtraFiles)
	if err != nil {
		return err
	}

	// One step per mod plus one per copied file
	total := len(data.Mods) + len(files)
	done := 0
	step := func(current string) {
		done++
		i.report(opts, Progress{
			TotalProgress: float64(done) / float64(total),
			Completed:     done,
			Total:         total,
			Current:       current,
		})
	}

	for pos, m := range data.Mods {
		if opts.CanCancel {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		err := i.profiles.AddMod(p.ID, pos, profile.Mod{
			FullName: m.FullName,
			Version:  m.Version,
			Enabled:  m.Enabled,
		})
		if err != nil {
			return err
		}
		step(m.FullName)
	}

	for _, rel := range files {
		if opts.CanCancel {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := copyInto(data.SourceRoot, p.Path, rel); err != nil {
			return err
		}
		step(rel)
	}

	if total == 0 {
		i.report(opts, Progress{TotalProgress: 1})
	}

	i.log.Info("profile applied", "profile", data.Name, "mods", len(data.Mods), "files", len(files))
	return nil
}

func (i *Installer) report(opts Options, p Progress) {
	if opts.SendProgress && i.status != nil {
		i.status.Publish(fmt.Sprintf("Installing %s (%d/%d)", p.Current, p.Completed, p.Total))
	}
	if opts.OnProgress != nil {
		opts.OnProgress(p)
	}
}
