package importer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmunix/modport/internal/events"
	"github.com/vmunix/modport/internal/source"
)

// Status is the result of visiting one selected profile.
type Status string

const (
	StatusImported            Status = "imported"
	StatusSkippedEmpty        Status = "skipped_empty"
	StatusSkippedNoDescriptor Status = "skipped_no_descriptor"
	StatusFailed              Status = "failed"
)

// Outcome describes what happened to one selected profile.
type Outcome struct {
	Index      int // position in discovery order
	Name       string
	Path       string
	Status     Status
	Mods       int
	Err        error
	RolledBack bool
}

// BatchResult collects the outcomes of a batch in discovery order.
// Profiles excluded by the selection mask have no outcome.
type BatchResult struct {
	ID         string
	SourcePath string
	Outcomes   []Outcome
}

// Count returns the number of outcomes with status s.
func (r *BatchResult) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Run imports the profiles found under root.
// include[n] selects the n-th discovered profile; profiles beyond the end of
// include are not imported. Per-profile failures are reported in the result;
// only a catalog wait or discovery failure aborts the batch.
func (i *Importer) Run(ctx context.Context, root string, include []bool) (*BatchResult, error) {
	if err := i.gate.Wait(ctx); err != nil {
		return nil, err
	}

	i.log.Info("importing profiles", "path", root)
	profiles, err := source.Discover(root, i.gameDir)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{ID: uuid.NewString(), SourcePath: root}
	i.publish(ctx, &events.BatchStarted{
		BaseEvent:  events.NewBaseEvent(events.EventBatchStarted, events.EntityBatch, 0),
		BatchID:    result.ID,
		SourcePath: root,
	})

	n := -1
	for dir := range profiles {
		n++
		if n >= len(include) || !include[n] {
			continue
		}
		out := i.visit(ctx, n, dir)
		i.report(ctx, result, out)
		result.Outcomes = append(result.Outcomes, out)
	}

	imported := result.Count(StatusImported)
	skipped := result.Count(StatusSkippedEmpty) + result.Count(StatusSkippedNoDescriptor)
	failed := result.Count(StatusFailed)
	i.log.Info("import batch complete", "batch", result.ID, "imported", imported, "skipped", skipped, "failed", failed)
	i.publish(ctx, &events.BatchCompleted{
		BaseEvent: events.NewBaseEvent(events.EventBatchCompleted, events.EntityBatch, 0),
		BatchID:   result.ID,
		Imported:  imported,
		Skipped:   skipped,
		Failed:    failed,
	})
	return result, nil
}

// visit prepares and imports a single profile directory.
func (i *Importer) visit(ctx context.Context, index int, dir string) Outcome {
	name := filepath.Base(dir)
	out := Outcome{Index: index, Name: name, Path: dir}

	data, skip, err := i.Prepare(dir)
	if err != nil {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("prepare profile '%s': %w", name, err)
		i.log.Error("import from r2modman failed", "profile", name, "error", out.Err)
		return out
	}
	switch skip {
	case SkipNoDescriptor:
		out.Status = StatusSkippedNoDescriptor
		return out
	case SkipEmpty:
		out.Status = StatusSkippedEmpty
		return out
	}

	if err := i.importProfile(ctx, *data); err != nil {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("%w '%s': %w", ErrImport, name, err)
		i.log.Error("import from r2modman failed", "profile", name, "error", out.Err)
		out.RolledBack = i.rollback(name)
		return out
	}

	out.Status = StatusImported
	out.Mods = len(data.Mods)
	return out
}

// report records out in the history table and on the event bus.
func (i *Importer) report(ctx context.Context, result *BatchResult, out Outcome) {
	if i.history != nil {
		entry := &HistoryEntry{
			BatchID:    result.ID,
			Profile:    out.Name,
			Status:     out.Status,
			SourcePath: out.Path,
		}
		if out.Err != nil {
			entry.Error = out.Err.Error()
		}
		if err := i.history.Add(entry); err != nil {
			i.log.Warn("failed to record import history", "profile", out.Name, "error", err)
		}
	}

	switch out.Status {
	case StatusImported:
		i.publish(ctx, &events.ProfileImported{
			BaseEvent: events.NewBaseEvent(events.EventProfileImported, events.EntityProfile, 0),
			BatchID:   result.ID,
			Profile:   out.Name,
			Mods:      out.Mods,
		})
	case StatusFailed:
		i.publish(ctx, &events.ProfileImportFailed{
			BaseEvent:  events.NewBaseEvent(events.EventProfileImportFailed, events.EntityProfile, 0),
			BatchID:    result.ID,
			Profile:    out.Name,
			Reason:     out.Err.Error(),
			RolledBack: out.RolledBack,
		})
	default:
		reason := SkipEmpty.String()
		if out.Status == StatusSkippedNoDescriptor {
			reason = SkipNoDescriptor.String()
		}
		i.publish(ctx, &events.ProfileSkipped{
			BaseEvent: events.NewBaseEvent(events.EventProfileSkipped, events.EntityProfile, 0),
			BatchID:   result.ID,
			Profile:   out.Name,
			Reason:    reason,
		})
	}
}

func (i *Importer) publish(ctx context.Context, e events.Event) {
	if i.bus == nil {
		return
	}
	if err := i.bus.Publish(ctx, e); err != nil {
		i.log.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}
