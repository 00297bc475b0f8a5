package v1

import (
	"context"
	"errors"

	"github.com/vmunix/modport/internal/events"
	"github.com/vmunix/modport/internal/importer"
	"github.com/vmunix/modport/internal/profile"
	"github.com/vmunix/modport/internal/source"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

//go:generate mockgen -destination=mocks/mock_batch_runner.go -package=mocks github.com/vmunix/modport/internal/api/v1 BatchRunner

// BatchRunner runs an import batch.
type BatchRunner interface {
	Run(ctx context.Context, root string, include []bool) (*importer.BatchResult, error)
}

// ServerDeps contains the dependencies of the API server.
type ServerDeps struct {
	// Required. Profiles should be the manager the Runner imports into.
	Profiles *profile.Manager
	History  *importer.HistoryStore

	// Optional (nil disables the endpoints that need them)
	EventLog *events.EventLog
	Runner   BatchRunner

	Locator source.Locator
	GameDir string // game directory inside a manager's data dir
}

// Validate checks that required dependencies are set.
func (d *ServerDeps) Validate() error {
	if d.Profiles == nil {
		return errors.Join(ErrMissingDependency, errors.New("profile manager is required"))
	}
	if d.History == nil {
		return errors.Join(ErrMissingDependency, errors.New("history store is required"))
	}
	return nil
}
