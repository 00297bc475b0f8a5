package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// FetchingMessage is published on every poll while the catalog is loading.
const FetchingMessage = "Fetching mods from Thunderstore..."

// DefaultPollInterval is the delay between readiness checks.
const DefaultPollInterval = time.Second

// Readiness reports whether the mod catalog has been fetched.
type Readiness interface {
	Ready() bool
}

// Publisher receives user-visible status lines.
type Publisher interface {
	Publish(message string)
}

// Clock abstracts sleeping so tests can drive the gate without real delays.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Gate blocks until the catalog is ready.
type Gate struct {
	ready    Readiness
	status   Publisher
	clock    Clock
	interval time.Duration
	maxWait  time.Duration
	log      *slog.Logger
}

// NewGate creates a gate polling ready every interval. A zero maxWait waits
// until ready or until the context is cancelled. clock may be nil.
func NewGate(ready Readiness, status Publisher, clock Clock, interval, maxWait time.Duration, log *slog.Logger) *Gate {
	if clock == nil {
		clock = realClock{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Gate{
		ready:    ready,
		status:   status,
		clock:    clock,
		interval: interval,
		maxWait:  maxWait,
		log:      log,
	}
}

// Wait returns once the catalog reports ready.
// Each unsuccessful poll publishes FetchingMessage before sleeping.
func (g *Gate) Wait(ctx context.Context) error {
	var waited time.Duration
	for polls := 0; ; polls++ {
		if g.ready.Ready() {
			if polls > 0 {
				g.log.Debug("catalog ready", "polls", polls, "waited", waited)
			}
			return nil
		}
		if g.maxWait > 0 && waited >= g.maxWait {
			return fmt.Errorf("%w after %s", ErrRegistryTimeout, waited)
		}
		g.status.Publish(FetchingMessage)
		if err := g.clock.Sleep(ctx, g.interval); err != nil {
			return err
		}
		waited += g.interval
	}
}
