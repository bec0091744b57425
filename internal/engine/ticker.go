package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
)

// Ticker invokes a callback with the clock's current instant, once immediately
// and then on every Interval, until the context is cancelled.
// Consumers recompute their snapshots (age breakdown, prefetched feeds) from the
// injected instant instead of reading a global clock.
type Ticker struct {
	Clock    Clock
	Interval time.Duration
}

// Run blocks until ctx is done. It returns nil on cancellation.
func (t Ticker) Run(ctx context.Context, fn func(now time.Time)) error {
	if t.Interval <= 0 {
		return errors.New(config.ErrTickerInterval)
	}
	clock := t.Clock
	if clock == nil {
		clock = RealClock{}
	}
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	fn(clock.Now())

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	log.Debug(config.MsgWorkerStart, config.LogKeyInterval, t.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Debug(config.MsgWorkerStop)
			return nil
		case <-ticker.C:
			fn(clock.Now())
		}
	}
}
