package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
)

// Prefetcher warms the on-this-day cache. *onthisday.Service implements it.
type Prefetcher interface {
	Prefetch(ctx context.Context, month time.Month, day int) error
}

// ContactsSync rebuilds the contacts calendar from a vCard source.
type ContactsSync struct {
	Loader  *engine.ContactLoader
	Source  engine.ContactSource
	Builder *engine.CalendarBuilder
	Feed    *CalendarFeed
}

// Refresh loads the contacts and publishes the calendar built as of the start of now's day.
func (c *ContactsSync) Refresh(ctx context.Context, now time.Time) error {
	entries, err := c.Loader.Load(ctx, c.Source)
	if err != nil {
		return err
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	data, err := c.Builder.Build(entries, day)
	if err != nil {
		return err
	}
	c.Feed.Update(data, day)
	return nil
}

// Worker keeps today's feeds warm and the contacts calendar current.
type Worker struct {
	Ticker   engine.Ticker
	Facts    Prefetcher
	Contacts *ContactsSync
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.Ticker.Run(ctx, func(now time.Time) {
		w.tick(ctx, now)
	})
}

func (w *Worker) tick(ctx context.Context, now time.Time) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	if w.Facts != nil {
		log.Debug(config.MsgWarmup, config.LogKeyDate, now.Format(config.DateFormatFullDash))
		if err := w.Facts.Prefetch(ctx, now.Month(), now.Day()); err != nil && ctx.Err() == nil {
			log.Warn(config.MsgWarmupFailed, config.LogKeyError, err)
		}
	}

	if w.Contacts != nil {
		if err := w.Contacts.Refresh(ctx, now); err != nil && ctx.Err() == nil {
			log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		}
	}
}
