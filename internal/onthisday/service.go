package onthisday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/metrics"
)

// Source is the upstream of the Service. *Client implements it.
type Source interface {
	Births(ctx context.Context, month time.Month, day int) ([]FamousPerson, error)
	Deaths(ctx context.Context, month time.Month, day int) ([]FamousPerson, error)
	Events(ctx context.Context, month time.Month, day int) ([]HistoricalEvent, error)
}

type Options struct {
	TTL      time.Duration
	Fallback bool
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// Service caches the feeds and serves the built-in lists when the upstream is down.
type Service struct {
	source   Source
	fallback bool
	metrics  *metrics.Metrics
	people   *ttlCache[[]FamousPerson]
	events   *ttlCache[[]HistoricalEvent]
}

func NewService(source Source, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		source:   source,
		fallback: opts.Fallback,
		metrics:  opts.Metrics,
		people:   newTTLCache[[]FamousPerson](opts.TTL, now, opts.Metrics),
		events:   newTTLCache[[]HistoricalEvent](opts.TTL, now, opts.Metrics),
	}
}

// People returns births followed by deaths. Both feeds are fetched in parallel and
// either failure fails the whole day.
func (s *Service) People(ctx context.Context, month time.Month, day int) (People, error) {
	if !ValidDate(month, day) {
		return People{}, fmt.Errorf("%w: %02d-%02d", ErrInvalidDate, int(month), day)
	}

	items, err := s.people.get(cacheKey(month, day), func() ([]FamousPerson, error) {
		// Shared by every waiting caller, so one caller leaving must not cancel it.
		g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
		var births, deaths []FamousPerson
		g.Go(func() error {
			var err error
			births, err = s.source.Births(gctx, month, day)
			return err
		})
		g.Go(func() error {
			var err error
			deaths, err = s.source.Deaths(gctx, month, day)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return append(births, deaths...), nil
	})
	if err != nil {
		if !s.degrade(ctx, metrics.FallbackPeople, err) {
			return People{}, err
		}
		return People{Items: FallbackPeople(month, day), Fallback: true}, nil
	}
	return People{Items: items}, nil
}

func (s *Service) Events(ctx context.Context, month time.Month, day int) (Events, error) {
	if !ValidDate(month, day) {
		return Events{}, fmt.Errorf("%w: %02d-%02d", ErrInvalidDate, int(month), day)
	}

	items, err := s.events.get(cacheKey(month, day), func() ([]HistoricalEvent, error) {
		return s.source.Events(context.WithoutCancel(ctx), month, day)
	})
	if err != nil {
		if !s.degrade(ctx, metrics.FallbackEvents, err) {
			return Events{}, err
		}
		return Events{Items: FallbackEvents(month, day), Fallback: true}, nil
	}
	return Events{Items: items}, nil
}

// Prefetch warms the cache for a day.
func (s *Service) Prefetch(ctx context.Context, month time.Month, day int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.People(gctx, month, day)
		return err
	})
	g.Go(func() error {
		_, err := s.Events(gctx, month, day)
		return err
	})
	return g.Wait()
}

// degrade reports whether the built-in list may replace a failed upstream call.
func (s *Service) degrade(ctx context.Context, list string, err error) bool {
	if !s.fallback || ctx.Err() != nil {
		return false
	}
	s.metrics.IncFallback(list)
	slog.Warn(config.MsgFeedFallback,
		slog.String(config.LogKeyComponent, config.CompOnThisDay),
		slog.String(config.LogKeyKind, list),
		slog.Any(config.LogKeyError, err),
	)
	return true
}

func cacheKey(month time.Month, day int) string {
	return fmt.Sprintf(config.DateFormatFeed, int(month), day)
}

// IsUpstream reports whether err comes from the encyclopedia rather than the caller.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
