package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/insights"
	"github.com/tartampluch/birthday-insights/internal/locale"
	"github.com/tartampluch/birthday-insights/internal/metrics"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
	"github.com/tartampluch/birthday-insights/internal/server"
)

// serve wires the dependencies and runs the HTTP server and the refresh worker
// until ctx is cancelled or one of them fails.
func serve(ctx context.Context, s *config.Settings, clock engine.Clock, store config.TokenStore) error {
	catalog, err := locale.Load()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	client := onthisday.NewClient(s.OnThisDay.BaseURL, config.ResolveToken(s, store), s.OnThisDay.Timeout)
	client.Metrics = m
	facts := onthisday.NewService(client, onthisday.Options{
		TTL:      s.Cache.TTL,
		Fallback: s.OnThisDay.Fallback,
		Metrics:  m,
		Now:      clock.Now,
	})

	srv := &server.Server{
		Addr:     s.Server.Addr(),
		Clock:    clock,
		Facts:    facts,
		Insights: &insights.Service{Clock: clock, Facts: facts, Catalog: catalog},
		Catalog:  catalog,
		Metrics:  m,
		Gatherer: reg,
		PageSize: s.Insights.PageSize,
		Language: s.Insights.Language,
	}
	worker := &server.Worker{
		Ticker: engine.Ticker{Clock: clock, Interval: s.Insights.RefreshInterval},
		Facts:  facts,
	}

	if s.Contacts.Enabled() {
		feed := &server.CalendarFeed{}
		srv.Contacts = feed
		fetcher := engine.NewHTTPFetcher()
		fetcher.Metrics = m
		worker.Contacts = &server.ContactsSync{
			Loader: &engine.ContactLoader{Clock: clock, Fetcher: fetcher},
			Source: engine.ContactSource{
				Path: s.Contacts.Path,
				URL:  s.Contacts.URL,
				User: s.Contacts.User,
				Pass: s.Contacts.Password,
			},
			Builder: catalog.For(s.Insights.Language).CalendarBuilder(),
			Feed:    feed,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return worker.Run(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return nil
}
