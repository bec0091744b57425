// Package server exposes the age, zodiac, on-this-day and calendar features over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/insights"
	"github.com/tartampluch/birthday-insights/internal/locale"
	"github.com/tartampluch/birthday-insights/internal/metrics"
)

// Server wires the HTTP API. Zero-valued optional fields disable their routes:
// without Gatherer there is no /metrics, without Contacts no contacts calendar.
type Server struct {
	Addr     string
	Clock    engine.Clock
	Facts    insights.Facts
	Insights *insights.Service
	Catalog  *locale.Catalog
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	PageSize int
	Contacts *CalendarFeed

	// Language is the last-resort preference after the lang query and Accept-Language.
	Language string
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get(config.RouteHealth, handleHealth)
	if s.Gatherer != nil {
		r.Handle(config.RouteMetrics, promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route(config.RouteAPI, func(r chi.Router) {
		r.Get(config.RouteAge, s.handleAge)
		r.Get(config.RouteZodiac, s.handleZodiac)
		r.Get(config.RoutePeople, s.handlePeople)
		r.Get(config.RouteEvents, s.handleEvents)
		r.Get(config.RouteInsights, s.handleInsights)
		r.Get(config.RouteCalendar, s.handleCalendar)
		if s.Contacts != nil {
			r.Get(config.RouteContacts, s.Contacts.ServeHTTP)
		}
	})
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// observe records the request count and latency per route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := metrics.RouteUnmatched
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.Metrics.ObserveRequest(route, status, start)
		slog.Debug(config.MsgRequest,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, r.Method,
			config.LogKeyRoute, route,
			config.LogKeyStatus, status,
			config.LogKeyDuration, time.Since(start).Milliseconds(),
			config.LogKeyRequestID, middleware.GetReqID(r.Context()),
		)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	_, _ = w.Write([]byte(config.HealthResponse))
}
