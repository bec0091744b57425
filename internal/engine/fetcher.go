package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/metrics"
)

// ErrContactsFetch wraps every failure of a remote vCard download.
var ErrContactsFetch = errors.New(config.ErrContactsFetch)

// VCardFetcher retrieves a remote vCard collection.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads vCard collections (CardDAV export, WebDAV share, plain HTTP).
type HTTPFetcher struct {
	Client  *http.Client
	Metrics *metrics.Metrics

	// MaxSize bounds the body; config.MaxVCardSize when zero.
	MaxSize int64
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads the whole collection before returning it, so that a
// truncated or oversized body never reaches the decoder. Query parameters are
// left out of the logs since they often carry tokens.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (_ io.ReadCloser, err error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrContactsFetch, config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%w: %s: %s", ErrContactsFetch, config.ErrProtocol, u.Scheme)
	}

	start := time.Now()
	defer func() { f.Metrics.ObserveUpstream(metrics.KindContacts, err, start) }()

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug(config.MsgFetchContacts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContactsFetch, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCard)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContactsFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warn(config.ErrContactsStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%w: %s: %d", ErrContactsFetch, config.ErrContactsStatus, resp.StatusCode)
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = config.MaxVCardSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContactsFetch, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s: %d bytes", ErrContactsFetch, config.ErrVCardTooLarge, limit)
	}

	log.Debug(config.MsgFetchContacts, slog.Int(config.LogKeySizeBytes, len(data)))
	return io.NopCloser(bytes.NewReader(data)), nil
}
