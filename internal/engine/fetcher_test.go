package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/metrics"
)

const adaCard = "BEGIN:VCARD\nVERSION:3.0\nFN:Ada Lovelace\nBDAY:1815-12-10\nEND:VCARD\n"

func newMeteredFetcher() (*engine.HTTPFetcher, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	f := engine.NewHTTPFetcher()
	f.Metrics = m
	return f, m
}

func fetchCount(m *metrics.Metrics, outcome string) float64 {
	return testutil.ToFloat64(m.UpstreamFetches.WithLabelValues(metrics.KindContacts, outcome))
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ada", user)
		assert.Equal(t, "s3cret", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		assert.Equal(t, config.MimeVCard, r.Header.Get(config.HeaderAccept))
		_, _ = w.Write([]byte(adaCard))
	}))
	defer ts.Close()

	f, m := newMeteredFetcher()
	rc, err := f.Fetch(context.Background(), ts.URL+"/contacts.vcf", "ada", "s3cret")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, adaCard, string(body))
	assert.Equal(t, 1.0, fetchCount(m, metrics.OutcomeOK))
	assert.Equal(t, 0.0, fetchCount(m, metrics.OutcomeError))
}

func TestHTTPFetcher_Fetch_Anonymous(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(adaCard))
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL+"/contacts.vcf?token=secret", "", "")
	require.NoError(t, err)
	_ = rc.Close()
}

func TestHTTPFetcher_Fetch_StatusErrors(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusBadGateway} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			f, m := newMeteredFetcher()
			rc, err := f.Fetch(context.Background(), ts.URL, "", "")

			assert.Nil(t, rc)
			require.ErrorIs(t, err, engine.ErrContactsFetch)
			assert.Contains(t, err.Error(), config.ErrContactsStatus)
			assert.Contains(t, err.Error(), strconv.Itoa(code))
			assert.Equal(t, 1.0, fetchCount(m, metrics.OutcomeError))
		})
	}
}

func TestHTTPFetcher_Fetch_TooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(adaCard + adaCard))
	}))
	defer ts.Close()

	f, m := newMeteredFetcher()
	f.MaxSize = int64(len(adaCard))

	_, err := f.Fetch(context.Background(), ts.URL, "", "")
	require.ErrorIs(t, err, engine.ErrContactsFetch)
	assert.Contains(t, err.Error(), config.ErrVCardTooLarge)
	assert.Equal(t, 1.0, fetchCount(m, metrics.OutcomeError))

	f.MaxSize = int64(2 * len(adaCard))
	rc, err := f.Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err, "a body of exactly the limit is accepted")
	_ = rc.Close()
}

// TestHTTPFetcher_Fetch_Cancelled stops a download the way the worker does on shutdown.
func TestHTTPFetcher_Fetch_Cancelled(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	f, m := newMeteredFetcher()
	_, err := f.Fetch(ctx, ts.URL, "", "")

	require.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, engine.ErrContactsFetch)
	assert.Equal(t, 1.0, fetchCount(m, metrics.OutcomeError))
}

func TestHTTPFetcher_Fetch_RejectsURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"Control character", string([]byte{0x7f}), config.ErrInvalidURL},
		{"FTP", "ftp://example.com/file.vcf", config.ErrProtocol},
		{"Local file", "file:///etc/passwd", config.ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, m := newMeteredFetcher()
			_, err := f.Fetch(context.Background(), tt.url, "", "")

			require.ErrorIs(t, err, engine.ErrContactsFetch)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 0.0, fetchCount(m, metrics.OutcomeError), "nothing is sent")
		})
	}
}

func TestContactLoader_RemoteSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(adaCard))
	}))
	defer ts.Close()

	f, m := newMeteredFetcher()
	loader := &engine.ContactLoader{
		Clock:   MockClock{CurrentTime: time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)},
		Fetcher: f,
	}

	entries, err := loader.Load(context.Background(), engine.ContactSource{URL: ts.URL})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ada Lovelace", entries[0].Name)
	assert.Equal(t, time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC), entries[0].NextOccurrence)
	assert.Equal(t, 1.0, fetchCount(m, metrics.OutcomeOK))
}
