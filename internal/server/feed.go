package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
)

// cacheItem stores a rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

func newCacheItem(data []byte, modified time.Time) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: modified.UTC().Format(http.TimeFormat),
	}
}

// CalendarFeed holds the latest contacts calendar. Readers never block the refresh.
type CalendarFeed struct {
	cache atomic.Pointer[cacheItem]
}

// Update atomically replaces the served content. Identical content keeps the
// previous Last-Modified.
func (f *CalendarFeed) Update(data []byte, modified time.Time) {
	item := newCacheItem(data, modified)
	if current := f.cache.Load(); current != nil && current.etag == item.etag {
		return
	}
	f.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
	)
}

// ServeHTTP answers 503 until the first Update.
func (f *CalendarFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	item := f.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		writeError(w, http.StatusServiceUnavailable, config.ErrInitializing)
		return
	}
	serveCalendar(w, r, item)
}

// serveCalendar writes the ICS content with ETag and Last-Modified validation.
func serveCalendar(w http.ResponseWriter, r *http.Request, item *cacheItem) {
	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
