package onthisday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/metrics"
)

var (
	ErrInvalidDate = errors.New(config.ErrInvalidDate)
	ErrUpstream    = errors.New(config.ErrUpstream)
)

// ValidDate reports whether month/day exists in a leap year.
func ValidDate(month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	return time.Date(config.DefaultLeapYear, month, day, 0, 0, 0, 0, time.UTC).Month() == month
}

// Client reads the encyclopedia on-this-day feeds.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Token   string
	Metrics *metrics.Metrics
}

// NewClient creates a Client with the given request timeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = config.HTTPTimeout
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
	}
}

func (c *Client) Births(ctx context.Context, month time.Month, day int) ([]FamousPerson, error) {
	return c.people(ctx, KindBirths, PersonBirth, month, day)
}

func (c *Client) Deaths(ctx context.Context, month time.Month, day int) ([]FamousPerson, error) {
	return c.people(ctx, KindDeaths, PersonDeath, month, day)
}

func (c *Client) Events(ctx context.Context, month time.Month, day int) ([]HistoricalEvent, error) {
	entries, err := c.fetch(ctx, KindEvents, month, day)
	if err != nil {
		return nil, err
	}
	events := make([]HistoricalEvent, 0, len(entries))
	for _, e := range entries {
		events = append(events, e.toEvent())
	}
	return events, nil
}

func (c *Client) people(ctx context.Context, kind Kind, t PersonType, month time.Month, day int) ([]FamousPerson, error) {
	entries, err := c.fetch(ctx, kind, month, day)
	if err != nil {
		return nil, err
	}
	people := make([]FamousPerson, 0, len(entries))
	for _, e := range entries {
		people = append(people, e.toPerson(t))
	}
	return people, nil
}

func (c *Client) fetch(ctx context.Context, kind Kind, month time.Month, day int) (entries []feedEntry, err error) {
	if !ValidDate(month, day) {
		return nil, fmt.Errorf("%w: %02d-%02d", ErrInvalidDate, int(month), day)
	}

	start := time.Now()
	defer func() { c.Metrics.ObserveUpstream(string(kind), err, start) }()

	date := fmt.Sprintf(config.DateFormatFeed, int(month), day)
	target := fmt.Sprintf(config.FeedPathFormat, c.BaseURL, kind, date)

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompOnThisDay),
		slog.String(config.LogKeyKind, string(kind)),
		slog.String(config.LogKeyDate, date),
	)
	log.Debug(config.MsgFetchFeed, slog.String(config.LogKeyURL, target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeJSON)
	if c.Token != "" {
		req.Header.Set(config.HeaderAuthorization, config.BearerPrefix+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warn(config.ErrUpstreamStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%w: %s: %d", ErrUpstream, config.ErrUpstreamStatus, resp.StatusCode)
	}

	var body feed
	if err := json.NewDecoder(io.LimitReader(resp.Body, config.MaxHTTPResponseSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, config.ErrUpstreamDecode, err)
	}

	entries = body.entries(kind)
	log.Debug(config.MsgFetchFeed, slog.Int(config.LogKeyCount, len(entries)))
	return entries, nil
}
