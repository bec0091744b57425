package onthisday_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/metrics"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
)

const birthsFeed = `{
  "births": [
    {
      "text": "Ada Lovelace, English mathematician, writer",
      "year": 1815,
      "pages": [
        {"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Ada_Lovelace"}, "mobile": {"page": "https://en.m.wikipedia.org/wiki/Ada_Lovelace"}}},
        {"thumbnail": {"source": "https://img/thumb.jpg"}}
      ]
    },
    {"text": "Somebody", "year": 1900},
    {
      "text": "Grace Hopper, American computer scientist",
      "year": 1906,
      "pages": [{"originalimage": {"source": "https://img/full.jpg"}, "thumbnail": {"source": "https://img/small.jpg"}}]
    }
  ]
}`

const eventsFeed = `{
  "events": [
    {"text": "Apollo 11 – First crewed Moon landing", "year": 1969},
    {"text": "A plain event without separator", "year": 1900}
  ]
}`

func newFeedServer(t *testing.T, handler http.HandlerFunc) *onthisday.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return onthisday.NewClient(ts.URL+"/", "", time.Second)
}

func TestClient_Births(t *testing.T) {
	var gotPath, gotAgent string
	client := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get(config.HeaderUserAgent)
		_, _ = w.Write([]byte(birthsFeed))
	})

	people, err := client.Births(context.Background(), time.December, 10)
	require.NoError(t, err)

	assert.Equal(t, "/feed/onthisday/births/12/10", gotPath)
	assert.Equal(t, config.UserAgent, gotAgent)
	require.Len(t, people, 3)

	ada := people[0]
	assert.Equal(t, "Ada Lovelace", ada.Name)
	assert.Equal(t, "English mathematician", ada.Description)
	assert.Equal(t, 1815, ada.Year)
	assert.Equal(t, onthisday.PersonBirth, ada.Type)
	assert.Equal(t, "https://img/thumb.jpg", ada.ImageURL, "image comes from the first page that has one")
	require.NotNil(t, ada.Links)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Ada_Lovelace", ada.Links.Desktop)
	assert.Equal(t, "https://en.m.wikipedia.org/wiki/Ada_Lovelace", ada.Links.Mobile)

	assert.Equal(t, config.DefaultPersonDesc, people[1].Description)
	assert.Nil(t, people[1].Links)
	assert.Empty(t, people[1].ImageURL)

	assert.Equal(t, "https://img/full.jpg", people[2].ImageURL, "original image wins over thumbnail")
	assert.Nil(t, people[2].Links, "first page has no content urls")
}

func TestClient_DeathsUseDeathType(t *testing.T) {
	client := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed/onthisday/deaths/01/05", r.URL.Path)
		_, _ = w.Write([]byte(`{"deaths":[{"text":"Someone, painter","year":1990}]}`))
	})

	people, err := client.Deaths(context.Background(), time.January, 5)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, onthisday.PersonDeath, people[0].Type)
}

func TestClient_Events(t *testing.T) {
	client := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(eventsFeed))
	})

	events, err := client.Events(context.Background(), time.July, 20)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Apollo 11", events[0].Event)
	assert.Equal(t, "First crewed Moon landing", events[0].Description)
	assert.Equal(t, "A plain event without separator", events[1].Event)
	assert.Equal(t, "A plain event without separator", events[1].Description)
}

func TestClient_BearerToken(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get(config.HeaderAuthorization)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client := onthisday.NewClient(ts.URL, "secret", time.Second)
	events, err := client.Events(context.Background(), time.March, 1)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, "Bearer secret", auth)
}

func TestClient_Errors(t *testing.T) {
	t.Run("Bad status", func(t *testing.T) {
		client := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := client.Births(context.Background(), time.May, 1)
		assert.ErrorIs(t, err, onthisday.ErrUpstream)
		assert.True(t, onthisday.IsUpstream(err))
	})

	t.Run("Bad body", func(t *testing.T) {
		client := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"births": [`))
		})
		_, err := client.Births(context.Background(), time.May, 1)
		assert.ErrorIs(t, err, onthisday.ErrUpstream)
	})

	t.Run("Invalid date never reaches the network", func(t *testing.T) {
		called := false
		client := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})
		_, err := client.Events(context.Background(), time.February, 30)
		assert.ErrorIs(t, err, onthisday.ErrInvalidDate)
		assert.False(t, called)
	})
}

func TestClient_RecordsMetrics(t *testing.T) {
	client := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(eventsFeed))
	})
	client.Metrics = metrics.New(prometheus.NewRegistry())

	_, err := client.Events(context.Background(), time.July, 20)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(client.Metrics.UpstreamFetches.WithLabelValues("events", metrics.OutcomeOK)))
}

func TestValidDate(t *testing.T) {
	assert.True(t, onthisday.ValidDate(time.February, 29))
	assert.True(t, onthisday.ValidDate(time.December, 31))
	assert.False(t, onthisday.ValidDate(time.April, 31))
	assert.False(t, onthisday.ValidDate(time.January, 0))
	assert.False(t, onthisday.ValidDate(13, 1))
}
