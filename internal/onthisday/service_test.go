package onthisday_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-insights/internal/metrics"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
)

// MockSource simulates the encyclopedia using `testify/mock`.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Births(ctx context.Context, month time.Month, day int) ([]onthisday.FamousPerson, error) {
	args := m.Called(ctx, month, day)
	people, _ := args.Get(0).([]onthisday.FamousPerson)
	return people, args.Error(1)
}

func (m *MockSource) Deaths(ctx context.Context, month time.Month, day int) ([]onthisday.FamousPerson, error) {
	args := m.Called(ctx, month, day)
	people, _ := args.Get(0).([]onthisday.FamousPerson)
	return people, args.Error(1)
}

func (m *MockSource) Events(ctx context.Context, month time.Month, day int) ([]onthisday.HistoricalEvent, error) {
	args := m.Called(ctx, month, day)
	events, _ := args.Get(0).([]onthisday.HistoricalEvent)
	return events, args.Error(1)
}

var (
	ada    = onthisday.FamousPerson{Name: "Ada Lovelace", Year: 1815, Type: onthisday.PersonBirth}
	turing = onthisday.FamousPerson{Name: "Alan Turing", Year: 1954, Type: onthisday.PersonDeath}
)

func TestService_PeopleMergesBirthsAndDeaths(t *testing.T) {
	src := new(MockSource)
	src.On("Births", mock.Anything, time.June, 7).Return([]onthisday.FamousPerson{ada}, nil).Once()
	src.On("Deaths", mock.Anything, time.June, 7).Return([]onthisday.FamousPerson{turing}, nil).Once()

	svc := onthisday.NewService(src, onthisday.Options{TTL: time.Hour})
	people, err := svc.People(context.Background(), time.June, 7)
	require.NoError(t, err)

	assert.False(t, people.Fallback)
	assert.Equal(t, []onthisday.FamousPerson{ada, turing}, people.Items)
	assert.Equal(t, []onthisday.FamousPerson{turing}, people.Filter(onthisday.PersonDeath))
	assert.Len(t, people.Filter(""), 2)

	// Second call is served from the cache; Once() would fail a second upstream call.
	_, err = svc.People(context.Background(), time.June, 7)
	require.NoError(t, err)
	src.AssertExpectations(t)
}

func TestService_CacheExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	src := new(MockSource)
	src.On("Events", mock.Anything, time.May, 1).Return([]onthisday.HistoricalEvent{{Year: 1}}, nil).Twice()

	svc := onthisday.NewService(src, onthisday.Options{TTL: time.Hour, Now: func() time.Time { return now }})

	_, err := svc.Events(context.Background(), time.May, 1)
	require.NoError(t, err)
	now = now.Add(30 * time.Minute)
	_, err = svc.Events(context.Background(), time.May, 1)
	require.NoError(t, err)
	src.AssertNumberOfCalls(t, "Events", 1)

	now = now.Add(time.Hour)
	_, err = svc.Events(context.Background(), time.May, 1)
	require.NoError(t, err)
	src.AssertNumberOfCalls(t, "Events", 2)
}

func TestService_FallbackWhenUpstreamFails(t *testing.T) {
	src := new(MockSource)
	src.On("Births", mock.Anything, mock.Anything, mock.Anything).Return(nil, onthisday.ErrUpstream)
	src.On("Deaths", mock.Anything, mock.Anything, mock.Anything).Return([]onthisday.FamousPerson{turing}, nil)
	src.On("Events", mock.Anything, mock.Anything, mock.Anything).Return(nil, onthisday.ErrUpstream)

	m := metrics.New(prometheus.NewRegistry())
	svc := onthisday.NewService(src, onthisday.Options{TTL: time.Hour, Fallback: true, Metrics: m})

	people, err := svc.People(context.Background(), time.March, 14)
	require.NoError(t, err)
	assert.True(t, people.Fallback)
	assert.Equal(t, onthisday.FallbackPeople(time.March, 14), people.Items)

	events, err := svc.Events(context.Background(), time.March, 14)
	require.NoError(t, err)
	assert.True(t, events.Fallback)
	assert.Len(t, events.Items, 5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues(metrics.FallbackPeople)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues(metrics.FallbackEvents)))

	// Fallback results are not cached.
	_, _ = svc.Events(context.Background(), time.March, 14)
	src.AssertNumberOfCalls(t, "Events", 2)
}

func TestService_NoFallbackReturnsError(t *testing.T) {
	src := new(MockSource)
	boom := errors.New("boom")
	src.On("Events", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	svc := onthisday.NewService(src, onthisday.Options{})
	_, err := svc.Events(context.Background(), time.March, 14)
	assert.ErrorIs(t, err, boom)
}

func TestService_CanceledCallerGetsNoFallback(t *testing.T) {
	src := new(MockSource)
	src.On("Events", mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := onthisday.NewService(src, onthisday.Options{Fallback: true})
	_, err := svc.Events(ctx, time.March, 14)
	assert.Error(t, err)
}

func TestService_InvalidDate(t *testing.T) {
	svc := onthisday.NewService(new(MockSource), onthisday.Options{Fallback: true})

	_, err := svc.People(context.Background(), time.February, 30)
	assert.ErrorIs(t, err, onthisday.ErrInvalidDate)
	_, err = svc.Events(context.Background(), 0, 1)
	assert.ErrorIs(t, err, onthisday.ErrInvalidDate)
}

// blockingSource counts upstream calls and holds them until released.
type blockingSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingSource) Births(context.Context, time.Month, int) ([]onthisday.FamousPerson, error) {
	return nil, nil
}

func (b *blockingSource) Deaths(context.Context, time.Month, int) ([]onthisday.FamousPerson, error) {
	return nil, nil
}

func (b *blockingSource) Events(context.Context, time.Month, int) ([]onthisday.HistoricalEvent, error) {
	b.calls.Add(1)
	<-b.release
	return []onthisday.HistoricalEvent{{Year: 2000}}, nil
}

func TestService_ConcurrentMissesShareOneFetch(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	svc := onthisday.NewService(src, onthisday.Options{TTL: time.Hour})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]onthisday.Events, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.Events(context.Background(), time.August, 8)
		}(i)
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	// Give the other callers time to join the in-flight load before it completes.
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	for _, r := range results {
		assert.Len(t, r.Items, 1)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestService_Prefetch(t *testing.T) {
	src := new(MockSource)
	src.On("Births", mock.Anything, time.October, 1).Return([]onthisday.FamousPerson{ada}, nil).Once()
	src.On("Deaths", mock.Anything, time.October, 1).Return([]onthisday.FamousPerson{}, nil).Once()
	src.On("Events", mock.Anything, time.October, 1).Return([]onthisday.HistoricalEvent{}, nil).Once()

	svc := onthisday.NewService(src, onthisday.Options{TTL: time.Hour})
	require.NoError(t, svc.Prefetch(context.Background(), time.October, 1))

	people, err := svc.People(context.Background(), time.October, 1)
	require.NoError(t, err)
	assert.Equal(t, []onthisday.FamousPerson{ada}, people.Items)
	src.AssertExpectations(t)
}
