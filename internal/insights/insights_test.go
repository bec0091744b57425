package insights_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/insights"
	"github.com/tartampluch/birthday-insights/internal/locale"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
	"github.com/tartampluch/birthday-insights/internal/zodiac"
)

type MockFacts struct {
	mock.Mock
}

func (m *MockFacts) People(ctx context.Context, month time.Month, day int) (onthisday.People, error) {
	args := m.Called(ctx, month, day)
	return args.Get(0).(onthisday.People), args.Error(1)
}

func (m *MockFacts) Events(ctx context.Context, month time.Month, day int) (onthisday.Events, error) {
	args := m.Called(ctx, month, day)
	return args.Get(0).(onthisday.Events), args.Error(1)
}

func newService(t *testing.T, now time.Time, facts insights.Facts) *insights.Service {
	t.Helper()
	catalog, err := locale.Load()
	require.NoError(t, err)
	return &insights.Service{Clock: engine.FixedClock(now), Facts: facts, Catalog: catalog}
}

func TestReport(t *testing.T) {
	people := onthisday.People{Items: []onthisday.FamousPerson{{Name: "Ada Lovelace", Year: 1815, Type: onthisday.PersonBirth}}}
	events := onthisday.Events{Items: []onthisday.HistoricalEvent{{Year: 1969, Event: "Moon"}}, Fallback: true}

	facts := new(MockFacts)
	facts.On("People", mock.Anything, time.March, 15).Return(people, nil)
	facts.On("Events", mock.Anything, time.March, 15).Return(events, nil)

	svc := newService(t, time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC), facts)
	report, err := svc.Report(context.Background(), time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "1990-03-15", report.BirthDate)
	assert.Equal(t, "en", report.Language)
	assert.Equal(t, 35, report.Age.Years)
	assert.Equal(t, 3, report.Age.Months)
	assert.Equal(t, 5, report.Age.Days)
	assert.Equal(t, zodiac.Pisces, report.Zodiac.Sign)
	assert.NotEmpty(t, report.Zodiac.Horoscope)
	assert.Equal(t, people, report.People)
	assert.True(t, report.Events.Fallback)

	assert.Equal(t, "2026-03-15", report.NextBirthday)
	assert.Equal(t, 268, report.DaysUntilBirthday)

	assert.Equal(t, "35 years, 3 months and 5 days", report.Summary.Age)
	assert.Equal(t, "Today is your 12,882nd day on Earth", report.Summary.DayOfLife)
	assert.Len(t, report.Summary.TimeOnEarth, 4)
	assert.Equal(t, "268 days until your next birthday", report.Summary.Countdown)
	assert.Equal(t, "Your sign is Pisces", report.Summary.Zodiac)
	facts.AssertExpectations(t)
}

func TestReport_French(t *testing.T) {
	facts := new(MockFacts)
	facts.On("People", mock.Anything, mock.Anything, mock.Anything).Return(onthisday.People{}, nil)
	facts.On("Events", mock.Anything, mock.Anything, mock.Anything).Return(onthisday.Events{}, nil)

	svc := newService(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), facts)
	report, err := svc.Report(context.Background(), time.Date(2024, time.June, 18, 0, 0, 0, 0, time.UTC), "", "fr-FR,fr;q=0.9")
	require.NoError(t, err)

	assert.Equal(t, "fr", report.Language)
	assert.Equal(t, "1 an, 0 mois et 2 jours", report.Summary.Age)
}

func TestReport_FutureBirth(t *testing.T) {
	facts := new(MockFacts)
	svc := newService(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), facts)

	_, err := svc.Report(context.Background(), time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
	assert.True(t, insights.IsFutureBirth(err))
	facts.AssertNotCalled(t, "People", mock.Anything, mock.Anything, mock.Anything)
}

func TestReport_FactsFailure(t *testing.T) {
	boom := errors.New("boom")
	facts := new(MockFacts)
	facts.On("People", mock.Anything, mock.Anything, mock.Anything).Return(onthisday.People{}, boom)
	facts.On("Events", mock.Anything, mock.Anything, mock.Anything).Return(onthisday.Events{}, nil).Maybe()

	svc := newService(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), facts)
	_, err := svc.Report(context.Background(), time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, boom)
	assert.False(t, insights.IsFutureBirth(err))
}
