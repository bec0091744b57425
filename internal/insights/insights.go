// Package insights assembles everything known about a birth date: the age
// breakdown, the zodiac reading and what happened on that calendar day.
package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/locale"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
	"github.com/tartampluch/birthday-insights/internal/zodiac"
)

// Facts provides the on-this-day lists. *onthisday.Service implements it.
type Facts interface {
	People(ctx context.Context, month time.Month, day int) (onthisday.People, error)
	Events(ctx context.Context, month time.Month, day int) (onthisday.Events, error)
}

type Report struct {
	BirthDate         string              `json:"birth_date"`
	Language          string              `json:"language"`
	Age               engine.AgeBreakdown `json:"age"`
	Zodiac            zodiac.Reading      `json:"zodiac"`
	NextBirthday      string              `json:"next_birthday"`
	DaysUntilBirthday int                 `json:"days_until_birthday"`
	People            onthisday.People    `json:"people"`
	Events            onthisday.Events    `json:"events"`
	Summary           Summary             `json:"summary"`
}

// Summary holds the localized sentences of a report.
type Summary struct {
	Age         string   `json:"age"`
	DayOfLife   string   `json:"day_of_life"`
	TimeOnEarth []string `json:"time_on_earth"`
	Countdown   string   `json:"countdown"`
	Zodiac      string   `json:"zodiac"`
}

type Service struct {
	Clock   engine.Clock
	Facts   Facts
	Catalog *locale.Catalog
}

// Report builds the insights of birth. prefs are language preferences as accepted by
// locale.Catalog.Match. A birth after the service clock's now fails with
// engine.ErrInvalidRange.
func (s *Service) Report(ctx context.Context, birth time.Time, prefs ...string) (Report, error) {
	now := s.Clock.Now()
	age, err := engine.Compute(birth, now)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", config.ErrFutureBirth, err)
	}

	month, day := birth.Month(), birth.Day()
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompInsights),
		slog.String(config.LogKeyDate, birth.Format(time.DateOnly)),
	)

	var (
		reading zodiac.Reading
		people  onthisday.People
		events  onthisday.Events
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, ok := zodiac.Horoscope(zodiac.SignFor(month, day))
		if !ok {
			return fmt.Errorf("%w: %02d-%02d", onthisday.ErrInvalidDate, int(month), day)
		}
		reading = r
		return nil
	})
	g.Go(func() error {
		var err error
		people, err = s.Facts.People(gctx, month, day)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.Facts.Events(gctx, month, day)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn(config.MsgRequestFailed, slog.Any(config.LogKeyError, err))
		return Report{}, err
	}

	entry := engine.NewBirthdayEntry("", birth, true, now)
	tr := s.Catalog.For(prefs...)

	return Report{
		BirthDate:         birth.Format(time.DateOnly),
		Language:          tr.Lang(),
		Age:               age,
		Zodiac:            reading,
		NextBirthday:      entry.NextOccurrence.Format(time.DateOnly),
		DaysUntilBirthday: entry.DaysUntil(now),
		People:            people,
		Events:            events,
		Summary: Summary{
			Age:         tr.AgeSummary(age),
			DayOfLife:   tr.DayOfLife(age.DayOfLife),
			TimeOnEarth: tr.TimeOnEarth(age),
			Countdown:   tr.Countdown(entry.DaysUntil(now)),
			Zodiac:      tr.ZodiacLine(reading.Sign),
		},
	}, nil
}

// IsFutureBirth reports whether err was caused by a birth date after now.
func IsFutureBirth(err error) bool {
	return errors.Is(err, engine.ErrInvalidRange)
}
