package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/birthday-insights/internal/config"
)

// CalendarBuilder renders birthday entries as an iCalendar feed.
// The feed covers the previous, current and next year: yearly birthday events
// plus day-of-life milestones (every config.MilestoneEvery days).
type CalendarBuilder struct {
	// FormatSummary lets callers inject localized birthday titles.
	FormatSummary func(name string, age int, yearKnown bool) string

	// FormatMilestone lets callers inject localized milestone titles.
	FormatMilestone func(name string, dayOfLife int) string
}

// Build encodes the feed. An empty entry list yields a minimal valid VCALENDAR.
func (b *CalendarBuilder) Build(entries []BirthdayEntry, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, entry := range entries {
		events := b.birthdayEvents(entry, now)
		events = append(events, b.milestoneEvents(entry, now)...)
		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

// birthdayEvents generates one event per year of the window, never before birth.
func (b *CalendarBuilder) birthdayEvents(entry BirthdayEntry, now time.Time) []*ical.Event {
	currentYear := now.Year()
	loc := now.Location()
	birth := entry.DateOfBirth

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if entry.YearKnown && y < birth.Year() {
			continue
		}

		age := 0
		if entry.YearKnown {
			age = y - birth.Year()
		}

		summary := fmt.Sprintf(config.FallbackSummary, entry.Name)
		if b.FormatSummary != nil {
			summary = b.FormatSummary(entry.Name, age, entry.YearKnown)
		} else if entry.YearKnown {
			if age == 0 {
				summary = fmt.Sprintf(config.FallbackSummaryBirth, entry.Name)
			} else {
				summary = fmt.Sprintf(config.FallbackSummaryAge, entry.Name, age)
			}
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, entry.UID, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.PropCategories, config.CategoryBirthday)

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(Anniversary(birth, y, loc))
		event.Props.Set(dtStart)

		events = append(events, event)
	}
	return events
}

// milestoneEvents emits the multiples of config.MilestoneEvery whose day of life
// falls inside the three-year window. Day N of life is the birth date plus N-1 days.
func (b *CalendarBuilder) milestoneEvents(entry BirthdayEntry, now time.Time) []*ical.Event {
	if !entry.YearKnown {
		return nil
	}
	loc := now.Location()
	birth := time.Date(entry.DateOfBirth.Year(), entry.DateOfBirth.Month(), entry.DateOfBirth.Day(), 0, 0, 0, 0, loc)
	windowStart := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
	windowEnd := time.Date(now.Year()+2, time.January, 1, 0, 0, 0, 0, loc)

	first := 1
	if birth.Before(windowStart) {
		first = wholeDays(birth, windowStart) + 1
	}
	n := ((first + config.MilestoneEvery - 1) / config.MilestoneEvery) * config.MilestoneEvery

	var events []*ical.Event
	for ; ; n += config.MilestoneEvery {
		date := birth.AddDate(0, 0, n-1)
		if !date.Before(windowEnd) {
			break
		}

		summary := fmt.Sprintf(config.FallbackMilestone, entry.Name, OrdinalLabel(n))
		if b.FormatMilestone != nil {
			summary = b.FormatMilestone(entry.Name, n)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUIDDay, entry.UID, n, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.PropCategories, config.CategoryMilestone)

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(date)
		event.Props.Set(dtStart)

		events = append(events, event)
	}
	return events
}
