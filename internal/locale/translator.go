package locale

import (
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/zodiac"
)

// Translator renders messages and numbers for one language.
type Translator struct {
	tag       language.Tag
	localizer *i18n.Localizer
	printer   *message.Printer
}

// Lang returns the base language code, e.g. "fr".
func (t *Translator) Lang() string {
	base, _ := t.tag.Base()
	return base.String()
}

func (t *Translator) Tag() language.Tag {
	return t.tag
}

// Msg translates key. Missing keys come back as the key itself.
func (t *Translator) Msg(key string, data map[string]any, count any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  count,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, t.tag.String(),
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		// Messages missing in this language resolve to the default language.
		if msg == "" {
			return key
		}
	}
	return msg
}

// Number formats n with the grouping of the language.
func (t *Translator) Number(n int64) string {
	return t.printer.Sprintf("%d", n)
}

// Ordinal renders n as an ordinal: "1st", "1,000th" in English, "1er", "2e" in French.
func (t *Translator) Ordinal(n int) string {
	if t.Lang() == "fr" {
		if n == 1 {
			return "1er"
		}
		return t.Number(int64(n)) + "e"
	}
	return t.Number(int64(n)) + engine.OrdinalSuffix(n)
}

func (t *Translator) counted(key string, n int64) string {
	return t.Msg(key, map[string]any{"Count": t.Number(n)}, n)
}

// AgeSummary renders "35 years, 3 months and 5 days".
func (t *Translator) AgeSummary(b engine.AgeBreakdown) string {
	return t.Msg(config.TKeyAgeSummary, map[string]any{
		"Years":  t.counted(config.TKeyAgeYears, int64(b.Years)),
		"Months": t.counted(config.TKeyAgeMonths, int64(b.Months)),
		"Days":   t.counted(config.TKeyAgeDays, int64(b.Days)),
	}, nil)
}

func (t *Translator) DayOfLife(n int) string {
	return t.Msg(config.TKeyDayOfLife, map[string]any{"Ordinal": t.Ordinal(n)}, nil)
}

// TimeOnEarth lists the elapsed days, hours, minutes and seconds.
func (t *Translator) TimeOnEarth(b engine.AgeBreakdown) []string {
	return []string{
		t.counted(config.TKeyTotalDays, int64(b.TotalDays)),
		t.counted(config.TKeyTotalHours, b.TotalHours),
		t.counted(config.TKeyTotalMinutes, b.TotalMinutes),
		t.counted(config.TKeyTotalSeconds, b.TotalSeconds),
	}
}

// Countdown renders the days left until the next birthday.
func (t *Translator) Countdown(days int) string {
	return t.counted(config.TKeyCelebration, int64(days))
}

func (t *Translator) ZodiacLine(sign zodiac.Sign) string {
	return t.Msg(config.TKeyZodiacLine, map[string]any{"Sign": string(sign)}, nil)
}

// EventSummary titles a birthday calendar event. Plugs into engine.CalendarBuilder.
func (t *Translator) EventSummary(name string, age int, yearKnown bool) string {
	switch {
	case !yearKnown:
		return t.Msg(config.TKeyEvtSummary, map[string]any{"Name": name}, nil)
	case age == 0:
		return t.Msg(config.TKeyEvtSummaryBirth, map[string]any{"Name": name}, nil)
	default:
		return t.Msg(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age}, nil)
	}
}

// Milestone titles a day-of-life calendar event. Plugs into engine.CalendarBuilder.
func (t *Translator) Milestone(name string, dayOfLife int) string {
	return t.Msg(config.TKeyEvtMilestone, map[string]any{"Name": name, "Ordinal": t.Ordinal(dayOfLife)}, nil)
}

// CalendarBuilder returns a builder whose event titles use this language.
func (t *Translator) CalendarBuilder() *engine.CalendarBuilder {
	return &engine.CalendarBuilder{
		FormatSummary:   t.EventSummary,
		FormatMilestone: t.Milestone,
	}
}
