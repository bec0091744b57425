package engine

import (
	"time"

	"github.com/tartampluch/birthday-insights/internal/zodiac"
)

// BirthdayEntry is one contact with a birthday, enriched with its age statistics.
type BirthdayEntry struct {
	// UID is a deterministic hash of name and birth date, stable across reloads.
	UID string `json:"uid"`

	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`

	// YearKnown is false for vCard dates of the form --MM-DD.
	YearKnown bool `json:"year_known"`

	// NextOccurrence is the birthday in the current or next year, the sort key of listings.
	NextOccurrence time.Time `json:"next_occurrence"`

	// AgeNext is the age reached at NextOccurrence. Only valid if YearKnown is true.
	AgeNext int `json:"age_next"`

	// Age is nil when the year is unknown or the birth date lies in the future.
	Age *AgeBreakdown `json:"age,omitempty"`

	Sign zodiac.Sign `json:"sign"`
}

// DaysUntil counts the calendar days from now to NextOccurrence, 0 on the birthday itself.
func (e BirthdayEntry) DaysUntil(now time.Time) int {
	return int((civilDay(e.NextOccurrence) - civilDay(now.In(e.NextOccurrence.Location()))) / secondsPerDay)
}
