package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/zodiac"
)

// ContactSource points at a vCard collection: a local file or a remote URL.
type ContactSource struct {
	Path string
	URL  string
	User string // HTTP Basic Auth Username
	Pass string // HTTP Basic Auth Password
}

// ContactLoader reads vCards and turns every contact with a BDAY into a BirthdayEntry.
type ContactLoader struct {
	Clock   Clock
	Fetcher VCardFetcher
}

// Load opens the source and decodes it. Entries are sorted by next occurrence.
func (l *ContactLoader) Load(ctx context.Context, src ContactSource) ([]BirthdayEntry, error) {
	reader, err := l.open(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	clock := l.Clock
	if clock == nil {
		clock = RealClock{}
	}
	return DecodeContacts(ctx, reader, clock.Now())
}

func (l *ContactLoader) open(ctx context.Context, src ContactSource) (io.ReadCloser, error) {
	switch {
	case src.URL != "":
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, src.URL, src.User, src.Pass)
	case src.Path != "":
		return os.Open(src.Path)
	default:
		return nil, errors.New(config.ErrSourceMissing)
	}
}

// DecodeContacts parses a vCard stream relative to now.
// Malformed cards and unparsable BDAY values are skipped.
func DecodeContacts(ctx context.Context, r io.Reader, now time.Time) ([]BirthdayEntry, error) {
	decoder := vcard.NewDecoder(r)
	stats := struct{ processed, withBday int }{}
	var entries []BirthdayEntry

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyError, err)
			// The decoder cannot resynchronise after a syntax error.
			if !isCardError(err) {
				break
			}
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := ParseBirthday(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		entries = append(entries, NewBirthdayEntry(contactName(card), birthDate, yearKnown, now))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].NextOccurrence.Before(entries[j].NextOccurrence)
	})

	slog.Info(config.MsgContactsLoaded,
		config.LogKeyComponent, config.CompContacts,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
		),
	)
	return entries, nil
}

// NewBirthdayEntry builds the entry of a single person relative to now.
func NewBirthdayEntry(name string, birthDate time.Time, yearKnown bool, now time.Time) BirthdayEntry {
	input := fmt.Sprintf(config.FormatHashInput, name, birthDate.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))

	nextOcc, ageNext := calculateNextOccurrence(now, birthDate, yearKnown)

	entry := BirthdayEntry{
		UID:            fmt.Sprintf("%x", hash[:config.UIDHashLength]),
		Name:           name,
		DateOfBirth:    birthDate,
		YearKnown:      yearKnown,
		NextOccurrence: nextOcc,
		AgeNext:        ageNext,
		Sign:           zodiac.SignOf(birthDate),
	}
	if yearKnown {
		if age, err := Compute(birthDate, now); err == nil {
			entry.Age = &age
		}
	}
	return entry
}

// contactName prefers FN (Formatted) over N (Structured).
func contactName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && strings.TrimSpace(fn.Value) != "" {
		return fn.Value
	}
	if n := card.Name(); n != nil {
		parts := []string{n.HonorificPrefix, n.GivenName, n.AdditionalName, n.FamilyName, n.HonorificSuffix}
		var kept []string
		for _, p := range parts {
			if p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}
	return config.FallbackName
}

// isCardError reports whether err concerns a single card's content rather than
// the stream itself.
func isCardError(err error) bool {
	return !errors.Is(err, io.ErrUnexpectedEOF)
}

// calculateNextOccurrence determines the next birthday date relative to 'now'.
func calculateNextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	loc := now.Location()

	candidate := Anniversary(birthDate, now.Year(), loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		candidate = Anniversary(birthDate, now.Year()+1, loc)
	}

	ageNext := 0
	if yearKnown {
		ageNext = candidate.Year() - birthDate.Year()
	}
	return candidate, ageNext
}

// ParseBirthday handles the vCard BDAY formats. Year-less dates are placed in a
// leap year so that --02-29 survives.
func ParseBirthday(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
