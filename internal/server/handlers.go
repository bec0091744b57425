package server

import (
	"net/http"
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/locale"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
	"github.com/tartampluch/birthday-insights/internal/zodiac"
)

type ageResponse struct {
	BirthDate   string              `json:"birth_date"`
	At          string              `json:"at"`
	Language    string              `json:"language"`
	Age         engine.AgeBreakdown `json:"age"`
	Sign        zodiac.Sign         `json:"sign"`
	Summary     string              `json:"summary"`
	DayOfLife   string              `json:"day_of_life"`
	TimeOnEarth []string            `json:"time_on_earth"`
}

type listResponse[T any] struct {
	onthisday.Page[T]
	Fallback bool `json:"fallback"`
}

func (s *Server) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Server) translator(r *http.Request, lang string) *locale.Translator {
	return s.Catalog.For(lang, r.Header.Get(config.HeaderAcceptLanguage), s.Language)
}

func (s *Server) pageSize(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.PageSize
}

func (s *Server) handleAge(w http.ResponseWriter, r *http.Request) {
	q, err := parseBirthQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	now := s.now()
	birth, err := q.birthIn(now.Location())
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	at := now
	if q.At != "" {
		if at, err = time.Parse(config.DateFormatRFC3339, q.At); err != nil {
			writeFailure(w, r, invalidParam(config.QueryAt))
			return
		}
	}

	age, err := engine.Compute(birth, at)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	tr := s.translator(r, q.Lang)
	w.Header().Set(config.HeaderContentLanguage, tr.Lang())
	writeJSON(w, http.StatusOK, ageResponse{
		BirthDate:   birth.Format(config.DateFormatFullDash),
		At:          at.Format(config.DateFormatRFC3339),
		Language:    tr.Lang(),
		Age:         age,
		Sign:        zodiac.SignOf(birth),
		Summary:     tr.AgeSummary(age),
		DayOfLife:   tr.DayOfLife(age.DayOfLife),
		TimeOnEarth: tr.TimeOnEarth(age),
	})
}

func (s *Server) handleZodiac(w http.ResponseWriter, r *http.Request) {
	month, day, err := dateParams(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	reading, ok := zodiac.Horoscope(zodiac.SignFor(month, day))
	if !ok {
		writeError(w, http.StatusBadRequest, config.ErrInvalidDate)
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	month, day, err := dateParams(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	q, err := parseListQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	personType, _ := onthisday.ParsePersonType(q.Type)

	people, err := s.Facts.People(r.Context(), month, day)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[onthisday.FamousPerson]{
		Page:     onthisday.Paginate(people.Filter(personType), q.Page, s.pageSize(q.PerPage)),
		Fallback: people.Fallback,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	month, day, err := dateParams(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	q, err := parseListQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	events, err := s.Facts.Events(r.Context(), month, day)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[onthisday.HistoricalEvent]{
		Page:     onthisday.Paginate(events.Items, q.Page, s.pageSize(q.PerPage)),
		Fallback: events.Fallback,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	q, err := parseBirthQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	birth, err := q.birthIn(s.now().Location())
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	report, err := s.Insights.Report(r.Context(), birth, q.Lang, r.Header.Get(config.HeaderAcceptLanguage), s.Language)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set(config.HeaderContentLanguage, report.Language)
	writeJSON(w, http.StatusOK, report)
}

// handleCalendar renders the birthday and milestone calendar of a single person.
// The document is built as of the start of the current day, so its ETag only
// changes once a day.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q, err := parseBirthQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	now := s.now()
	birth, err := q.birthIn(now.Location())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if birth.After(day) {
		writeFailure(w, r, engine.ErrInvalidRange)
		return
	}

	name := q.Name
	if name == "" {
		name = config.FallbackName
	}
	tr := s.translator(r, q.Lang)
	entry := engine.NewBirthdayEntry(name, birth, true, day)

	data, err := tr.CalendarBuilder().Build([]engine.BirthdayEntry{entry}, day)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set(config.HeaderContentLanguage, tr.Lang())
	serveCalendar(w, r, newCacheItem(data, day))
}
