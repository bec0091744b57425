package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/onthisday"
)

const queryTag = "query"

// validate reports failures under the query parameter name.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get(queryTag)
	})
	return v
}()

type birthQuery struct {
	Birth string `query:"birth" validate:"required,datetime=2006-01-02"`
	At    string `query:"at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Name  string `query:"name" validate:"max=128"`
	Lang  string `query:"lang" validate:"omitempty,max=35"`
}

type listQuery struct {
	Type    string `query:"type" validate:"omitempty,oneof=birth death"`
	Page    int    `query:"page" validate:"gte=0,lte=100000"`
	PerPage int    `query:"per_page" validate:"gte=0,lte=100"`
}

// queryError carries the message returned to the client.
type queryError struct {
	msg string
}

func (e *queryError) Error() string { return e.msg }

func invalidParam(name string) error {
	return &queryError{msg: fmt.Sprintf("%s: %s", config.ErrInvalidQuery, name)}
}

func checkQuery(q any) error {
	if err := validate.Struct(q); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return invalidParam(fields[0].Field())
		}
		return &queryError{msg: config.ErrInvalidQuery}
	}
	return nil
}

func parseBirthQuery(r *http.Request) (birthQuery, error) {
	values := r.URL.Query()
	q := birthQuery{
		Birth: values.Get(config.QueryBirth),
		At:    values.Get(config.QueryAt),
		Name:  values.Get(config.QueryName),
		Lang:  values.Get(config.QueryLang),
	}
	return q, checkQuery(&q)
}

// birthIn reads the birth date as midnight in loc. The query is already validated.
func (q birthQuery) birthIn(loc *time.Location) (time.Time, error) {
	birth, err := time.ParseInLocation(config.DateFormatFullDash, q.Birth, loc)
	if err != nil {
		return time.Time{}, invalidParam(config.QueryBirth)
	}
	return birth, nil
}

func parseListQuery(r *http.Request) (listQuery, error) {
	values := r.URL.Query()
	q := listQuery{Type: values.Get(config.QueryType)}

	var err error
	if q.Page, err = optionalInt(values.Get(config.QueryPage)); err != nil {
		return q, invalidParam(config.QueryPage)
	}
	if q.PerPage, err = optionalInt(values.Get(config.QueryPerPage)); err != nil {
		return q, invalidParam(config.QueryPerPage)
	}
	return q, checkQuery(&q)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// dateParams reads the {month}/{day} path segments.
func dateParams(r *http.Request) (time.Month, int, error) {
	month, err := strconv.Atoi(chi.URLParam(r, config.ParamMonth))
	if err != nil {
		return 0, 0, invalidParam(config.ParamMonth)
	}
	day, err := strconv.Atoi(chi.URLParam(r, config.ParamDay))
	if err != nil {
		return 0, 0, invalidParam(config.ParamDay)
	}
	if !onthisday.ValidDate(time.Month(month), day) {
		return 0, 0, fmt.Errorf("%w: %02d-%02d", onthisday.ErrInvalidDate, month, day)
	}
	return time.Month(month), day, nil
}
