// Package zodiac maps calendar days to tropical zodiac signs and serves the
// static horoscope readings attached to each sign.
package zodiac

import (
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
)

// Sign is the English name of a zodiac sign.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
	Unknown     Sign = "Unknown"
)

// boundary is the first day of a sign. A sign runs until the day before the next boundary.
type boundary struct {
	month time.Month
	day   int
	sign  Sign
}

// boundaries is ordered by calendar day; Capricorn wraps around the new year.
var boundaries = []boundary{
	{time.January, 20, Aquarius},
	{time.February, 19, Pisces},
	{time.March, 21, Aries},
	{time.April, 20, Taurus},
	{time.May, 21, Gemini},
	{time.June, 21, Cancer},
	{time.July, 23, Leo},
	{time.August, 23, Virgo},
	{time.September, 23, Libra},
	{time.October, 23, Scorpio},
	{time.November, 22, Sagittarius},
	{time.December, 22, Capricorn},
}

// SignFor returns the sign of a month/day pair, or Unknown when the pair is not
// a day of the (leap) calendar.
func SignFor(month time.Month, day int) Sign {
	if month < time.January || month > time.December || day < 1 || day > daysIn(month) {
		return Unknown
	}
	sign := Capricorn
	for _, b := range boundaries {
		if month > b.month || (month == b.month && day >= b.day) {
			sign = b.sign
		}
	}
	return sign
}

// SignOf returns the sign of t's calendar day.
func SignOf(t time.Time) Sign {
	return SignFor(t.Month(), t.Day())
}

// Signs lists the twelve signs in calendar order starting with Capricorn.
func Signs() []Sign {
	out := make([]Sign, 0, len(boundaries))
	out = append(out, Capricorn)
	for _, b := range boundaries[:len(boundaries)-1] {
		out = append(out, b.sign)
	}
	return out
}

// daysIn uses a leap year so that Feb 29 is accepted.
func daysIn(month time.Month) int {
	return time.Date(config.DefaultLeapYear, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
