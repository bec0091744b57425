package onthisday

import (
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
)

var fallbackPeople = []FamousPerson{
	{Name: "Albert Einstein", Year: 1879, Description: "Theoretical physicist, developed theory of relativity", Type: PersonBirth},
	{Name: "Leonardo da Vinci", Year: 1452, Description: "Renaissance artist and inventor", Type: PersonBirth},
	{Name: "Marie Curie", Year: 1867, Description: "First woman to win Nobel Prize", Type: PersonBirth},
	{Name: "William Shakespeare", Year: 1564, Description: "English playwright and poet", Type: PersonBirth},
	{Name: "Nelson Mandela", Year: 1918, Description: "Anti-apartheid leader and former president", Type: PersonBirth},
	{Name: "John F. Kennedy", Year: 1963, Description: "35th President of the United States", Type: PersonDeath},
	{Name: "Princess Diana", Year: 1997, Description: "Princess of Wales, humanitarian", Type: PersonDeath},
	{Name: "Martin Luther King Jr.", Year: 1968, Description: "Civil rights leader and activist", Type: PersonDeath},
	{Name: "Frida Kahlo", Year: 1907, Description: "Mexican artist known for self-portraits", Type: PersonBirth},
	{Name: "Stephen Hawking", Year: 1942, Description: "Theoretical physicist and cosmologist", Type: PersonBirth},
}

var fallbackEvents = []HistoricalEvent{
	{Year: 1969, Event: "Apollo 11 Moon Landing", Description: "First humans landed on the moon"},
	{Year: 1989, Event: "Fall of Berlin Wall", Description: "Symbol of Cold War division comes down"},
	{Year: 1776, Event: "Declaration of Independence", Description: "American colonies declare independence"},
	{Year: 1945, Event: "End of World War II", Description: "Japan surrenders, ending WWII"},
	{Year: 1963, Event: "March on Washington", Description: "Historic civil rights demonstration"},
}

// FallbackPeople returns the built-in people list rotated by the date, so each day
// shows a stable selection.
func FallbackPeople(month time.Month, day int) []FamousPerson {
	return rotate(fallbackPeople, seed(month, day), config.FallbackPeopleCount)
}

// FallbackEvents returns the built-in events rotated by the date.
func FallbackEvents(month time.Month, day int) []HistoricalEvent {
	return rotate(fallbackEvents, seed(month, day), config.FallbackEventsCount)
}

func seed(month time.Month, day int) int {
	return int(month)*config.FallbackSeedMonth + day
}

// rotate returns n items of list starting at offset, wrapping around. The result is a copy.
func rotate[T any](list []T, offset, n int) []T {
	if len(list) == 0 {
		return []T{}
	}
	n = min(n, len(list))
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, list[(offset+i)%len(list)])
	}
	return out
}
