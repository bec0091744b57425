package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OrdinalLabel renders n with English thousands separators and ordinal suffix:
// 1 → "1st", 11 → "11th", 121 → "121st", 1000 → "1,000th".
func OrdinalLabel(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n) + OrdinalSuffix(n)
}

// OrdinalSuffix returns the English ordinal suffix of n.
// The 11-13 range takes "th" regardless of the last digit, in every hundred.
func OrdinalSuffix(n int) string {
	if n < 0 {
		n = -n
	}
	switch n % 100 {
	case 11, 12, 13:
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
