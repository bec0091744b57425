package zodiac

import "time"

// Reading is the horoscope attached to a sign.
type Reading struct {
	Sign         Sign     `json:"sign"`
	Horoscope    string   `json:"horoscope"`
	Traits       []string `json:"traits"`
	LuckyNumbers []int    `json:"lucky_numbers"`
	LuckyColor   string   `json:"lucky_color"`
}

var readings = map[Sign]Reading{
	Aries: {
		Horoscope:    "Today brings new opportunities for leadership and innovation. Your natural enthusiasm will inspire others around you.",
		Traits:       []string{"Leadership", "Enthusiasm", "Courage", "Independence"},
		LuckyNumbers: []int{1, 8, 17},
		LuckyColor:   "Red",
	},
	Taurus: {
		Horoscope:    "Focus on stability and practical matters today. Your patience and determination will lead to lasting success.",
		Traits:       []string{"Reliability", "Patience", "Practicality", "Determination"},
		LuckyNumbers: []int{2, 6, 20},
		LuckyColor:   "Green",
	},
	Gemini: {
		Horoscope:    "Communication and learning are highlighted today. Embrace new ideas and social connections.",
		Traits:       []string{"Adaptability", "Communication", "Curiosity", "Wit"},
		LuckyNumbers: []int{3, 12, 21},
		LuckyColor:   "Yellow",
	},
	Cancer: {
		Horoscope:    "Emotional intuition guides you today. Trust your feelings and nurture important relationships.",
		Traits:       []string{"Empathy", "Intuition", "Loyalty", "Creativity"},
		LuckyNumbers: []int{4, 7, 22},
		LuckyColor:   "Silver",
	},
	Leo: {
		Horoscope:    "Your natural charisma shines bright today. Take center stage and inspire others with your confidence.",
		Traits:       []string{"Confidence", "Generosity", "Leadership", "Creativity"},
		LuckyNumbers: []int{5, 19, 23},
		LuckyColor:   "Gold",
	},
	Virgo: {
		Horoscope:    "Attention to detail and organization will serve you well today. Perfect timing for important projects.",
		Traits:       []string{"Perfectionism", "Analytical", "Helpful", "Organized"},
		LuckyNumbers: []int{6, 15, 24},
		LuckyColor:   "Navy Blue",
	},
	Libra: {
		Horoscope:    "Balance and harmony are key today. Your diplomatic nature will help resolve conflicts peacefully.",
		Traits:       []string{"Balance", "Diplomacy", "Fairness", "Charm"},
		LuckyNumbers: []int{7, 16, 25},
		LuckyColor:   "Pink",
	},
	Scorpio: {
		Horoscope:    "Deep transformation and powerful insights await you today. Trust your instincts completely.",
		Traits:       []string{"Intensity", "Passion", "Intuition", "Determination"},
		LuckyNumbers: []int{8, 18, 26},
		LuckyColor:   "Deep Red",
	},
	Sagittarius: {
		Horoscope:    "Adventure and expansion call to you today. Embrace new philosophies and broaden your horizons.",
		Traits:       []string{"Adventure", "Optimism", "Freedom", "Wisdom"},
		LuckyNumbers: []int{9, 14, 27},
		LuckyColor:   "Purple",
	},
	Capricorn: {
		Horoscope:    "Discipline and ambition drive you toward success today. Your hard work will soon pay off.",
		Traits:       []string{"Ambition", "Discipline", "Responsibility", "Patience"},
		LuckyNumbers: []int{10, 13, 28},
		LuckyColor:   "Brown",
	},
	Aquarius: {
		Horoscope:    "Innovation and humanitarian causes inspire you today. Your unique vision can change the world.",
		Traits:       []string{"Innovation", "Independence", "Humanitarian", "Originality"},
		LuckyNumbers: []int{11, 22, 29},
		LuckyColor:   "Electric Blue",
	},
	Pisces: {
		Horoscope:    "Compassion and creativity flow through you today. Trust your artistic and spiritual instincts.",
		Traits:       []string{"Compassion", "Intuition", "Creativity", "Spirituality"},
		LuckyNumbers: []int{12, 24, 30},
		LuckyColor:   "Sea Green",
	},
}

// Horoscope returns a copy of the reading of sign. ok is false for Unknown.
func Horoscope(sign Sign) (Reading, bool) {
	r, ok := readings[sign]
	if !ok {
		return Reading{Sign: Unknown}, false
	}
	r.Sign = sign
	r.Traits = append([]string(nil), r.Traits...)
	r.LuckyNumbers = append([]int(nil), r.LuckyNumbers...)
	return r, true
}

// ReadingFor returns the reading of the sign t falls under.
func ReadingFor(t time.Time) Reading {
	r, _ := Horoscope(SignOf(t))
	return r
}
