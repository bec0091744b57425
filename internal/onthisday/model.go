package onthisday

import (
	"strings"

	"github.com/tartampluch/birthday-insights/internal/config"
)

// Kind names one of the on-this-day feeds.
type Kind string

const (
	KindBirths Kind = "births"
	KindDeaths Kind = "deaths"
	KindEvents Kind = "events"
)

// PersonType tells whether a person was born or died on the date.
type PersonType string

const (
	PersonBirth PersonType = "birth"
	PersonDeath PersonType = "death"
)

// ParsePersonType accepts "birth" or "death". The empty string means any type.
func ParsePersonType(s string) (PersonType, bool) {
	switch PersonType(s) {
	case PersonBirth, PersonDeath, "":
		return PersonType(s), true
	}
	return "", false
}

// Links holds the article URLs of an entry.
type Links struct {
	Desktop string `json:"desktop"`
	Mobile  string `json:"mobile"`
}

type FamousPerson struct {
	Name        string     `json:"name"`
	Year        int        `json:"year"`
	Description string     `json:"description"`
	Type        PersonType `json:"type"`
	ImageURL    string     `json:"image_url,omitempty"`
	Links       *Links     `json:"links,omitempty"`
}

type HistoricalEvent struct {
	Year        int    `json:"year"`
	Event       string `json:"event"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	Links       *Links `json:"links,omitempty"`
}

// People is the births and deaths of a calendar day.
type People struct {
	Items    []FamousPerson `json:"items"`
	Fallback bool           `json:"fallback"`
}

// Events is the historical events of a calendar day.
type Events struct {
	Items    []HistoricalEvent `json:"items"`
	Fallback bool              `json:"fallback"`
}

// Filter keeps the people of the given type. An empty type keeps everyone.
func (p People) Filter(t PersonType) []FamousPerson {
	if t == "" {
		return p.Items
	}
	out := make([]FamousPerson, 0, len(p.Items))
	for _, person := range p.Items {
		if person.Type == t {
			out = append(out, person)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Wire format
// -----------------------------------------------------------------------------

type feed struct {
	Births []feedEntry `json:"births"`
	Deaths []feedEntry `json:"deaths"`
	Events []feedEntry `json:"events"`
}

type feedEntry struct {
	Text  string     `json:"text"`
	Year  int        `json:"year"`
	Pages []feedPage `json:"pages"`
}

type feedPage struct {
	OriginalImage *feedImage `json:"originalimage"`
	Thumbnail     *feedImage `json:"thumbnail"`
	ContentURLs   *struct {
		Desktop *feedURL `json:"desktop"`
		Mobile  *feedURL `json:"mobile"`
	} `json:"content_urls"`
}

type feedImage struct {
	Source string `json:"source"`
}

type feedURL struct {
	Page string `json:"page"`
}

func (f feed) entries(kind Kind) []feedEntry {
	switch kind {
	case KindBirths:
		return f.Births
	case KindDeaths:
		return f.Deaths
	default:
		return f.Events
	}
}

func (p feedPage) image() string {
	if p.OriginalImage != nil && p.OriginalImage.Source != "" {
		return p.OriginalImage.Source
	}
	if p.Thumbnail != nil {
		return p.Thumbnail.Source
	}
	return ""
}

// media returns the first image found on any page and the links of the first page.
func (e feedEntry) media() (string, *Links) {
	var image string
	for _, p := range e.Pages {
		if image = p.image(); image != "" {
			break
		}
	}

	if len(e.Pages) == 0 || e.Pages[0].ContentURLs == nil {
		return image, nil
	}
	urls := e.Pages[0].ContentURLs
	links := &Links{}
	if urls.Desktop != nil {
		links.Desktop = urls.Desktop.Page
	}
	if urls.Mobile != nil {
		links.Mobile = urls.Mobile.Page
	}
	return image, links
}

// toPerson splits "Name, description, more" into name and the first description segment.
func (e feedEntry) toPerson(t PersonType) FamousPerson {
	parts := strings.Split(e.Text, config.PersonSeparator)
	desc := config.DefaultPersonDesc
	if len(parts) > 1 {
		if d := strings.TrimSpace(parts[1]); d != "" {
			desc = d
		}
	}
	image, links := e.media()
	return FamousPerson{
		Name:        strings.TrimSpace(parts[0]),
		Year:        e.Year,
		Description: desc,
		Type:        t,
		ImageURL:    image,
		Links:       links,
	}
}

// toEvent splits "Title – description" on the en dash separator.
func (e feedEntry) toEvent() HistoricalEvent {
	title, desc := e.Text, e.Text
	parts := strings.Split(e.Text, config.EventSeparator)
	if parts[0] != "" {
		title = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		desc = parts[1]
	}
	image, links := e.media()
	return HistoricalEvent{
		Year:        e.Year,
		Event:       title,
		Description: desc,
		ImageURL:    image,
		Links:       links,
	}
}
