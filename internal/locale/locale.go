// Package locale loads the embedded translations and renders the user-facing
// sentences of the service in the caller's language.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tartampluch/birthday-insights/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog is the translation bundle and the languages it can serve.
type Catalog struct {
	bundle  *i18n.Bundle
	tags    []language.Tag
	matcher language.Matcher
}

// Load reads every locales/active.<lang>.json file. The default language is always
// offered first so it wins when nothing matches.
func Load() (*Catalog, error) {
	defaultTag := language.Make(config.DefaultLanguage)
	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc(config.LocaleFormatJSON, json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocaleDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	tags := []language.Tag{defaultTag}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.LocaleSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocalePrefix), config.LocaleSuffix)
		tag, err := language.Parse(langCode)
		if langCode == "" || err != nil {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocaleDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
		if tag.String() != defaultTag.String() {
			tags = append(tags, tag)
		}
	}

	rest := tags[1:]
	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })
	return &Catalog{
		bundle:  bundle,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Languages returns the language codes of the catalog, default first.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.tags))
	for _, t := range c.tags {
		out = append(out, t.String())
	}
	return out
}

// Match picks the best supported language. Each preference is a language code or an
// Accept-Language header value; earlier preferences win.
func (c *Catalog) Match(prefs ...string) language.Tag {
	var wanted []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		wanted = append(wanted, tags...)
	}
	_, idx, _ := c.matcher.Match(wanted...)
	return c.tags[idx]
}

// For is a shortcut for c.Translator(c.Match(prefs...)).
func (c *Catalog) For(prefs ...string) *Translator {
	return c.Translator(c.Match(prefs...))
}

func (c *Catalog) Translator(tag language.Tag) *Translator {
	return &Translator{
		tag:       tag,
		localizer: i18n.NewLocalizer(c.bundle, tag.String()),
		printer:   message.NewPrinter(tag),
	}
}
