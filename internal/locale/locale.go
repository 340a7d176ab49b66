// Package locale translates the user interface.
package locale

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed translation/*.toml
var translationFS embed.FS

// CookieName is the cookie holding the language picked by the user.
const CookieName = "lang"

const contextKey = "localizer"

// Bundle holds all translations.
type Bundle struct {
	bundle      *i18n.Bundle
	matcher     language.Matcher
	defaultLang language.Tag
}

// New loads the embedded translations. defaultLang is used when a client asks for no known language.
func New(defaultLang string) (*Bundle, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(translationFS, bundle); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}

	// the default language goes first so the matcher falls back to it
	tags := []language.Tag{tag}
	for _, t := range bundle.LanguageTags() {
		if t != tag {
			tags = append(tags, t)
		}
	}

	return &Bundle{
		bundle:      bundle,
		matcher:     language.NewMatcher(tags),
		defaultLang: tag,
	}, nil
}

func parseTranslationFiles(fsys fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(fsys, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
}

// Languages returns the base codes of all available languages, default first.
func (b *Bundle) Languages() []string {
	langs := []string{baseOf(b.defaultLang)}
	for _, t := range b.bundle.LanguageTags() {
		if t != b.defaultLang {
			langs = append(langs, baseOf(t))
		}
	}
	return langs
}

// Supports reports whether lang is one of the available languages.
func (b *Bundle) Supports(lang string) bool {
	for _, l := range b.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}

// Localizer returns a localizer for the preferred languages, which may be
// language codes or Accept-Language header values.
func (b *Bundle) Localizer(langs ...string) *Localizer {
	tag, _ := language.MatchStrings(b.matcher, langs...)
	return &Localizer{
		localizer: i18n.NewLocalizer(b.bundle, append(langs, b.defaultLang.String())...),
		lang:      baseOf(tag),
	}
}

// Middleware picks the language from the lang cookie or the Accept-Language header.
func (b *Bundle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie(CookieName); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		c.Set(contextKey, b.Localizer(lang))
		c.Next()
	}
}

// FromContext returns the localizer set by Middleware.
func FromContext(c *gin.Context) *Localizer {
	if l, ok := c.Get(contextKey); ok {
		if localizer, ok := l.(*Localizer); ok {
			return localizer
		}
	}
	return nil
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// Localizer translates messages into one language.
type Localizer struct {
	localizer *i18n.Localizer
	lang      string
}

// Lang returns the base code of the chosen language.
func (l *Localizer) Lang() string {
	if l == nil {
		return ""
	}
	return l.lang
}

// T translates the message id. args are key/value pairs for the message template.
// Unknown ids are returned unchanged.
func (l *Localizer) T(id string, args ...any) string {
	if l == nil {
		return id
	}

	var data map[string]any
	if len(args) > 0 {
		data = make(map[string]any, len(args)/2)
		for i := 0; i+1 < len(args); i += 2 {
			data[fmt.Sprint(args[i])] = args[i+1]
		}
	}

	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		log.Debug("Failed to localize message", "id", id, "error", err)
		return id
	}
	return msg
}
