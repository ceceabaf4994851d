// Package i18n holds the translation tables and the current language.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Supported languages.
const (
	English    = "en"
	Vietnamese = "vi"
)

// Fallback is used when a key is missing from the requested table and when
// language detection finds no English preference.
const Fallback = Vietnamese

//go:embed locales/*.yaml
var localeFS embed.FS

// ErrUnsupportedLanguage is returned for language tags other than en and vi.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Provider maps a language tag to a flat key→string table and tracks the
// active language.
type Provider struct {
	bundle *goi18n.Bundle
	tables map[string]map[string]string

	mu       sync.RWMutex
	language string
}

// New loads the embedded tables. lang becomes the active language; an
// unsupported value falls back to Fallback.
func New(lang string) (*Provider, error) {
	p := &Provider{
		bundle: goi18n.NewBundle(language.Vietnamese),
		tables: make(map[string]map[string]string),
	}

	for _, l := range []string{English, Vietnamese} {
		if err := p.load(l); err != nil {
			return nil, err
		}
	}

	if normalized, ok := Normalize(lang); ok {
		p.language = normalized
	} else {
		p.language = Fallback
	}
	return p, nil
}

func (p *Provider) load(lang string) error {
	name := path.Join("locales", "active."+lang+".yaml")
	data, err := localeFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	table := make(map[string]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	messages := make([]*goi18n.Message, 0, len(table))
	for id, text := range table {
		messages = append(messages, &goi18n.Message{ID: id, Other: text})
	}
	if err := p.bundle.AddMessages(language.MustParse(lang), messages...); err != nil {
		return fmt.Errorf("failed to add %s messages: %w", lang, err)
	}

	p.tables[lang] = table
	return nil
}

// Language returns the active language.
func (p *Provider) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.language
}

// SetLanguage switches the active language.
func (p *Provider) SetLanguage(lang string) error {
	normalized, ok := Normalize(lang)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	p.mu.Lock()
	p.language = normalized
	p.mu.Unlock()
	return nil
}

// T looks key up in the active language.
func (p *Provider) T(key string) string {
	return p.Lookup(p.Language(), key, nil)
}

// Lookup returns the translation of key in lang, rendering data into the
// message template. Missing keys fall back to the Fallback table and then
// to the key itself.
func (p *Provider) Lookup(lang, key string, data map[string]any) string {
	if normalized, ok := Normalize(lang); ok {
		lang = normalized
	} else {
		lang = Fallback
	}

	for _, l := range []string{lang, Fallback} {
		if _, ok := p.tables[l][key]; !ok {
			continue
		}
		text, err := goi18n.NewLocalizer(p.bundle, l).Localize(&goi18n.LocalizeConfig{
			MessageID:    key,
			TemplateData: data,
		})
		if err == nil {
			return text
		}
	}
	return key
}

// Table returns a copy of the raw table for lang.
func (p *Provider) Table(lang string) (map[string]string, error) {
	normalized, ok := Normalize(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	src := p.tables[normalized]
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out, nil
}

// Keys returns the sorted keys of lang's table.
func (p *Provider) Keys(lang string) []string {
	keys := make([]string, 0, len(p.tables[lang]))
	for k := range p.tables[lang] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Supported returns the supported language tags.
func Supported() []string {
	return []string{English, Vietnamese}
}

// Normalize reduces a BCP 47 tag such as "en-US" to a supported base
// language.
func Normalize(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := parsed.Base()
	switch base.String() {
	case English:
		return English, true
	case Vietnamese:
		return Vietnamese, true
	}
	return "", false
}

// Detect picks a language from an Accept-Language header: English when the
// most preferred tag is English, Vietnamese otherwise.
func Detect(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Fallback
	}
	if base, _ := tags[0].Base(); base.String() == English {
		return English
	}
	return Vietnamese
}
