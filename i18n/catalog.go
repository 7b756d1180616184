// Package i18n provides a YAML-backed goservice.Translator.
//
// Catalog files are keyed by locale at the top level and nest translation
// scopes below it:
//
//	en:
//	  actions:
//	    failure: "Something went wrong"
//	    billing/charge_card:
//	      declined: "Your card was declined"
//
// Nested keys are flattened with dots, so the example above defines
// "actions.failure" and "actions.billing/charge_card.declined" for locale "en".
package i18n

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sasha-s/go-deadlock"
	"gopkg.in/yaml.v3"

	"github.com/davidroman0O/goservice"
)

// ErrInvalidCatalog is returned when a catalog document does not map locales to scopes.
var ErrInvalidCatalog = errors.New("i18n: invalid catalog")

// Catalog holds translations for any number of locales.
// It is safe for concurrent use.
type Catalog struct {
	mu             deadlock.RWMutex
	locale         string
	fallbackLocale string
	messages       map[string]map[string]string
}

var _ goservice.Translator = (*Catalog)(nil)

// Option configures a Catalog
type Option func(*Catalog)

// WithFallbackLocale sets the locale consulted when the active locale has no
// translation for any candidate key.
func WithFallbackLocale(locale string) Option {
	return func(c *Catalog) {
		c.fallbackLocale = locale
	}
}

// New creates an empty catalog translating into locale.
func New(locale string, opts ...Option) *Catalog {
	c := &Catalog{
		locale:   locale,
		messages: make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load creates a catalog translating into locale from the given files.
func Load(locale string, paths []string, opts ...Option) (*Catalog, error) {
	c := New(locale, opts...)
	for _, path := range paths {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFile merges the translations of a YAML file into the catalog.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("i18n: read %s: %w", path, err)
	}
	if err := c.LoadBytes(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadBytes merges the translations of a YAML document into the catalog.
// Later documents overwrite earlier translations of the same key.
func (c *Catalog) LoadBytes(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("i18n: parse catalog: %w", err)
	}

	parsed := make(map[string]map[string]string, len(doc))
	for locale, tree := range doc {
		scopes, ok := tree.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: locale %q is not a mapping", ErrInvalidCatalog, locale)
		}
		flat := make(map[string]string)
		flatten("", scopes, flat)
		parsed[locale] = flat
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for locale, flat := range parsed {
		existing, ok := c.messages[locale]
		if !ok {
			existing = make(map[string]string, len(flat))
			c.messages[locale] = existing
		}
		for k, v := range flat {
			existing[k] = v
		}
	}
	return nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Add registers a single translation.
func (c *Catalog) Add(locale, key, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.messages[locale] == nil {
		c.messages[locale] = make(map[string]string)
	}
	c.messages[locale][key] = message
}

// Locale returns the active locale.
func (c *Catalog) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// SetLocale switches the active locale.
func (c *Catalog) SetLocale(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = locale
}

// Locales returns the loaded locales in lexical order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	locales := make([]string, 0, len(c.messages))
	for l := range c.messages {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Lookup returns the translation of key in locale, without fallbacks.
func (c *Catalog) Lookup(locale, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msg, ok := c.messages[locale][key]
	return msg, ok
}

// Translate implements goservice.Translator. It tries key then each default
// in the active locale, then the same chain in the fallback locale, and
// returns key itself when nothing matches.
func (c *Catalog) Translate(key string, defaults []string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	locales := []string{c.locale}
	if c.fallbackLocale != "" && c.fallbackLocale != c.locale {
		locales = append(locales, c.fallbackLocale)
	}

	for _, locale := range locales {
		messages := c.messages[locale]
		if messages == nil {
			continue
		}
		if msg, ok := messages[key]; ok {
			return msg
		}
		for _, d := range defaults {
			if msg, ok := messages[d]; ok {
				return msg
			}
		}
	}
	return key
}
