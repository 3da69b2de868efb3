// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n translates the messages the menus API returns and resolves
// the language a request is served in.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// fallbackLang is the catalog used when neither the requested nor the
// default language has a message.
const fallbackLang = "en"

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds the loaded translations and the languages the site serves.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	languages    []string
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

var catalog *Catalog

// Init loads every bundled catalog and records the languages the site
// serves. Languages without a bundled catalog fall back to the default
// language's messages.
func Init(languages []string, defaultLang string, logger *slog.Logger) error {
	if len(languages) == 0 {
		languages = []string{fallbackLang}
	}
	if defaultLang == "" {
		defaultLang = languages[0]
	}

	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  strings.ToLower(defaultLang),
		logger:       logger,
	}

	tags := make([]language.Tag, 0, len(languages))
	for _, lang := range languages {
		tag, err := language.Parse(lang)
		if err != nil {
			return fmt.Errorf("invalid language %q: %w", lang, err)
		}
		tags = append(tags, tag)
		c.languages = append(c.languages, strings.ToLower(lang))
	}
	c.supported = tags
	c.matcher = language.NewMatcher(tags)

	bundled, err := fs.ReadDir(localesFS, "locales")
	if err != nil {
		return fmt.Errorf("reading locales: %w", err)
	}
	for _, entry := range bundled {
		if !entry.IsDir() {
			continue
		}
		if err := c.loadLanguage(entry.Name()); err != nil {
			return fmt.Errorf("failed to load language %s: %w", entry.Name(), err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", c.languages, "default", c.defaultLang)
	}
	return nil
}

// loadLanguage loads translations for a specific language.
func (c *Catalog) loadLanguage(lang string) error {
	p := path.Join("locales", lang, "messages.json")
	data, err := localesFS.ReadFile(p)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", p, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", p, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}
	return nil
}

// lookup tries lang, then its base language, then the default and
// fallback catalogs.
func (c *Catalog) lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lang = strings.ToLower(lang)
	candidates := []string{lang}
	if base, _, ok := strings.Cut(lang, "-"); ok {
		candidates = append(candidates, base)
	}
	candidates = append(candidates, c.defaultLang, fallbackLang)

	for i, l := range candidates {
		if msg, ok := c.translations[l][key]; ok {
			if i > 0 && c.logger != nil {
				c.logger.Debug("missing translation, using fallback", "key", key, "lang", lang, "used", l)
			}
			return msg, true
		}
	}
	return "", false
}

// T translates a message key to the specified language.
// If the key is not found, it returns the key itself.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}
	msg, ok := catalog.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Languages returns the languages the site serves.
func Languages() []string {
	if catalog == nil {
		return []string{fallbackLang}
	}
	return catalog.languages
}

// DefaultLanguage returns the language used when a request names none.
func DefaultLanguage() string {
	if catalog == nil {
		return fallbackLang
	}
	return catalog.defaultLang
}

// MatchLanguage finds the best matching served language for an
// Accept-Language header or a single language code.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return fallbackLang
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return catalog.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := catalog.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(catalog.languages) {
		return catalog.defaultLang
	}
	return catalog.languages[idx]
}

// IsSupported reports whether the site serves lang.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, l := range Languages() {
		if l == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	return len(catalog.translations[lang])
}

type ctxKey struct{}

// WithLanguage returns a copy of ctx carrying lang.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the language stored in ctx, or the default language.
func FromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLanguage()
}
