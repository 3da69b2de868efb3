// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render loads named HTML templates from an embedded file system,
// optionally overlaid by a directory on disk.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/olegiv/ocms-menus/internal/util"
)

// DefaultCacheSize is the number of parsed templates kept by default.
const DefaultCacheSize = 256

// TemplateNotFoundError is returned when none of the candidate names exists.
type TemplateNotFoundError struct {
	Names []string
}

func (e *TemplateNotFoundError) Error() string {
	return "template not found, tried: " + strings.Join(e.Names, ", ")
}

// Config holds loader configuration.
type Config struct {
	// FS holds the built-in templates.
	FS fs.FS
	// Dir overrides templates in FS with files of the same name. Optional.
	Dir string
	// Funcs are made available to every template. They must be set before
	// parsing, so funcs that need per-render state read it from the data.
	Funcs template.FuncMap
	// CacheSize bounds the parsed template cache. Zero means DefaultCacheSize.
	CacheSize int
	// NoCache reparses templates on every lookup.
	NoCache bool
	Logger  *slog.Logger
}

// Loader resolves template names to parsed templates. Parsed templates are
// never executed by the loader, so the ones it returns may be executed
// concurrently.
type Loader struct {
	fs      fs.FS
	dir     string
	funcs   template.FuncMap
	noCache bool
	logger  *slog.Logger

	// A nil value records a name known to be missing.
	cache *lru.Cache[string, *template.Template]
}

// NewLoader creates a Loader.
func NewLoader(cfg Config) (*Loader, error) {
	if cfg.FS == nil && cfg.Dir == "" {
		return nil, errors.New("render: no template source configured")
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *template.Template](size)
	if err != nil {
		return nil, fmt.Errorf("creating template cache: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	funcs := baseFuncs()
	for k, v := range cfg.Funcs {
		funcs[k] = v
	}

	return &Loader{
		fs:      cfg.FS,
		dir:     cfg.Dir,
		funcs:   funcs,
		noCache: cfg.NoCache,
		logger:  logger,
		cache:   c,
	}, nil
}

// Load returns the template called name.
func (l *Loader) Load(name string) (*template.Template, error) {
	t, err := l.lookup(name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &TemplateNotFoundError{Names: []string{name}}
	}
	return t, nil
}

// Select returns the first of names that exists.
func (l *Loader) Select(names []string) (*template.Template, error) {
	for _, name := range names {
		t, err := l.lookup(name)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
	}
	return nil, &TemplateNotFoundError{Names: names}
}

// Purge drops every parsed template.
func (l *Loader) Purge() {
	l.cache.Purge()
}

// lookup returns nil, nil for a missing template.
func (l *Loader) lookup(name string) (*template.Template, error) {
	cleaned, err := util.CleanTemplateName(name)
	if err != nil {
		return nil, err
	}
	if !l.noCache {
		if t, ok := l.cache.Get(cleaned); ok {
			return t, nil
		}
	}

	src, err := l.read(cleaned)
	if errors.Is(err, fs.ErrNotExist) {
		l.cache.Add(cleaned, nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", cleaned, err)
	}

	t, err := template.New(cleaned).Funcs(l.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", cleaned, err)
	}
	l.cache.Add(cleaned, t)
	l.logger.Debug("template parsed", "name", cleaned)
	return t, nil
}

func (l *Loader) read(name string) ([]byte, error) {
	if l.dir != "" {
		p, err := util.SafeJoinPath(l.dir, name)
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(p)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return b, err
		}
	}
	if l.fs == nil {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(l.fs, name)
}

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
	}
}
