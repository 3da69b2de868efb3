// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package richtext turns editor-entered Markdown, such as flat menu
// headings, into HTML that is safe to place in a template.
package richtext

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// sanitizer allows the tags user-generated content may carry and strips
// scripts, event handlers and the like.
var sanitizer = bluemonday.UGCPolicy()

// Raw HTML passes through goldmark so the sanitizer decides what stays.
var markdown = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))

// Render converts Markdown to sanitized HTML. Raw HTML in the source is
// sanitized rather than dropped.
func Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.Sanitize(buf.String())), nil //nolint:gosec // sanitized above
}

// RenderInline is Render for text shown inside an element of its own,
// like a heading: a lone paragraph loses its <p> wrapper.
func RenderInline(src string) (template.HTML, error) {
	h, err := Render(src)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(h))
	if inner, ok := strings.CutPrefix(s, "<p>"); ok {
		if inner, ok = strings.CutSuffix(inner, "</p>"); ok && !strings.Contains(inner, "<p>") {
			s = inner
		}
	}
	return template.HTML(s), nil //nolint:gosec // sanitized by Render
}
