// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
)

// PathStepLen is the width of one materialized path segment.
const PathStepLen = 4

// Content types of pages. The content type decides which specific data a
// page carries once downcast.
const (
	ContentTypePage     = "pages.Page"
	ContentTypeMenuPage = "menus.MenuPage"
	ContentTypeLinkPage = "menus.LinkPage"
)

// Page is a generic row of the page tree.
type Page struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	Depth       int    `json:"depth"`
	NumChild    int    `json:"numchild"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	SeoTitle    string `json:"seo_title"`
	DraftTitle  string `json:"draft_title"`
	URLPath     string `json:"url_path"`
	ContentType string `json:"content_type"`
	Live        bool   `json:"live"`
	Expired     bool   `json:"expired"`
	ShowInMenus bool   `json:"show_in_menus"`

	// Specific holds the content-type data after a downcast. It is nil
	// until the page has been downcast.
	Specific any `json:"-"`
}

// PlainPage is the specific data of pages whose type adds no fields.
type PlainPage struct{}

// MenuPageFields is the specific data of a menus.MenuPage.
type MenuPageFields struct {
	RepeatInSubnav   bool
	RepeatedItemText string
}

// LinkPageFields is the specific data of a menus.LinkPage.
type LinkPageFields struct {
	LinkPageID   sql.NullInt64
	LinkURL      string
	URLAppend    string
	ExtraClasses string

	// Target is the page LinkPageID points at, resolved during downcast.
	Target *Page
}

// ShowInMenus reports whether a link page should appear in menus. A link to
// a page that is missing or not live is hidden.
func (l *LinkPageFields) ShowInMenus() bool {
	if l.LinkPageID.Valid {
		return l.Target != nil && l.Target.Live && !l.Target.Expired
	}
	return true
}

// ParentPath returns the path of the page's parent.
func (p *Page) ParentPath() string {
	if len(p.Path) < PathStepLen {
		return ""
	}
	return p.Path[:len(p.Path)-PathStepLen]
}

// IsDescendantOf reports whether p sits below other in the tree.
func (p *Page) IsDescendantOf(other *Page) bool {
	return p.Depth > other.Depth && strings.HasPrefix(p.Path, other.Path)
}

// IsSpecific reports whether the page has been downcast.
func (p *Page) IsSpecific() bool {
	return p.Specific != nil
}

// MenuPage returns the page's menu page data, if it is a downcast menu page.
func (p *Page) MenuPage() (*MenuPageFields, bool) {
	f, ok := p.Specific.(*MenuPageFields)
	return f, ok
}

// LinkPage returns the page's link page data, if it is a downcast link page.
func (p *Page) LinkPage() (*LinkPageFields, bool) {
	f, ok := p.Specific.(*LinkPageFields)
	return f, ok
}

// TextField returns the value of a named text field. Unknown names and
// empty values fall back to the title. translated_title is resolved by the
// caller, so here it also yields the title.
func (p *Page) TextField(name string) string {
	var v string
	switch name {
	case "seo_title":
		v = p.SeoTitle
	case "draft_title":
		v = p.DraftTitle
	case "slug":
		v = p.Slug
	default:
		v = p.Title
	}
	if v == "" {
		return p.Title
	}
	return v
}
