// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"fmt"
	"regexp"
)

// UseSpecific controls when pages are downcast to their specific type.
type UseSpecific int

// Use-specific levels, in increasing order.
const (
	UseSpecificOff UseSpecific = iota
	UseSpecificAuto
	UseSpecificTopLevel
	UseSpecificAlways
)

// Bounds of a menu's max_levels.
const (
	MinMaxLevels = 1
	MaxMaxLevels = 5
)

// Menu defaults for newly created persisted menus.
const (
	DefaultMainMenuMaxLevels = 2
	DefaultFlatMenuMaxLevels = 1
	DefaultMenuUseSpecific   = UseSpecificAuto
)

// Valid reports whether u is one of the defined levels.
func (u UseSpecific) Valid() bool {
	return u >= UseSpecificOff && u <= UseSpecificAlways
}

func (u UseSpecific) String() string {
	switch u {
	case UseSpecificOff:
		return "off"
	case UseSpecificAuto:
		return "auto"
	case UseSpecificTopLevel:
		return "top_level"
	case UseSpecificAlways:
		return "always"
	default:
		return fmt.Sprintf("UseSpecific(%d)", int(u))
	}
}

// ValidMaxLevels reports whether n is an accepted max_levels value.
func ValidMaxLevels(n int) bool {
	return n >= MinMaxLevels && n <= MaxMaxLevels
}

// MenuKind identifies the persisted menu type that owns an item.
type MenuKind string

// Persisted menu kinds.
const (
	MenuKindMain MenuKind = "main"
	MenuKindFlat MenuKind = "flat"
)

// MenuTables names the tables backing one persisted menu model.
type MenuTables struct {
	Menus string
	Items string
}

// MainMenu is the single main menu of a site.
type MainMenu struct {
	ID          int64
	SiteID      int64
	MaxLevels   int
	UseSpecific UseSpecific
}

// FlatMenu is a named menu of a site.
type FlatMenu struct {
	ID          int64
	SiteID      int64
	Title       string
	Handle      string
	Heading     string
	MaxLevels   int
	UseSpecific UseSpecific
}

// MenuItem links a persisted menu to a page or a custom URL.
type MenuItem struct {
	ID          int64
	MenuID      int64
	LinkPageID  sql.NullInt64
	LinkURL     string
	LinkText    string
	URLAppend   string
	Handle      string
	AllowSubnav bool
	SortOrder   int

	// LinkPage is the page LinkPageID refers to, set when items are loaded
	// for display.
	LinkPage *Page
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Validation messages shared by menus and the API.
const (
	MsgInvalidSlug      = "Enter a valid 'slug' consisting of letters, numbers, underscores or hyphens."
	MsgRequired         = "This field is required."
	MsgChooseOneLink    = "Choose one link type only."
	MsgChooseLink       = "Please choose an internal or external link."
	MsgLinkTextRequired = "This must be set if you're linking to a custom URL."
	MsgDuplicateHandle  = "Site and handle must create a unique combination. A menu already exists with these same two values."
)

// IsSlug reports whether s is a non-empty slug of ASCII letters, digits,
// underscores or hyphens.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// MenuText returns the text an item shows. pageText supplies the text of
// a linked page when no link text is set.
func (i *MenuItem) MenuText(pageText func(*Page) string) string {
	if i.LinkText != "" {
		return i.LinkText
	}
	if i.LinkPage != nil && pageText != nil {
		return pageText(i.LinkPage)
	}
	if i.LinkPage != nil {
		return i.LinkPage.Title
	}
	return ""
}

// IsCustomURL reports whether the item links to a URL rather than a page.
func (i *MenuItem) IsCustomURL() bool {
	return !i.LinkPageID.Valid
}

// Clean validates the link fields of the item.
func (i *MenuItem) Clean() error {
	verr := NewValidationError()
	switch {
	case i.LinkPageID.Valid && i.LinkURL != "":
		verr.Add("link_page", MsgChooseOneLink)
		verr.Add("link_url", MsgChooseOneLink)
	case !i.LinkPageID.Valid && i.LinkURL == "":
		verr.Add("link_page", MsgChooseLink)
		verr.Add("link_url", MsgChooseLink)
	case i.LinkURL != "" && i.LinkText == "":
		verr.Add("link_text", MsgLinkTextRequired)
	}
	return verr.Err()
}

func cleanLevels(verr *ValidationError, maxLevels int, useSpecific UseSpecific) {
	if !ValidMaxLevels(maxLevels) {
		verr.Add("max_levels", fmt.Sprintf("Ensure this value is between %d and %d.", MinMaxLevels, MaxMaxLevels))
	}
	if !useSpecific.Valid() {
		verr.Add("use_specific", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", int(useSpecific)))
	}
}

// Clean validates the menu's fields.
func (m *MainMenu) Clean() error {
	verr := NewValidationError()
	cleanLevels(verr, m.MaxLevels, m.UseSpecific)
	return verr.Err()
}

// Clean validates the menu's fields. allowHandle restricts handles to a
// configured set; nil accepts any slug.
func (m *FlatMenu) Clean(allowHandle func(string) bool) error {
	verr := NewValidationError()
	switch {
	case m.Handle == "":
		verr.Add("handle", MsgRequired)
	case !IsSlug(m.Handle):
		verr.Add("handle", MsgInvalidSlug)
	case allowHandle != nil && !allowHandle(m.Handle):
		verr.Add("handle", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", m.Handle))
	}
	if m.Title == "" {
		verr.Add("title", MsgRequired)
	}
	cleanLevels(verr, m.MaxLevels, m.UseSpecific)
	return verr.Err()
}
