// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"net/http"
	"slices"

	"github.com/olegiv/ocms-menus/internal/model"
)

// Tag names the kind of menu being rendered, as seen by hooks and page
// behaviours.
type Tag string

// Menu tags.
const (
	TagMain     Tag = "main_menu"
	TagFlat     Tag = "flat_menu"
	TagSection  Tag = "section_menu"
	TagChildren Tag = "children_menu"
	TagSub      Tag = "sub_menu"
)

// ContextualVals are the request-derived facts a menu renders against.
type ContextualVals struct {
	// ParentContext is handed to templates untouched.
	ParentContext map[string]any

	Request     *http.Request
	RequestPath string
	Language    string
	CurrentSite *model.Site

	CurrentLevel    int
	OriginalMenuTag Tag
	// OriginalMenu is the top-level menu a sub-menu descends from.
	OriginalMenu Menu

	CurrentPage            *model.Page
	CurrentSectionRoot     *model.Page
	CurrentPageAncestorIDs []int64
}

// IsCurrentPage reports whether page is the current page.
func (c ContextualVals) IsCurrentPage(page *model.Page) bool {
	return page != nil && c.CurrentPage != nil && page.ID == c.CurrentPage.ID
}

// IsAncestor reports whether id is one of the current page's ancestors.
func (c ContextualVals) IsAncestor(id int64) bool {
	return slices.Contains(c.CurrentPageAncestorIDs, id)
}

// OptionVals are the resolved options of one menu invocation.
type OptionVals struct {
	MaxLevels             int
	UseSpecific           model.UseSpecific
	ApplyActiveClasses    bool
	AllowRepeatingParents bool
	UseAbsolutePageURLs   bool
	AddSubMenusInline     bool

	ParentPage *model.Page
	Handle     string

	TemplateName         string
	SubMenuTemplateName  string
	SubMenuTemplateNames []string

	// Extra holds options only some menu kinds understand, such as
	// fall_back_to_default_site_menus and show_section_root.
	Extra map[string]any
}

// Keys of OptionVals.Extra.
const (
	ExtraFallBackToDefaultSiteMenus = "fall_back_to_default_site_menus"
	ExtraShowSectionRoot            = "show_section_root"
	ExtraShowMenuHeading            = "show_menu_heading"
)

// ExtraBool returns the boolean option key, or def when it is unset.
func (o OptionVals) ExtraBool(key string, def bool) bool {
	if v, ok := o.Extra[key].(bool); ok {
		return v
	}
	return def
}

// Options are the arguments of a menu invocation as a caller supplies them.
// Nil pointers and empty values take the menu's or the settings' defaults.
type Options struct {
	MaxLevels             *int
	UseSpecific           *model.UseSpecific
	ApplyActiveClasses    *bool
	AllowRepeatingParents *bool
	UseAbsolutePageURLs   bool
	AddSubMenusInline     *bool

	// ParentPage is the parent of a children menu.
	ParentPage *model.Page

	TemplateName         string
	SubMenuTemplateName  string
	SubMenuTemplateNames []string

	FallBackToDefaultSiteMenus *bool
	ShowSectionRoot            *bool
	ShowMenuHeading            bool

	Extra map[string]any
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Specific returns a pointer to u.
func Specific(u model.UseSpecific) *model.UseSpecific { return &u }

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}
