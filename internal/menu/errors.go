// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

// Error is a menu sentinel error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotPrepared is returned by Items, Render and Serialize on a menu
	// that has not been prepared, or whose preparation was already used up.
	ErrNotPrepared Error = "menu: not prepared for rendering"

	// ErrNoSite is returned when a menu that belongs to a site is requested
	// without a current site.
	ErrNoSite Error = "menu: no current site"
)

// SubMenuUsageError is returned by the sub_menu template func when it is
// called with data that did not come from a menu render.
type SubMenuUsageError struct{}

func (SubMenuUsageError) Error() string {
	return "sub_menu can only be used in a template rendered by a menu; " +
		"call it as {{ sub_menu . $item }} with the menu's own data as the first argument"
}
