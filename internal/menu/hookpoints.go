// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"github.com/olegiv/ocms-menus/internal/hooks"
	"github.com/olegiv/ocms-menus/internal/model"
)

// HookArgs is passed to every menu hook alongside the value being mutated.
type HookArgs struct {
	Menu        Menu
	Tag         Tag
	OriginalTag Tag
	Contextual  ContextualVals
	Options     OptionVals
}

// Hook points. Handlers run in priority order, then registration order, and
// each receives the previous handler's result.
var (
	// ModifyBasePageQuery narrows the pages any menu may show.
	ModifyBasePageQuery = hooks.Point[model.PageQuery, HookArgs]{Name: "menus_modify_base_page_queryset"}

	// ModifyBaseMenuItemQuery narrows the items of main and flat menus.
	ModifyBaseMenuItemQuery = hooks.Point[model.MenuItemQuery, HookArgs]{Name: "menus_modify_base_menuitem_queryset"}

	// ModifyRawMenuItems sees each item list before priming.
	ModifyRawMenuItems = hooks.Point[[]*Item, HookArgs]{Name: "menus_modify_raw_menu_items"}

	// ModifyPrimedMenuItems sees each item list after priming.
	ModifyPrimedMenuItems = hooks.Point[[]*Item, HookArgs]{Name: "menus_modify_primed_menu_items"}
)
