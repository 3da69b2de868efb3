// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/model"
)

// MenuModel binds a menu model name to its tables.
type MenuModel struct {
	Name string
	Kind model.MenuKind
	// Menus is the table holding the menus.
	Menus string
	// Items maps item related names to item tables.
	Items map[string]string
}

var (
	modelsMu sync.RWMutex
	models   = map[string]MenuModel{}
)

func init() {
	RegisterMenuModel(MenuModel{
		Name:  config.DefaultMainMenuModel,
		Kind:  model.MenuKindMain,
		Menus: "main_menus",
		Items: map[string]string{"menu_items": "main_menu_items"},
	})
	RegisterMenuModel(MenuModel{
		Name:  config.DefaultFlatMenuModel,
		Kind:  model.MenuKindFlat,
		Menus: "flat_menus",
		Items: map[string]string{"menu_items": "flat_menu_items"},
	})
}

// RegisterMenuModel makes a menu model available to the MAIN_MENU_MODEL and
// FLAT_MENU_MODEL settings. Registering a name again replaces it.
func RegisterMenuModel(m MenuModel) {
	modelsMu.Lock()
	defer modelsMu.Unlock()
	models[m.Name] = m
}

// MenuModelNames returns the registered model names in sorted order.
func MenuModelNames() []string {
	modelsMu.RLock()
	defer modelsMu.RUnlock()
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resolveMenuTables(kind model.MenuKind, setting, name, relSetting, related string) (model.MenuTables, error) {
	modelsMu.RLock()
	m, ok := models[name]
	modelsMu.RUnlock()

	if !ok {
		return model.MenuTables{}, &config.ConfigurationError{
			Setting: setting,
			Msg:     fmt.Sprintf("model %q is not registered (known: %s)", name, strings.Join(MenuModelNames(), ", ")),
		}
	}
	if m.Kind != kind {
		return model.MenuTables{}, &config.ConfigurationError{
			Setting: setting,
			Msg:     fmt.Sprintf("model %q is a %s menu model, not a %s menu model", name, m.Kind, kind),
		}
	}
	items, ok := m.Items[related]
	if !ok {
		return model.MenuTables{}, &config.ConfigurationError{
			Setting: relSetting,
			Msg:     fmt.Sprintf("model %q has no item relation named %q", name, related),
		}
	}
	return model.MenuTables{Menus: m.Menus, Items: items}, nil
}

// ResolveMainMenuTables returns the tables of the configured main menu model.
func ResolveMainMenuTables(s *config.MenuSettings) (model.MenuTables, error) {
	return resolveMenuTables(model.MenuKindMain,
		"MAIN_MENU_MODEL", s.MainMenuModel,
		"MAIN_MENU_ITEMS_RELATED_NAME", s.MainMenuItemsRelatedName)
}

// ResolveFlatMenuTables returns the tables of the configured flat menu model.
func ResolveFlatMenuTables(s *config.MenuSettings) (model.MenuTables, error) {
	return resolveMenuTables(model.MenuKindFlat,
		"FLAT_MENU_MODEL", s.FlatMenuModel,
		"FLAT_MENU_ITEMS_RELATED_NAME", s.FlatMenuItemsRelatedName)
}
