// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/ocms-menus/internal/logging"
)

// MenuSettingsPrefix is prepended to every menu setting name.
const MenuSettingsPrefix = "OCMS_MENUS_"

// Default class and model names.
const (
	DefaultSectionMenuClass  = "menus.SectionMenu"
	DefaultChildrenMenuClass = "menus.ChildrenMenu"
	DefaultMainMenuModel     = "menus.MainMenu"
	DefaultFlatMenuModel     = "menus.FlatMenu"
)

// Page fields that may supply the default text of a menu item.
var PageTextFields = []string{"title", "seo_title", "draft_title", "slug", "translated_title"}

// MenuSettings holds the menu engine settings. Every field is read from an
// environment variable named MenuSettingsPrefix + the env tag.
type MenuSettings struct {
	ActiveClass         string `env:"ACTIVE_CLASS" envDefault:"active"`
	ActiveAncestorClass string `env:"ACTIVE_ANCESTOR_CLASS" envDefault:"ancestor"`
	SectionRootDepth    int    `env:"SECTION_ROOT_DEPTH" envDefault:"3"`

	MainMenuModel            string `env:"MAIN_MENU_MODEL" envDefault:"menus.MainMenu"`
	FlatMenuModel            string `env:"FLAT_MENU_MODEL" envDefault:"menus.FlatMenu"`
	MainMenuItemsRelatedName string `env:"MAIN_MENU_ITEMS_RELATED_NAME" envDefault:"menu_items"`
	FlatMenuItemsRelatedName string `env:"FLAT_MENU_ITEMS_RELATED_NAME" envDefault:"menu_items"`

	SectionMenuClass  string `env:"SECTION_MENU_CLASS"`
	ChildrenMenuClass string `env:"CHILDREN_MENU_CLASS"`

	DefaultMainMenuTemplate     string `env:"DEFAULT_MAIN_MENU_TEMPLATE" envDefault:"menus/main_menu.html"`
	DefaultFlatMenuTemplate     string `env:"DEFAULT_FLAT_MENU_TEMPLATE" envDefault:"menus/flat_menu.html"`
	DefaultSectionMenuTemplate  string `env:"DEFAULT_SECTION_MENU_TEMPLATE" envDefault:"menus/section_menu.html"`
	DefaultChildrenMenuTemplate string `env:"DEFAULT_CHILDREN_MENU_TEMPLATE" envDefault:"menus/children_menu.html"`
	DefaultSubMenuTemplate      string `env:"DEFAULT_SUB_MENU_TEMPLATE" envDefault:"menus/sub_menu.html"`
	SiteSpecificTemplateDirs    bool   `env:"SITE_SPECIFIC_TEMPLATE_DIRS" envDefault:"false"`

	PageFieldForMenuItemText  string   `env:"PAGE_FIELD_FOR_MENU_ITEM_TEXT" envDefault:"title"`
	GuessTreePositionFromPath bool     `env:"GUESS_TREE_POSITION_FROM_PATH" envDefault:"true"`
	FlatMenusHandleChoices    []string `env:"FLAT_MENUS_HANDLE_CHOICES" envSeparator:","`

	DefaultChildrenMenuMaxLevels   int  `env:"DEFAULT_CHILDREN_MENU_MAX_LEVELS" envDefault:"1"`
	DefaultSectionMenuMaxLevels    int  `env:"DEFAULT_SECTION_MENU_MAX_LEVELS" envDefault:"2"`
	DefaultChildrenMenuUseSpecific int  `env:"DEFAULT_CHILDREN_MENU_USE_SPECIFIC" envDefault:"1"`
	DefaultSectionMenuUseSpecific  int  `env:"DEFAULT_SECTION_MENU_USE_SPECIFIC" envDefault:"1"`
	DefaultAddSubMenusInline       bool `env:"DEFAULT_ADD_SUB_MENUS_INLINE" envDefault:"false"`

	FlatMenusFallBackToDefaultSiteMenus bool `env:"FLAT_MENUS_FALL_BACK_TO_DEFAULT_SITE_MENUS" envDefault:"false"`
}

// ConfigurationError reports an invalid menu setting.
type ConfigurationError struct {
	Setting string
	Msg     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s%s: %s", MenuSettingsPrefix, e.Setting, e.Msg)
}

// deprecatedSetting maps a retired setting name to its replacement.
type deprecatedSetting struct {
	old     string
	current string
	apply   func(s *MenuSettings, value string)
}

var deprecatedSettings = []deprecatedSetting{
	{
		old:     "SECTION_MENU_CLASS_PATH",
		current: "SECTION_MENU_CLASS",
		apply:   func(s *MenuSettings, v string) { s.SectionMenuClass = v },
	},
	{
		old:     "CHILDREN_MENU_CLASS_PATH",
		current: "CHILDREN_MENU_CLASS",
		apply:   func(s *MenuSettings, v string) { s.ChildrenMenuClass = v },
	},
}

// DefaultMenuSettings returns the settings used when no variable is set.
func DefaultMenuSettings() *MenuSettings {
	s, err := LoadMenuSettingsFrom(map[string]string{}, nil)
	if err != nil {
		// Defaults are static and always valid.
		panic(err)
	}
	return s
}

// LoadMenuSettings reads menu settings from the process environment.
func LoadMenuSettings(logger *slog.Logger) (*MenuSettings, error) {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, MenuSettingsPrefix) {
			environ[k] = v
		}
	}
	return LoadMenuSettingsFrom(environ, logger)
}

// LoadMenuSettingsFrom reads menu settings from the given variables. Current
// names win over deprecated ones; each deprecated name in use is reported
// once per process.
func LoadMenuSettingsFrom(environ map[string]string, logger *slog.Logger) (*MenuSettings, error) {
	s := &MenuSettings{}
	if err := env.ParseWithOptions(s, env.Options{
		Prefix:      MenuSettingsPrefix,
		Environment: environ,
	}); err != nil {
		return nil, fmt.Errorf("parsing menu settings: %w", err)
	}

	for _, d := range deprecatedSettings {
		oldValue, hasOld := environ[MenuSettingsPrefix+d.old]
		if !hasOld {
			continue
		}
		logging.WarnOnce(logger, "deprecated-setting:"+d.old,
			"menu setting is deprecated",
			"setting", MenuSettingsPrefix+d.old,
			"replacement", MenuSettingsPrefix+d.current,
		)
		if environ[MenuSettingsPrefix+d.current] == "" {
			d.apply(s, oldValue)
		}
	}

	if s.SectionMenuClass == "" {
		s.SectionMenuClass = DefaultSectionMenuClass
	}
	if s.ChildrenMenuClass == "" {
		s.ChildrenMenuClass = DefaultChildrenMenuClass
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MenuSettings) validate() error {
	if s.SectionRootDepth < 1 {
		return &ConfigurationError{Setting: "SECTION_ROOT_DEPTH", Msg: "must be 1 or greater"}
	}
	if !slices.Contains(PageTextFields, s.PageFieldForMenuItemText) {
		return &ConfigurationError{
			Setting: "PAGE_FIELD_FOR_MENU_ITEM_TEXT",
			Msg:     fmt.Sprintf("%q is not one of %s", s.PageFieldForMenuItemText, strings.Join(PageTextFields, ", ")),
		}
	}
	for name, v := range map[string]int{
		"DEFAULT_CHILDREN_MENU_MAX_LEVELS": s.DefaultChildrenMenuMaxLevels,
		"DEFAULT_SECTION_MENU_MAX_LEVELS":  s.DefaultSectionMenuMaxLevels,
	} {
		if v < 1 || v > 5 {
			return &ConfigurationError{Setting: name, Msg: fmt.Sprintf("%d is outside 1..5", v)}
		}
	}
	for name, v := range map[string]int{
		"DEFAULT_CHILDREN_MENU_USE_SPECIFIC": s.DefaultChildrenMenuUseSpecific,
		"DEFAULT_SECTION_MENU_USE_SPECIFIC":  s.DefaultSectionMenuUseSpecific,
	} {
		if v < 0 || v > 3 {
			return &ConfigurationError{Setting: name, Msg: fmt.Sprintf("%d is outside 0..3", v)}
		}
	}
	for i, h := range s.FlatMenusHandleChoices {
		s.FlatMenusHandleChoices[i] = strings.TrimSpace(h)
	}
	return nil
}

// AllowsFlatMenuHandle reports whether handle is acceptable under
// FLAT_MENUS_HANDLE_CHOICES. Any handle is allowed when no choices are set.
func (s *MenuSettings) AllowsFlatMenuHandle(handle string) bool {
	if len(s.FlatMenusHandleChoices) == 0 {
		return true
	}
	return slices.Contains(s.FlatMenusHandleChoices, handle)
}
