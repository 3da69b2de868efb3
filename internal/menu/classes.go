// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/model"
)

// SectionMenuClass constructs the section menu rooted at root.
type SectionMenuClass func(e *Engine, root *model.Page) *SectionMenu

// ChildrenMenuClass constructs the children menu of parent.
type ChildrenMenuClass func(e *Engine, parent *model.Page) *ChildrenMenu

var (
	classesMu       sync.RWMutex
	sectionClasses  = map[string]SectionMenuClass{}
	childrenClasses = map[string]ChildrenMenuClass{}
)

func init() {
	RegisterSectionMenuClass(config.DefaultSectionMenuClass, NewSectionMenu)
	RegisterChildrenMenuClass(config.DefaultChildrenMenuClass, NewChildrenMenu)
}

// RegisterSectionMenuClass makes fn selectable through SECTION_MENU_CLASS.
func RegisterSectionMenuClass(name string, fn SectionMenuClass) {
	classesMu.Lock()
	defer classesMu.Unlock()
	sectionClasses[name] = fn
}

// RegisterChildrenMenuClass makes fn selectable through CHILDREN_MENU_CLASS.
func RegisterChildrenMenuClass(name string, fn ChildrenMenuClass) {
	classesMu.Lock()
	defer classesMu.Unlock()
	childrenClasses[name] = fn
}

func lookupClass[F any](registry map[string]F, setting, name string) (F, error) {
	classesMu.RLock()
	defer classesMu.RUnlock()

	if fn, ok := registry[name]; ok {
		return fn, nil
	}
	known := make([]string, 0, len(registry))
	for k := range registry {
		known = append(known, k)
	}
	sort.Strings(known)

	var zero F
	return zero, &config.ConfigurationError{
		Setting: setting,
		Msg:     fmt.Sprintf("menu class %q is not registered (known: %s)", name, strings.Join(known, ", ")),
	}
}
