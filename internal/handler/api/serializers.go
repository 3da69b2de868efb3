// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"

	"github.com/olegiv/ocms-menus/internal/menu"
)

// IndexJSON links to each menu endpoint.
type IndexJSON struct {
	MainMenu     string `json:"main_menu"`
	FlatMenu     string `json:"flat_menu"`
	SectionMenu  string `json:"section_menu"`
	ChildrenMenu string `json:"children_menu"`
}

// MainMenuJSON is the main menu response.
type MainMenuJSON struct {
	Site  int64           `json:"site"`
	Items []menu.ItemJSON `json:"items"`
}

// FlatMenuJSON is the flat menu response.
type FlatMenuJSON struct {
	Site    int64           `json:"site"`
	Handle  string          `json:"handle"`
	Title   string          `json:"title"`
	Heading string          `json:"heading"`
	Items   []menu.ItemJSON `json:"items"`
}

// ChildrenMenuJSON is the children menu response.
type ChildrenMenuJSON struct {
	ParentPage *menu.PageJSON  `json:"parent_page"`
	Items      []menu.ItemJSON `json:"items"`
}

// SectionRootJSON is the section root page as a menu item.
type SectionRootJSON struct {
	menu.PageJSON
	Text        string `json:"text"`
	Href        string `json:"href"`
	ActiveClass string `json:"active_class"`
}

// SectionMenuJSON is the section menu response.
type SectionMenuJSON struct {
	SectionRoot SectionRootJSON `json:"section_root"`
	Items       []menu.ItemJSON `json:"items"`
}

func serializeMainMenu(ctx context.Context, m *menu.MainMenu) (*MainMenuJSON, error) {
	items, err := m.Serialize(ctx)
	if err != nil {
		return nil, err
	}
	return &MainMenuJSON{Site: m.Record.SiteID, Items: items}, nil
}

func serializeFlatMenu(ctx context.Context, m *menu.FlatMenu) (*FlatMenuJSON, error) {
	items, err := m.Serialize(ctx)
	if err != nil {
		return nil, err
	}
	return &FlatMenuJSON{
		Site:    m.Record.SiteID,
		Handle:  m.Record.Handle,
		Title:   m.Record.Title,
		Heading: m.Record.Heading,
		Items:   items,
	}, nil
}

func serializeChildrenMenu(ctx context.Context, m *menu.ChildrenMenu) (*ChildrenMenuJSON, error) {
	items, err := m.Serialize(ctx)
	if err != nil {
		return nil, err
	}
	return &ChildrenMenuJSON{ParentPage: menu.NewPageJSON(m.Parent), Items: items}, nil
}

func serializeSectionMenu(ctx context.Context, m *menu.SectionMenu) (*SectionMenuJSON, error) {
	// The root item reads the primed items, so it comes before Serialize
	// uses the preparation up.
	root, err := m.RootItem(ctx)
	if err != nil {
		return nil, err
	}
	items, err := m.Serialize(ctx)
	if err != nil {
		return nil, err
	}
	return &SectionMenuJSON{
		SectionRoot: SectionRootJSON{
			PageJSON:    *menu.NewPageJSON(m.Root),
			Text:        root.Text,
			Href:        root.Href,
			ActiveClass: root.ActiveClass,
		},
		Items: items,
	}, nil
}
