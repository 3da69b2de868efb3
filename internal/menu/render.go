// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/olegiv/ocms-menus/internal/model"
)

// RenderData is the data menu templates execute with.
type RenderData struct {
	Menu        Menu
	Tag         Tag
	OriginalTag Tag
	Items       []*Item
	Level       int
	MaxLevels   int
	UseSpecific model.UseSpecific

	ApplyActiveClasses    bool
	AllowRepeatingParents bool
	UseAbsolutePageURLs   bool

	CurrentSite *model.Site
	CurrentPage *model.Page

	// Context is the caller's template context, passed through.
	Context map[string]any
	Extra   map[string]any

	// Flat menus.
	Handle          string
	Heading         template.HTML
	ShowMenuHeading bool

	// Section menus.
	SectionRoot     *Item
	ShowSectionRoot bool

	// Section, children and sub menus.
	ParentPage *model.Page

	ctx  context.Context
	menu *base
}

// TemplateFuncs returns the funcs menu templates may call. Pass them to
// the template loader.
//
// sub_menu may be called more than once for the same item; an inline
// sub-menu that was already rendered is prepared again with its own
// values first.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"sub_menu": subMenu,
	}
}

// subMenu renders the sub-menu of item: {{ sub_menu $ $item }}.
func subMenu(data any, item *Item) (template.HTML, error) {
	d, ok := data.(*RenderData)
	if !ok || d == nil || d.menu == nil {
		return "", SubMenuUsageError{}
	}
	if item == nil || !item.expandable() {
		return "", nil
	}
	sub := item.SubMenu
	if sub == nil {
		var err error
		if sub, err = d.menu.subMenuFor(d.ctx, item); err != nil {
			return "", err
		}
	} else if sub.state != statePrepared {
		// An inline sub-menu renders once per Prepare.
		if err := sub.Prepare(sub.cv, sub.ov); err != nil {
			return "", err
		}
	}
	var buf bytes.Buffer
	if err := sub.Render(d.ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // escaped by the sub-menu template
}

// Render executes the first existing template for the menu.
func (b *base) Render(ctx context.Context, w io.Writer) error {
	if b.state != statePrepared {
		return ErrNotPrepared
	}
	b.state = stateRendered

	if b.e.templates == nil {
		return errors.New("menu: no template loader configured")
	}
	d, err := b.renderData(ctx)
	if err != nil {
		return err
	}
	tmpl, err := b.e.templates.Select(b.TemplateNames())
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("rendering %s: %w", tmpl.Name(), err)
	}
	return nil
}

func (b *base) renderData(ctx context.Context) (*RenderData, error) {
	items, err := b.primedItems(ctx)
	if err != nil {
		return nil, err
	}
	d := &RenderData{
		Menu:                  b.self,
		Tag:                   b.tag,
		OriginalTag:           b.cv.OriginalMenuTag,
		Items:                 items,
		Level:                 b.cv.CurrentLevel,
		MaxLevels:             b.maxLevels,
		UseSpecific:           b.useSpecific,
		ApplyActiveClasses:    b.ov.ApplyActiveClasses,
		AllowRepeatingParents: b.ov.AllowRepeatingParents,
		UseAbsolutePageURLs:   b.ov.UseAbsolutePageURLs,
		CurrentSite:           b.cv.CurrentSite,
		CurrentPage:           b.cv.CurrentPage,
		Context:               b.cv.ParentContext,
		Extra:                 b.ov.Extra,
		ctx:                   ctx,
		menu:                  b,
	}
	if err := b.src.fillRenderData(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
