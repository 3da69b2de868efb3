// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"fmt"
	"io"

	"github.com/olegiv/ocms-menus/internal/hooks"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/pagetree"
)

// Menu is implemented by every menu kind.
//
// A menu is prepared once per render. Items may be read any number of
// times while it is prepared; Render and Serialize each use the
// preparation up, after which the menu must be prepared again.
type Menu interface {
	Tag() Tag
	MaxLevels() int
	UseSpecific() model.UseSpecific
	SetMaxLevels(n int) error
	SetUseSpecific(u model.UseSpecific) error

	Prepare(cv ContextualVals, ov OptionVals) error
	Contextual() ContextualVals
	Options() OptionVals

	Items(ctx context.Context) ([]*Item, error)
	PagesForDisplay(ctx context.Context) ([]*model.Page, error)
	ChildrenFor(ctx context.Context, page *model.Page) ([]*model.Page, error)
	PageHasChildren(ctx context.Context, page *model.Page) (bool, error)

	TemplateNames() []string
	Render(ctx context.Context, w io.Writer) error
	Serialize(ctx context.Context) ([]ItemJSON, error)

	menuBase() *base
}

type state int

const (
	stateConstructed state = iota
	statePrepared
	stateRendered
	stateSerialized
)

// source is what each menu kind adds to base.
type source interface {
	// topLevel returns the unprimed items at the menu's first level.
	topLevel(ctx context.Context) ([]*Item, error)
	// loadPages returns the pages below the top level, filtered by q.
	loadPages(ctx context.Context, q model.PageQuery) ([]*model.Page, error)
	// parentPage is the page whose children the menu lists, if any.
	parentPage() *model.Page
	templateNames() []string
	fillRenderData(ctx context.Context, d *RenderData) error
}

// base holds the state shared by all menu kinds.
type base struct {
	e    *Engine
	tag  Tag
	self Menu
	src  source

	// origin holds the prefetched pages. It is the menu itself, or for a
	// sub-menu the top-level menu it descends from.
	origin *base

	maxLevels   int
	useSpecific model.UseSpecific
	cv          ContextualVals
	ov          OptionVals
	state       state

	sc *pagetree.SpecificCache

	pageQuery   *model.PageQuery
	pages       []*model.Page
	pagesLoaded bool
	children    map[string][]*model.Page

	top       []*Item
	topLoaded bool

	items      []*Item
	itemsReady bool
}

func (b *base) init(e *Engine, tag Tag, self Menu, src source, maxLevels int, useSpecific model.UseSpecific) {
	b.e = e
	b.tag = tag
	b.self = self
	b.src = src
	b.origin = b
	b.maxLevels = maxLevels
	b.useSpecific = useSpecific
	b.sc = pagetree.NewSpecificCache()
}

func (b *base) menuBase() *base { return b }

// Tag returns the menu's tag.
func (b *base) Tag() Tag { return b.tag }

// MaxLevels returns the number of levels the menu shows.
func (b *base) MaxLevels() int { return b.maxLevels }

// UseSpecific returns the menu's downcast level.
func (b *base) UseSpecific() model.UseSpecific { return b.useSpecific }

// Contextual returns the values the menu was prepared with.
func (b *base) Contextual() ContextualVals { return b.cv }

// Options returns the options the menu was prepared with.
func (b *base) Options() OptionVals { return b.ov }

// SpecificCache returns the downcast cache shared by the menu and its
// sub-menus.
func (b *base) SpecificCache() *pagetree.SpecificCache { return b.sc }

// SetMaxLevels changes the number of levels. A change drops the
// prefetched pages.
func (b *base) SetMaxLevels(n int) error {
	if !model.ValidMaxLevels(n) {
		return fmt.Errorf("menu: max_levels %d out of range %d..%d", n, model.MinMaxLevels, model.MaxMaxLevels)
	}
	if n != b.maxLevels {
		b.maxLevels = n
		b.clearPages()
	}
	return nil
}

// SetUseSpecific changes the downcast level. Raising it to TOP_LEVEL or
// above drops the prefetched pages and top-level items, which were loaded
// without downcasting. Lowering it keeps them.
func (b *base) SetUseSpecific(u model.UseSpecific) error {
	if !u.Valid() {
		return fmt.Errorf("menu: use_specific %d out of range", int(u))
	}
	if u > b.useSpecific && u >= model.UseSpecificTopLevel {
		b.clearPages()
		b.top, b.topLoaded = nil, false
	}
	b.useSpecific = u
	b.items, b.itemsReady = nil, false
	return nil
}

func (b *base) clearPages() {
	b.pages, b.pagesLoaded = nil, false
	b.children = nil
	b.items, b.itemsReady = nil, false
}

// Prepare binds the values of one render and makes the menu ready for
// Items, Render or Serialize.
func (b *base) Prepare(cv ContextualVals, ov OptionVals) error {
	if err := b.SetMaxLevels(ov.MaxLevels); err != nil {
		return err
	}
	if err := b.SetUseSpecific(ov.UseSpecific); err != nil {
		return err
	}
	if cv.CurrentLevel == 0 {
		cv.CurrentLevel = 1
	}
	if cv.OriginalMenuTag == "" {
		cv.OriginalMenuTag = b.tag
	}
	if cv.OriginalMenu == nil {
		cv.OriginalMenu = b.self
	}
	if ov.Extra == nil {
		ov.Extra = map[string]any{}
	}
	b.cv, b.ov = cv, ov
	b.items, b.itemsReady = nil, false
	b.state = statePrepared
	return nil
}

func (b *base) hookArgs() HookArgs {
	return HookArgs{
		Menu:        b.self,
		Tag:         b.tag,
		OriginalTag: b.cv.OriginalMenuTag,
		Contextual:  b.cv,
		Options:     b.ov,
	}
}

// basePageQuery is the query every page shown by the menu must match.
func (b *base) basePageQuery(ctx context.Context) (model.PageQuery, error) {
	if b.pageQuery != nil {
		return *b.pageQuery, nil
	}
	q, err := hooks.Run(ctx, b.e.hooks, ModifyBasePageQuery, model.MenuPageQuery(), b.hookArgs())
	if err != nil {
		return model.PageQuery{}, err
	}
	b.pageQuery = &q
	return q, nil
}

// PagesForDisplay returns the prefetched pages below the menu's top level.
// Sub-menus return their top-level menu's pages.
func (b *base) PagesForDisplay(ctx context.Context) ([]*model.Page, error) {
	o := b.origin
	if o.pagesLoaded {
		return o.pages, nil
	}
	q, err := o.basePageQuery(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := o.src.loadPages(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("loading %s pages: %w", o.tag, err)
	}
	if o.useSpecific == model.UseSpecificAlways {
		if err := o.e.tree.Specific(ctx, o.sc, pages...); err != nil {
			return nil, err
		}
	}
	o.pages, o.pagesLoaded = pages, true
	o.children = nil
	return pages, nil
}

// ChildrenFor returns the prefetched children of page in tree order.
func (b *base) ChildrenFor(ctx context.Context, page *model.Page) ([]*model.Page, error) {
	o := b.origin
	if o.children == nil {
		pages, err := o.self.PagesForDisplay(ctx)
		if err != nil {
			return nil, err
		}
		idx := make(map[string][]*model.Page)
		for _, p := range pages {
			parent := p.ParentPath()
			idx[parent] = append(idx[parent], p)
		}
		o.children = idx
	}
	return o.children[page.Path], nil
}

// PageHasChildren reports whether page has prefetched children.
func (b *base) PageHasChildren(ctx context.Context, page *model.Page) (bool, error) {
	children, err := b.ChildrenFor(ctx, page)
	return len(children) > 0, err
}

func (b *base) topLevelItems(ctx context.Context) ([]*Item, error) {
	if b.topLoaded {
		return b.top, nil
	}
	top, err := b.src.topLevel(ctx)
	if err != nil {
		return nil, err
	}
	b.top, b.topLoaded = top, true
	return top, nil
}

// Items returns the primed items of the menu's first level.
func (b *base) Items(ctx context.Context) ([]*Item, error) {
	if b.state != statePrepared {
		return nil, ErrNotPrepared
	}
	return b.primedItems(ctx)
}

func (b *base) primedItems(ctx context.Context) ([]*Item, error) {
	if b.itemsReady {
		return b.items, nil
	}
	top, err := b.topLevelItems(ctx)
	if err != nil {
		return nil, err
	}
	// Priming writes to items; the memoised top level stays untouched.
	raw := make([]*Item, len(top))
	for i, it := range top {
		cp := *it
		raw[i] = &cp
	}

	args := b.hookArgs()
	raw, err = hooks.Run(ctx, b.e.hooks, ModifyRawMenuItems, raw, args)
	if err != nil {
		return nil, err
	}
	items, err := b.prime(ctx, raw)
	if err != nil {
		return nil, err
	}
	if parent := b.src.parentPage(); parent != nil && b.useSpecific > model.UseSpecificOff {
		items, err = b.modifySubmenuItems(ctx, parent, items)
		if err != nil {
			return nil, err
		}
	}
	items, err = hooks.Run(ctx, b.e.hooks, ModifyPrimedMenuItems, items, args)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if !it.expandable() {
			it.HasChildrenInMenu = false
		}
	}
	b.items, b.itemsReady = items, true
	return items, nil
}

// modifySubmenuItems lets the behaviour of parent's content type adjust
// the items listed below it.
func (b *base) modifySubmenuItems(ctx context.Context, parent *model.Page, items []*Item) ([]*Item, error) {
	beh, ok := pageBehaviour(parent.ContentType)
	if !ok || beh.ModifySubmenuItems == nil {
		return items, nil
	}
	if err := b.e.tree.Specific(ctx, b.sc, parent); err != nil {
		return nil, err
	}
	return beh.ModifySubmenuItems(ctx, parent, items, PageContext{m: b})
}

// subMenuFor prepares the sub-menu of item, one level down.
func (b *base) subMenuFor(ctx context.Context, item *Item) (*SubMenu, error) {
	sub := newSubMenu(b, item.Page)
	cv := b.cv
	cv.CurrentLevel++
	cv.OriginalMenu = b.origin.self
	if err := sub.Prepare(cv, b.ov); err != nil {
		return nil, err
	}
	if b.ov.AddSubMenusInline {
		if _, err := sub.primedItems(ctx); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// pageURL returns the href of page for this menu.
func (b *base) pageURL(ctx context.Context, page *model.Page) (string, error) {
	if b.ov.UseAbsolutePageURLs {
		return b.e.tree.FullURL(ctx, page, b.cv.CurrentSite)
	}
	return b.e.tree.RelativeURL(ctx, page, b.cv.CurrentSite)
}

// TemplateNames returns the candidate templates, most specific first.
func (b *base) TemplateNames() []string {
	if b.tag != TagSub && b.ov.TemplateName != "" {
		return []string{b.ov.TemplateName}
	}
	return b.src.templateNames()
}
