// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"

	"github.com/olegiv/ocms-menus/internal/model"
)

// fromPage is the source of menus listing the descendants of a page.
type fromPage struct {
	b      *base
	parent *model.Page
}

func (s fromPage) topLevel(ctx context.Context) ([]*Item, error) {
	children, err := s.b.ChildrenFor(ctx, s.parent)
	if err != nil {
		return nil, err
	}
	items := make([]*Item, len(children))
	for i, p := range children {
		items[i] = PageItem(p)
	}
	return items, nil
}

func (s fromPage) loadPages(ctx context.Context, q model.PageQuery) ([]*model.Page, error) {
	return s.b.e.tree.Pages(ctx, q.WithBranches(model.PageBranch{
		PathPrefix:   s.parent.Path,
		DepthAfter:   s.parent.Depth,
		DepthThrough: s.parent.Depth + s.b.maxLevels,
	}))
}

func (s fromPage) parentPage() *model.Page { return s.parent }

// SectionMenu lists the pages of the section the current page is in.
type SectionMenu struct {
	base
	fromPage
	Root *model.Page
}

// NewSectionMenu returns an unprepared section menu rooted at root.
func NewSectionMenu(e *Engine, root *model.Page) *SectionMenu {
	m := &SectionMenu{Root: root}
	m.fromPage = fromPage{b: &m.base, parent: root}
	s := e.settings
	m.init(e, TagSection, m, m, s.DefaultSectionMenuMaxLevels, model.UseSpecific(s.DefaultSectionMenuUseSpecific))
	return m
}

// RootItem returns the section root as a primed item.
func (m *SectionMenu) RootItem(ctx context.Context) (*Item, error) {
	if m.state != statePrepared {
		return nil, ErrNotPrepared
	}
	return m.rootItem(ctx)
}

func (m *SectionMenu) rootItem(ctx context.Context) (*Item, error) {
	items, err := m.primedItems(ctx)
	if err != nil {
		return nil, err
	}
	root := m.Root
	titles, err := m.translatedTitles(ctx, []*model.Page{root})
	if err != nil {
		return nil, err
	}
	href, err := m.pageURL(ctx, root)
	if err != nil {
		return nil, err
	}
	it := &Item{
		Page:              root,
		Text:              m.pageText(root, titles),
		Href:              href,
		HasChildrenInMenu: len(items) > 0,
	}
	if m.ov.ApplyActiveClasses {
		s := m.e.settings
		it.ActiveClass = s.ActiveAncestorClass
		if m.cv.IsCurrentPage(root) {
			repeatedActive := m.ov.AllowRepeatingParents && m.useSpecific > model.UseSpecificOff &&
				len(items) > 0 && items[0].ActiveClass == s.ActiveClass
			if !repeatedActive {
				it.ActiveClass = s.ActiveClass
			}
		}
	}
	return it, nil
}

func (m *SectionMenu) templateNames() []string {
	return menuTemplateNames(m.e.settings, m.cv.CurrentSite, "section", "", m.e.settings.DefaultSectionMenuTemplate)
}

func (m *SectionMenu) fillRenderData(ctx context.Context, d *RenderData) error {
	root, err := m.rootItem(ctx)
	if err != nil {
		return err
	}
	d.SectionRoot = root
	d.ShowSectionRoot = m.ov.ExtraBool(ExtraShowSectionRoot, true)
	d.ParentPage = m.Root
	return nil
}

// ChildrenMenu lists the children of a page.
type ChildrenMenu struct {
	base
	fromPage
	Parent *model.Page
}

// NewChildrenMenu returns an unprepared menu of the children of parent.
func NewChildrenMenu(e *Engine, parent *model.Page) *ChildrenMenu {
	m := &ChildrenMenu{Parent: parent}
	m.fromPage = fromPage{b: &m.base, parent: parent}
	s := e.settings
	m.init(e, TagChildren, m, m, s.DefaultChildrenMenuMaxLevels, model.UseSpecific(s.DefaultChildrenMenuUseSpecific))
	return m
}

func (m *ChildrenMenu) templateNames() []string {
	return menuTemplateNames(m.e.settings, m.cv.CurrentSite, "children", "", m.e.settings.DefaultChildrenMenuTemplate)
}

func (m *ChildrenMenu) fillRenderData(_ context.Context, d *RenderData) error {
	d.ParentPage = m.Parent
	return nil
}

// SubMenu lists the children of an item one level below its menu. It
// reads the pages its top-level menu prefetched and never loads its own.
type SubMenu struct {
	base
	fromPage
	Parent *model.Page
}

func newSubMenu(parent *base, page *model.Page) *SubMenu {
	m := &SubMenu{Parent: page}
	m.fromPage = fromPage{b: &m.base, parent: page}
	m.init(parent.e, TagSub, m, m, parent.maxLevels, parent.useSpecific)
	m.origin = parent.origin
	m.sc = parent.origin.sc
	return m
}

func (m *SubMenu) templateNames() []string {
	if m.ov.SubMenuTemplateName != "" {
		return []string{m.ov.SubMenuTemplateName}
	}
	if len(m.ov.SubMenuTemplateNames) > 0 {
		return m.ov.SubMenuTemplateNames
	}
	kind, handle := tagFolder(m.cv.OriginalMenuTag), m.ov.Handle
	return subMenuTemplateNames(m.e.settings, m.cv.CurrentSite, kind, handle, m.cv.CurrentLevel)
}

func (m *SubMenu) fillRenderData(_ context.Context, d *RenderData) error {
	d.ParentPage = m.Parent
	return nil
}
