// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menu builds navigation menus over the page tree: the main menu
// and flat menus of a site, and section, children and sub menus derived
// from the tree itself.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/hooks"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/pagetree"
	"github.com/olegiv/ocms-menus/internal/render"
	"github.com/olegiv/ocms-menus/internal/store"
)

// Store is the persisted menu storage. *store.Queries implements it.
type Store interface {
	GetOrCreateMainMenu(ctx context.Context, t model.MenuTables, siteID int64) (*model.MainMenu, error)
	ListFlatMenusByHandle(ctx context.Context, t model.MenuTables, handle string, siteIDs []int64) ([]*model.FlatMenu, error)
	ListMenuItems(ctx context.Context, q model.MenuItemQuery) ([]*model.MenuItem, error)
}

// Config holds engine dependencies.
type Config struct {
	Tree     *pagetree.Tree
	Store    Store
	Settings *config.MenuSettings
	// Hooks may be nil.
	Hooks *hooks.Registry
	// Templates may be nil when menus are only serialized.
	Templates *render.Loader
	Logger    *slog.Logger
}

// Engine creates menus. It is safe for concurrent use; the menus it
// creates are not.
type Engine struct {
	tree      *pagetree.Tree
	store     Store
	settings  *config.MenuSettings
	hooks     *hooks.Registry
	templates *render.Loader
	logger    *slog.Logger

	mainTables model.MenuTables
	flatTables model.MenuTables

	newSection  SectionMenuClass
	newChildren ChildrenMenuClass
}

// NewEngine creates an Engine. Model and class settings are resolved here,
// so a misconfiguration surfaces as a *config.ConfigurationError at startup.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Tree == nil || cfg.Store == nil {
		return nil, errors.New("menu: engine needs a tree and a store")
	}
	s := cfg.Settings
	if s == nil {
		s = config.DefaultMenuSettings()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mainTables, err := store.ResolveMainMenuTables(s)
	if err != nil {
		return nil, err
	}
	flatTables, err := store.ResolveFlatMenuTables(s)
	if err != nil {
		return nil, err
	}
	newSection, err := lookupClass(sectionClasses, "SECTION_MENU_CLASS", orDefault(s.SectionMenuClass, config.DefaultSectionMenuClass))
	if err != nil {
		return nil, err
	}
	newChildren, err := lookupClass(childrenClasses, "CHILDREN_MENU_CLASS", orDefault(s.ChildrenMenuClass, config.DefaultChildrenMenuClass))
	if err != nil {
		return nil, err
	}

	return &Engine{
		tree:        cfg.Tree,
		store:       cfg.Store,
		settings:    s,
		hooks:       cfg.Hooks,
		templates:   cfg.Templates,
		logger:      logger,
		mainTables:  mainTables,
		flatTables:  flatTables,
		newSection:  newSection,
		newChildren: newChildren,
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Settings returns the engine's menu settings.
func (e *Engine) Settings() *config.MenuSettings { return e.settings }

// Tree returns the page tree menus are built from.
func (e *Engine) Tree() *pagetree.Tree { return e.tree }

// MainMenu returns the prepared main menu of the current site, creating
// the menu record on first use.
func (e *Engine) MainMenu(ctx context.Context, cv ContextualVals, opts Options) (*MainMenu, error) {
	if cv.CurrentSite == nil {
		return nil, ErrNoSite
	}
	rec, err := e.store.GetOrCreateMainMenu(ctx, e.mainTables, cv.CurrentSite.ID)
	if err != nil {
		return nil, fmt.Errorf("loading main menu: %w", err)
	}
	m := NewMainMenu(e, rec)

	ov, err := e.optionVals(opts, rec.MaxLevels, rec.UseSpecific, true)
	if err != nil {
		return nil, err
	}
	if err := m.Prepare(cv, ov); err != nil {
		return nil, err
	}
	return m, nil
}

// FlatMenu returns the prepared flat menu with handle on the current site,
// or on the default site when falling back is enabled. It returns nil and
// no error when no such menu exists.
func (e *Engine) FlatMenu(ctx context.Context, cv ContextualVals, handle string, opts Options) (*FlatMenu, error) {
	if cv.CurrentSite == nil {
		return nil, ErrNoSite
	}
	fallback := boolOr(opts.FallBackToDefaultSiteMenus, e.settings.FlatMenusFallBackToDefaultSiteMenus)

	siteIDs := []int64{cv.CurrentSite.ID}
	if fallback && !cv.CurrentSite.IsDefaultSite {
		def, err := e.tree.DefaultSite(ctx)
		switch {
		case err == nil:
			siteIDs = append(siteIDs, def.ID)
		case !errors.Is(err, pagetree.ErrNotFound):
			return nil, err
		}
	}

	recs, err := e.store.ListFlatMenusByHandle(ctx, e.flatTables, handle, siteIDs)
	if err != nil {
		return nil, fmt.Errorf("loading flat menu %q: %w", handle, err)
	}
	if len(recs) == 0 {
		e.logger.Debug("flat menu not found", "handle", handle, "site_id", cv.CurrentSite.ID, "fallback", fallback)
		return nil, nil
	}
	m := NewFlatMenu(e, recs[0])

	ov, err := e.optionVals(opts, recs[0].MaxLevels, recs[0].UseSpecific, false)
	if err != nil {
		return nil, err
	}
	ov.Handle = handle
	ov.Extra[ExtraFallBackToDefaultSiteMenus] = fallback
	ov.Extra[ExtraShowMenuHeading] = opts.ShowMenuHeading
	if err := m.Prepare(cv, ov); err != nil {
		return nil, err
	}
	return m, nil
}

// SectionMenu returns the prepared menu of the current section, or nil
// when the current page is not inside a section.
func (e *Engine) SectionMenu(ctx context.Context, cv ContextualVals, opts Options) (*SectionMenu, error) {
	root := cv.CurrentSectionRoot
	if root == nil {
		return nil, nil
	}
	m := e.newSection(e, root)

	ov, err := e.optionVals(opts, e.settings.DefaultSectionMenuMaxLevels,
		model.UseSpecific(e.settings.DefaultSectionMenuUseSpecific), true)
	if err != nil {
		return nil, err
	}
	ov.Extra[ExtraShowSectionRoot] = boolOr(opts.ShowSectionRoot, true)
	if err := m.Prepare(cv, ov); err != nil {
		return nil, err
	}
	return m, nil
}

// ChildrenMenu returns the prepared menu of the children of
// opts.ParentPage, or of the current page. It returns nil when there is
// neither.
func (e *Engine) ChildrenMenu(ctx context.Context, cv ContextualVals, opts Options) (*ChildrenMenu, error) {
	parent := opts.ParentPage
	if parent == nil {
		parent = cv.CurrentPage
	}
	if parent == nil {
		return nil, nil
	}
	m := e.newChildren(e, parent)

	ov, err := e.optionVals(opts, e.settings.DefaultChildrenMenuMaxLevels,
		model.UseSpecific(e.settings.DefaultChildrenMenuUseSpecific), false)
	if err != nil {
		return nil, err
	}
	ov.ParentPage = parent
	if err := m.Prepare(cv, ov); err != nil {
		return nil, err
	}
	return m, nil
}

// optionVals resolves caller options over the menu's own defaults.
func (e *Engine) optionVals(opts Options, maxLevels int, useSpecific model.UseSpecific, applyActive bool) (OptionVals, error) {
	verr := model.NewValidationError()
	if opts.MaxLevels != nil {
		if !model.ValidMaxLevels(*opts.MaxLevels) {
			verr.Add("max_levels", fmt.Sprintf("Ensure this value is between %d and %d.", model.MinMaxLevels, model.MaxMaxLevels))
		}
		maxLevels = *opts.MaxLevels
	}
	if opts.UseSpecific != nil {
		if !opts.UseSpecific.Valid() {
			verr.Add("use_specific", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", int(*opts.UseSpecific)))
		}
		useSpecific = *opts.UseSpecific
	}
	if err := verr.Err(); err != nil {
		return OptionVals{}, err
	}

	extra := make(map[string]any, len(opts.Extra)+2)
	for k, v := range opts.Extra {
		extra[k] = v
	}
	return OptionVals{
		MaxLevels:             maxLevels,
		UseSpecific:           useSpecific,
		ApplyActiveClasses:    boolOr(opts.ApplyActiveClasses, applyActive),
		AllowRepeatingParents: boolOr(opts.AllowRepeatingParents, true),
		UseAbsolutePageURLs:   opts.UseAbsolutePageURLs,
		AddSubMenusInline:     boolOr(opts.AddSubMenusInline, e.settings.DefaultAddSubMenusInline),
		ParentPage:            opts.ParentPage,
		TemplateName:          opts.TemplateName,
		SubMenuTemplateName:   opts.SubMenuTemplateName,
		SubMenuTemplateNames:  opts.SubMenuTemplateNames,
		Extra:                 extra,
	}, nil
}
