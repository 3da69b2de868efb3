// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the template-tag style entry points that render
// menus into HTML for a page being served.
package service

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/olegiv/ocms-menus/internal/i18n"
	"github.com/olegiv/ocms-menus/internal/menu"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/pagetree"
	"github.com/olegiv/ocms-menus/internal/util"
)

// Page describes the page a host is serving. Any field may be left empty;
// the site comes from the request host and, when the settings allow it,
// the page is guessed from the request path.
type Page struct {
	Request *http.Request
	Site    *model.Site
	Page    *model.Page
	// Context is passed to menu templates as .Context.
	Context map[string]any
}

// MenuService renders menus for the pages a host serves.
type MenuService struct {
	engine *menu.Engine
	logger *slog.Logger
}

// NewMenuService creates a MenuService.
func NewMenuService(engine *menu.Engine, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{engine: engine, logger: logger}
}

// Contextual works out the site, current page, section root and
// ancestors for p.
func (s *MenuService) Contextual(ctx context.Context, p Page) (menu.ContextualVals, error) {
	info := menu.RequestInfo{
		Request:       p.Request,
		Language:      i18n.FromContext(ctx),
		Site:          p.Site,
		Page:          p.Page,
		ParentContext: p.Context,
	}
	tree := s.engine.Tree()

	if info.Site == nil && p.Request != nil {
		host, port := util.SplitHostPort(p.Request.Host, util.RequestScheme(p.Request))
		site, err := tree.SiteForHost(ctx, host, port)
		switch {
		case err == nil:
			info.Site = site
		case !errors.Is(err, pagetree.ErrNotFound):
			return menu.ContextualVals{}, err
		}
	}

	if info.Page == nil && info.Site != nil && p.Request != nil && s.engine.Settings().GuessTreePositionFromPath {
		page, exact, err := s.guessPage(ctx, p.Request, info.Site)
		if err != nil {
			return menu.ContextualVals{}, err
		}
		info.Page = page
		info.PageIsGuess = page != nil && !exact
	}
	return s.engine.Contextual(ctx, info)
}

// guessPage routes the request path through the site's page tree. A
// routing failure is not an error; it leaves the page unknown.
func (s *MenuService) guessPage(ctx context.Context, r *http.Request, site *model.Site) (*model.Page, bool, error) {
	dr, err := pagetree.NewDummyRequest(util.RequestScheme(r)+"://"+r.Host+r.URL.Path, r)
	if err != nil {
		s.logger.Debug("cannot route request path", "path", r.URL.Path, "error", err)
		return nil, false, nil
	}
	page, exact, err := s.engine.Tree().DerivePage(ctx, dr, site, pagetree.DeriveOptions{AcceptBestMatch: true})
	if err != nil {
		if errors.Is(err, pagetree.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return page, exact, nil
}

// MainMenu renders the main menu of the current site.
func (s *MenuService) MainMenu(ctx context.Context, p Page, opts menu.Options) (template.HTML, error) {
	cv, err := s.Contextual(ctx, p)
	if err != nil {
		return "", err
	}
	m, err := s.engine.MainMenu(ctx, cv, opts)
	if errors.Is(err, menu.ErrNoSite) {
		s.logger.Debug("main menu skipped, no current site")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.render(ctx, m)
}

// FlatMenu renders the flat menu with handle. An unknown handle renders
// as an empty string.
func (s *MenuService) FlatMenu(ctx context.Context, p Page, handle string, opts menu.Options) (template.HTML, error) {
	cv, err := s.Contextual(ctx, p)
	if err != nil {
		return "", err
	}
	m, err := s.engine.FlatMenu(ctx, cv, handle, opts)
	if errors.Is(err, menu.ErrNoSite) {
		return "", nil
	}
	if err != nil || m == nil {
		return "", err
	}
	return s.render(ctx, m)
}

// SectionMenu renders the menu of the current section.
func (s *MenuService) SectionMenu(ctx context.Context, p Page, opts menu.Options) (template.HTML, error) {
	cv, err := s.Contextual(ctx, p)
	if err != nil {
		return "", err
	}
	m, err := s.engine.SectionMenu(ctx, cv, opts)
	if err != nil || m == nil {
		return "", err
	}
	return s.render(ctx, m)
}

// ChildrenMenu renders the children of opts.ParentPage, or of the current
// page.
func (s *MenuService) ChildrenMenu(ctx context.Context, p Page, opts menu.Options) (template.HTML, error) {
	cv, err := s.Contextual(ctx, p)
	if err != nil {
		return "", err
	}
	m, err := s.engine.ChildrenMenu(ctx, cv, opts)
	if err != nil || m == nil {
		return "", err
	}
	return s.render(ctx, m)
}

func (s *MenuService) render(ctx context.Context, m menu.Menu) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
