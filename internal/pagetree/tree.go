// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pagetree is the read side of the page tree: lookups, specific
// downcasts, URLs relative to sites, routing and derivation of the current
// page from a URL.
package pagetree

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/model"
)

// Error is a pagetree sentinel error.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrNotFound is returned when a page, site or route does not exist.
const ErrNotFound Error = "not found"

// Source is the storage the tree reads from. *store.Queries implements it.
type Source interface {
	GetPage(ctx context.Context, id int64) (*model.Page, error)
	ListPages(ctx context.Context, q model.PageQuery) ([]*model.Page, error)
	ChildBySlug(ctx context.Context, parent *model.Page, slug string) (*model.Page, error)
	Ancestors(ctx context.Context, page *model.Page, inclusive bool) ([]*model.Page, error)

	MenuPageFields(ctx context.Context, ids []int64) (map[int64]*model.MenuPageFields, error)
	LinkPageFields(ctx context.Context, ids []int64) (map[int64]*model.LinkPageFields, error)
	PageTranslations(ctx context.Context, ids []int64, lang string) (map[int64]string, error)

	GetSite(ctx context.Context, id int64) (*model.Site, error)
	GetDefaultSite(ctx context.Context) (*model.Site, error)
	ListSites(ctx context.Context) ([]*model.Site, error)
	SitesByHostname(ctx context.Context, hostname string) ([]*model.Site, error)
}

// Tree reads pages and sites from a Source. It is safe for concurrent use.
type Tree struct {
	src    Source
	roots  *cache.TypedCache[[]SiteRoot]
	logger *slog.Logger

	mu      sync.RWMutex
	routers map[string]RouteFunc
	loaders map[string]SpecificLoader
}

// New creates a Tree. Site root paths are cached in c for ttl.
func New(src Source, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tree{
		src:     src,
		roots:   cache.NewTypedCache[[]SiteRoot](c, ttl),
		logger:  logger,
		routers: make(map[string]RouteFunc),
		loaders: make(map[string]SpecificLoader),
	}
	t.RegisterSpecificLoader(model.ContentTypeMenuPage, loadMenuPages(src))
	t.RegisterSpecificLoader(model.ContentTypeLinkPage, t.loadLinkPages)
	return t
}

// Source returns the tree's storage.
func (t *Tree) Source() Source {
	return t.src
}

// notFound maps a missing row to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Page returns the page with the given ID.
func (t *Tree) Page(ctx context.Context, id int64) (*model.Page, error) {
	p, err := t.src.GetPage(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Pages returns the pages matched by q in tree order.
func (t *Tree) Pages(ctx context.Context, q model.PageQuery) ([]*model.Page, error) {
	return t.src.ListPages(ctx, q)
}

// Children returns the direct children of page matched by q.
func (t *Tree) Children(ctx context.Context, page *model.Page, q model.PageQuery) ([]*model.Page, error) {
	return t.src.ListPages(ctx, q.WithBranches(model.PageBranch{
		PathPrefix:   page.Path,
		DepthAfter:   page.Depth,
		DepthThrough: page.Depth + 1,
	}))
}

// Ancestors returns the ancestors of page from the root down.
func (t *Tree) Ancestors(ctx context.Context, page *model.Page, inclusive bool) ([]*model.Page, error) {
	return t.src.Ancestors(ctx, page, inclusive)
}

// TranslatedTitles returns the titles of the pages in lang, keyed by ID.
// Untranslated pages are absent.
func (t *Tree) TranslatedTitles(ctx context.Context, ids []int64, lang string) (map[int64]string, error) {
	return t.src.PageTranslations(ctx, ids, lang)
}
