// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagetree

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/olegiv/ocms-menus/internal/model"
)

// SiteRootPathsKey is the cache key of the site root paths.
const SiteRootPathsKey = "site_root_paths"

// SiteRoot is the URL prefix a site serves its pages under.
type SiteRoot struct {
	SiteID    int64  `json:"site_id"`
	URLPath   string `json:"url_path"`
	RootURL   string `json:"root_url"`
	IsDefault bool   `json:"is_default"`
}

// SiteRoots returns the roots of all sites, deepest root first.
func (t *Tree) SiteRoots(ctx context.Context) ([]SiteRoot, error) {
	roots, err := t.roots.GetOrSet(ctx, SiteRootPathsKey, func() (*[]SiteRoot, error) {
		roots, err := t.loadSiteRoots(ctx)
		if err != nil {
			return nil, err
		}
		return &roots, nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading site root paths: %w", err)
	}
	return *roots, nil
}

// InvalidateSiteRoots drops the cached site root paths.
func (t *Tree) InvalidateSiteRoots(ctx context.Context) error {
	return t.roots.Delete(ctx, SiteRootPathsKey)
}

func (t *Tree) loadSiteRoots(ctx context.Context) ([]SiteRoot, error) {
	sites, err := t.src.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return []SiteRoot{}, nil
	}

	ids := make([]int64, 0, len(sites))
	for _, s := range sites {
		ids = append(ids, s.RootPageID)
	}
	pages, err := t.src.ListPages(ctx, model.PageQuery{}.WithIDs(ids))
	if err != nil {
		return nil, err
	}
	urlPaths := make(map[int64]string, len(pages))
	for _, p := range pages {
		urlPaths[p.ID] = p.URLPath
	}

	roots := make([]SiteRoot, 0, len(sites))
	for _, s := range sites {
		urlPath, ok := urlPaths[s.RootPageID]
		if !ok {
			continue
		}
		roots = append(roots, SiteRoot{
			SiteID:    s.ID,
			URLPath:   urlPath,
			RootURL:   s.RootURL(),
			IsDefault: s.IsDefaultSite,
		})
	}
	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].URLPath != roots[j].URLPath {
			return roots[i].URLPath > roots[j].URLPath
		}
		if roots[i].IsDefault != roots[j].IsDefault {
			return roots[i].IsDefault
		}
		return roots[i].RootURL < roots[j].RootURL
	})
	return roots, nil
}

// URLParts returns the site serving page and the page's path on it. A
// page under the current site resolves to that site. ok is false when no
// site serves the page.
func (t *Tree) URLParts(ctx context.Context, page *model.Page, current *model.Site) (root SiteRoot, path string, ok bool, err error) {
	roots, err := t.SiteRoots(ctx)
	if err != nil {
		return SiteRoot{}, "", false, err
	}

	var candidates []SiteRoot
	for _, r := range roots {
		if strings.HasPrefix(page.URLPath, r.URLPath) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return SiteRoot{}, "", false, nil
	}

	root = candidates[0]
	if current != nil {
		for _, r := range candidates {
			if r.SiteID == current.ID {
				root = r
				break
			}
		}
	}
	return root, page.URLPath[len(root.URLPath)-1:], true, nil
}

// RelativeURL returns the URL of page as seen from the current site: a
// path when the page is on that site, an absolute URL otherwise. Pages no
// site serves have no URL.
func (t *Tree) RelativeURL(ctx context.Context, page *model.Page, current *model.Site) (string, error) {
	root, path, ok, err := t.URLParts(ctx, page, current)
	if err != nil || !ok {
		return "", err
	}
	if current != nil && root.SiteID == current.ID {
		return path, nil
	}
	return root.RootURL + path, nil
}

// FullURL returns the absolute URL of page.
func (t *Tree) FullURL(ctx context.Context, page *model.Page, current *model.Site) (string, error) {
	root, path, ok, err := t.URLParts(ctx, page, current)
	if err != nil || !ok {
		return "", err
	}
	return root.RootURL + path, nil
}

// SiteForPage returns the site serving page, or ErrNotFound.
func (t *Tree) SiteForPage(ctx context.Context, page *model.Page) (*model.Site, error) {
	root, _, ok, err := t.URLParts(ctx, page, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return t.Site(ctx, root.SiteID)
}

// Site returns the site with the given ID, or ErrNotFound.
func (t *Tree) Site(ctx context.Context, id int64) (*model.Site, error) {
	s, err := t.src.GetSite(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// DefaultSite returns the default site, or ErrNotFound.
func (t *Tree) DefaultSite(ctx context.Context) (*model.Site, error) {
	s, err := t.src.GetDefaultSite(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// SiteForHost returns the site for hostname and port. In order of
// preference: an exact hostname and port match, the default site when it
// serves hostname, the only site serving hostname, the default site.
// Returns ErrNotFound when none applies.
func (t *Tree) SiteForHost(ctx context.Context, hostname string, port int) (*model.Site, error) {
	sites, err := t.src.SitesByHostname(ctx, strings.ToLower(hostname))
	if err != nil {
		return nil, err
	}
	for _, s := range sites {
		if s.Port == port {
			return s, nil
		}
	}
	for _, s := range sites {
		if s.IsDefaultSite {
			return s, nil
		}
	}
	if len(sites) == 1 {
		return sites[0], nil
	}

	def, err := t.DefaultSite(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	return def, err
}
