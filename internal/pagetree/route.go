// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagetree

import (
	"context"
	"errors"

	"github.com/olegiv/ocms-menus/internal/model"
)

// DefaultMaxSubsequentFailures bounds consecutive failed routing attempts
// during best-match derivation.
const DefaultMaxSubsequentFailures = 3

// RouteFunc routes components below page and returns the page serving
// them, or ErrNotFound.
type RouteFunc func(ctx context.Context, t *Tree, page *model.Page, req DummyRequest, components []string) (*model.Page, error)

// RegisterRouter sets the router of pages of contentType.
func (t *Tree) RegisterRouter(contentType string, fn RouteFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routers[contentType] = fn
}

// DefaultRoute consumes one slug per tree level. The page reached when the
// components run out must be live.
func DefaultRoute(ctx context.Context, t *Tree, page *model.Page, req DummyRequest, components []string) (*model.Page, error) {
	if len(components) == 0 {
		if !page.Live {
			return nil, ErrNotFound
		}
		return page, nil
	}
	child, err := t.src.ChildBySlug(ctx, page, components[0])
	if err != nil {
		return nil, notFound(err)
	}
	return t.Route(ctx, req, child, components[1:])
}

// Route routes components below page with the router of page's content type.
func (t *Tree) Route(ctx context.Context, req DummyRequest, page *model.Page, components []string) (*model.Page, error) {
	t.mu.RLock()
	fn := t.routers[page.ContentType]
	t.mu.RUnlock()
	if fn == nil {
		fn = DefaultRoute
	}
	return fn(ctx, t, page, req, components)
}

// DeriveOptions controls DerivePage.
type DeriveOptions struct {
	// AcceptBestMatch returns the deepest routable page when the full
	// path does not route.
	AcceptBestMatch bool
	// MaxSubsequentFailures stops best-match routing after that many
	// consecutive failures. Zero means DefaultMaxSubsequentFailures.
	MaxSubsequentFailures int
}

// DerivePage finds the page of site that req's path routes to. exact is
// true when the whole path routed. A miss is (nil, false, nil). An empty
// path is the site root.
func (t *Tree) DerivePage(ctx context.Context, req DummyRequest, site *model.Site, opts DeriveOptions) (page *model.Page, exact bool, err error) {
	root, err := t.Page(ctx, site.RootPageID)
	if err != nil {
		return nil, false, err
	}
	components := req.PathComponents()
	if len(components) == 0 {
		return root, true, nil
	}

	if !opts.AcceptBestMatch {
		p, err := t.Route(ctx, req, root, components)
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return p, true, nil
	}

	maxFailures := opts.MaxSubsequentFailures
	if maxFailures <= 0 {
		maxFailures = DefaultMaxSubsequentFailures
	}

	var (
		routingPoint = root
		bestMatch    *model.Page
		lookup       []string
		failures     int
	)
	for i, component := range components {
		lookup = append(lookup, component)
		p, err := t.Route(ctx, req, routingPoint, lookup)
		if errors.Is(err, ErrNotFound) {
			failures++
			if failures >= maxFailures {
				break
			}
			continue
		}
		if err != nil {
			return nil, false, err
		}

		failures = 0
		bestMatch = p
		exact = i == len(components)-1
		if p.ID != routingPoint.ID {
			// Next attempt starts from the page just reached.
			routingPoint = p
			lookup = nil
		}
	}
	return bestMatch, exact, nil
}

// SectionRoot returns the ancestor-or-self of page at depth, or nil when
// page sits above that depth.
func (t *Tree) SectionRoot(ctx context.Context, page *model.Page, depth int) (*model.Page, error) {
	switch {
	case page.Depth == depth:
		return page, nil
	case page.Depth < depth:
		return nil, nil
	}
	ancestors, err := t.src.Ancestors(ctx, page, false)
	if err != nil {
		return nil, err
	}
	for _, a := range ancestors {
		if a.Depth == depth {
			return a, nil
		}
	}
	return nil, nil
}

// AncestorIDs returns the IDs of page's ancestors at minDepth or deeper.
// page itself is included when inclusive is true.
func (t *Tree) AncestorIDs(ctx context.Context, page *model.Page, inclusive bool, minDepth int) ([]int64, error) {
	ancestors, err := t.src.Ancestors(ctx, page, inclusive)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(ancestors))
	for _, a := range ancestors {
		if a.Depth >= minDepth {
			ids = append(ids, a.ID)
		}
	}
	return ids, nil
}
