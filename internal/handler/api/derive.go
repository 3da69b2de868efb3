// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"

	"github.com/olegiv/ocms-menus/internal/pagetree"
	"github.com/olegiv/ocms-menus/internal/util"
)

// cleanMenuModel checks the arguments of menus stored per site: the site
// must be given or derivable.
func cleanMenuModel(ctx context.Context, f *form) error {
	a := &f.args
	if a.Site == nil && !a.hasContext() {
		f.addError(argCurrentPage, "form.menu_context_required")
		return nil
	}
	if a.Site == nil {
		if err := f.deriveSite(ctx); err != nil {
			return err
		}
		if a.Site == nil {
			f.addError(argSite, "form.no_site")
			return nil
		}
	}
	return cleanBase(ctx, f)
}

// cleanSectionMenu derives the section root when it was not given.
func cleanSectionMenu(ctx context.Context, f *form) error {
	if f.args.SectionRootPage == nil {
		if err := f.deriveSectionRoot(ctx); err != nil {
			return err
		}
	}
	return cleanBase(ctx, f)
}

// cleanBase derives the current page when active classes are asked for,
// and the site page URLs are made relative to.
func cleanBase(ctx context.Context, f *form) error {
	a := &f.args
	if a.ApplyActiveClasses {
		if !a.hasContext() {
			f.addError(argApplyActiveClasses, "form.true_needs_context")
		} else if a.CurrentPage == nil && a.BestMatch == nil {
			if err := f.derivePage(ctx); err != nil {
				return err
			}
		}
	}
	if a.Site == nil {
		return f.deriveSite(ctx)
	}
	return nil
}

// deriveSite finds the site from the pages given, or else from the host of
// current_url. It leaves the site unset when neither identifies one.
func (f *form) deriveSite(ctx context.Context) error {
	a := &f.args
	tree := f.h.engine.Tree()

	sitePage := a.CurrentPage
	if sitePage == nil {
		sitePage = a.ParentPage
	}
	if sitePage == nil {
		sitePage = a.SectionRootPage
	}
	if sitePage != nil {
		site, err := tree.SiteForPage(ctx, sitePage)
		if err == nil {
			a.Site = site
			return nil
		}
		if !errors.Is(err, pagetree.ErrNotFound) {
			return err
		}
	}
	if a.CurrentURL == nil {
		return nil
	}

	host, port := util.SplitHostPort(a.CurrentURL.Host, a.CurrentURL.Scheme)
	site, err := tree.SiteForHost(ctx, host, port)
	if errors.Is(err, pagetree.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	a.Site = site
	return nil
}

// derivePage routes current_url through the site's tree. A complete match
// becomes the current page, a partial one the best match unless the
// endpoint only takes exact matches.
func (f *form) derivePage(ctx context.Context) error {
	a := &f.args
	if a.CurrentURL == nil {
		return nil
	}
	if a.Site == nil {
		if err := f.deriveSite(ctx); err != nil {
			return err
		}
		if a.Site == nil {
			return nil
		}
	}

	dr, err := pagetree.NewDummyRequest(a.CurrentURL.String(), f.r)
	if err != nil {
		return err
	}
	page, exact, err := f.h.engine.Tree().DerivePage(ctx, dr, a.Site, pagetree.DeriveOptions{
		AcceptBestMatch: !f.ep.exactPageOnly,
	})
	if errors.Is(err, pagetree.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	switch {
	case page == nil:
	case exact:
		a.CurrentPage = page
	default:
		a.BestMatch = page
	}
	return nil
}

// deriveSectionRoot finds the section the current or best-match page
// belongs to.
func (f *form) deriveSectionRoot(ctx context.Context) error {
	a := &f.args
	if !a.hasContext() {
		f.addError(argSectionRootPage, "form.section_root_required")
		return nil
	}
	if a.CurrentPage == nil {
		if err := f.derivePage(ctx); err != nil {
			return err
		}
	}

	source := a.CurrentPage
	if source == nil {
		source = a.BestMatch
	}
	if source != nil {
		root, err := f.h.engine.Tree().SectionRoot(ctx, source, f.h.engine.Settings().SectionRootDepth)
		if err != nil {
			return err
		}
		a.SectionRootPage = root
	}
	if a.SectionRootPage == nil {
		f.addError(argSectionRootPage, "form.section_root_underivable")
	}
	return nil
}
