// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"context"
	"database/sql"
	"path"
	"testing"

	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/store"
)

// SiteTree builds a page tree with one site for tests. Pages are keyed by
// their path below the site root, e.g. "about/team".
type SiteTree struct {
	Q     *store.Queries
	Root  *model.Page
	Home  *model.Page
	Site  *model.Site
	Pages map[string]*model.Page
}

// PageOption adjusts a page created by SiteTree.Add.
type PageOption func(*pageSpec)

type pageSpec struct {
	params   store.CreatePageParams
	menuPage *model.MenuPageFields
	linkPage *model.LinkPageFields
}

// Hidden creates the page with show_in_menus off.
func Hidden() PageOption {
	return func(s *pageSpec) { s.params.ShowInMenus = false }
}

// Draft creates the page unpublished.
func Draft() PageOption {
	return func(s *pageSpec) { s.params.Live = false }
}

// Expired creates the page expired.
func Expired() PageOption {
	return func(s *pageSpec) { s.params.Expired = true }
}

// Title sets the page title.
func Title(title string) PageOption {
	return func(s *pageSpec) { s.params.Title = title }
}

// SeoTitle sets the page SEO title.
func SeoTitle(title string) PageOption {
	return func(s *pageSpec) { s.params.SeoTitle = title }
}

// AsMenuPage creates a menus.MenuPage.
func AsMenuPage(repeatInSubnav bool, repeatedText string) PageOption {
	return func(s *pageSpec) {
		s.params.ContentType = model.ContentTypeMenuPage
		s.menuPage = &model.MenuPageFields{RepeatInSubnav: repeatInSubnav, RepeatedItemText: repeatedText}
	}
}

// AsLinkPage creates a menus.LinkPage linking to a URL, or to the page
// with targetID when it is non-zero.
func AsLinkPage(targetID int64, linkURL, urlAppend, extraClasses string) PageOption {
	return func(s *pageSpec) {
		s.params.ContentType = model.ContentTypeLinkPage
		f := &model.LinkPageFields{LinkURL: linkURL, URLAppend: urlAppend, ExtraClasses: extraClasses}
		if targetID != 0 {
			f.LinkPageID = sql.NullInt64{Int64: targetID, Valid: true}
		}
		s.linkPage = f
	}
}

// NewSiteTree creates a root page, a "home" page and a default site on
// hostname:port rooted at home.
func NewSiteTree(t *testing.T, db *sql.DB, hostname string, port int) *SiteTree {
	t.Helper()
	ctx := context.Background()
	q := store.New(db)

	root, err := q.AddRootPage(ctx, store.CreatePageParams{Slug: "root", Title: "Root", Live: true})
	if err != nil {
		t.Fatalf("AddRootPage: %v", err)
	}
	home, err := q.AddChildPage(ctx, root, store.CreatePageParams{Slug: "home", Title: "Home", Live: true})
	if err != nil {
		t.Fatalf("AddChildPage(home): %v", err)
	}
	site, err := q.CreateSite(ctx, store.CreateSiteParams{
		Hostname:      hostname,
		Port:          port,
		SiteName:      hostname,
		RootPageID:    home.ID,
		IsDefaultSite: true,
	})
	if err != nil {
		t.Fatalf("CreateSite: %v", err)
	}
	return &SiteTree{Q: q, Root: root, Home: home, Site: site, Pages: map[string]*model.Page{"": home}}
}

// Add creates a live, in-menu page at key, whose parent must exist.
func (s *SiteTree) Add(t *testing.T, key string, opts ...PageOption) *model.Page {
	t.Helper()
	ctx := context.Background()

	parentKey, slug := path.Split(key)
	parentKey = path.Clean("/" + parentKey)[1:]
	parent, ok := s.Pages[parentKey]
	if !ok {
		t.Fatalf("parent %q of %q not created", parentKey, key)
	}

	spec := &pageSpec{params: store.CreatePageParams{Slug: slug, Title: slug, Live: true, ShowInMenus: true}}
	for _, opt := range opts {
		opt(spec)
	}
	p, err := s.Q.AddChildPage(ctx, parent, spec.params)
	if err != nil {
		t.Fatalf("AddChildPage(%q): %v", key, err)
	}
	if spec.menuPage != nil {
		if err := s.Q.SetMenuPageFields(ctx, p.ID, *spec.menuPage); err != nil {
			t.Fatalf("SetMenuPageFields(%q): %v", key, err)
		}
	}
	if spec.linkPage != nil {
		if err := s.Q.SetLinkPageFields(ctx, p.ID, *spec.linkPage); err != nil {
			t.Fatalf("SetLinkPageFields(%q): %v", key, err)
		}
	}
	s.Pages[key] = p
	return p
}

// Page returns the page created at key.
func (s *SiteTree) Page(t *testing.T, key string) *model.Page {
	t.Helper()
	p, ok := s.Pages[key]
	if !ok {
		t.Fatalf("page %q not created", key)
	}
	return p
}
