// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/menu"
	"github.com/olegiv/ocms-menus/internal/pagetree"
	"github.com/olegiv/ocms-menus/internal/render"
	"github.com/olegiv/ocms-menus/internal/testutil"
	"github.com/olegiv/ocms-menus/web"
)

// newService builds home/{about (repeated as "Overview")/{team, history}, services}
// with a two-level main menu of about and services.
func newService(t *testing.T, adjust ...func(*config.MenuSettings)) (*MenuService, *testutil.SiteTree) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	st := testutil.NewSiteTree(t, db, "localhost", 80)
	st.Add(t, "about", testutil.AsMenuPage(true, "Overview"))
	st.Add(t, "about/team")
	st.Add(t, "about/history")
	st.Add(t, "services")
	st.SetMainMenu(t, 2, 0, st.LinkTo(t, "about"), st.LinkTo(t, "services"))

	logger := testutil.TestLoggerSilent()
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	settings := config.DefaultMenuSettings()
	for _, fn := range adjust {
		fn(settings)
	}
	loader, err := render.NewLoader(render.Config{FS: web.Templates(), Funcs: menu.TemplateFuncs(), Logger: logger})
	require.NoError(t, err)
	engine, err := menu.NewEngine(menu.Config{
		Tree:      pagetree.New(st.Q, c, time.Minute, logger),
		Store:     st.Q,
		Settings:  settings,
		Templates: loader,
		Logger:    logger,
	})
	require.NoError(t, err)
	return NewMenuService(engine, logger), st
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestContextual(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		target        string
		wantPage      string
		wantNoPage    bool
		wantAncestors []string
	}{
		{"exact match", "http://localhost/about/team/", "about/team", false, []string{"about"}},
		{"best match is an ancestor", "http://localhost/about/team/unknown/", "", true, []string{"about", "about/team"}},
		{"site root", "http://localhost/", "", false, nil},
		{"other host falls back to the default site", "http://elsewhere.test/services/", "services", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv, err := svc.Contextual(ctx, Page{Request: get(tt.target)})
			require.NoError(t, err)
			require.NotNil(t, cv.CurrentSite)
			assert.Equal(t, st.Site.ID, cv.CurrentSite.ID)

			if tt.wantNoPage {
				assert.Nil(t, cv.CurrentPage)
			} else {
				require.NotNil(t, cv.CurrentPage)
				assert.Equal(t, st.Page(t, tt.wantPage).ID, cv.CurrentPage.ID)
			}

			want := make([]int64, 0, len(tt.wantAncestors))
			for _, key := range tt.wantAncestors {
				want = append(want, st.Page(t, key).ID)
			}
			assert.ElementsMatch(t, want, cv.CurrentPageAncestorIDs)
		})
	}
}

func TestContextual_GuessDisabled(t *testing.T) {
	svc, _ := newService(t, func(s *config.MenuSettings) { s.GuessTreePositionFromPath = false })

	cv, err := svc.Contextual(context.Background(), Page{Request: get("http://localhost/about/team/")})
	require.NoError(t, err)
	assert.NotNil(t, cv.CurrentSite)
	assert.Nil(t, cv.CurrentPage)
	assert.Empty(t, cv.CurrentPageAncestorIDs)
}

func TestMainMenu(t *testing.T) {
	svc, _ := newService(t)

	html, err := svc.MainMenu(context.Background(), Page{Request: get("http://localhost/about/team/")}, menu.Options{})
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, `<nav class="menu menu-main">`)
	assert.Contains(t, out, `<li class="menu-item ancestor has-children">`)
	assert.Contains(t, out, `<a href="/about/">about</a>`)
	assert.Contains(t, out, `<a href="/services/">services</a>`)
	// The sub-menu of about repeats it first and marks the current page.
	assert.Contains(t, out, `<ul class="sub-menu menu-level-2">`)
	assert.Contains(t, out, `<a href="/about/">Overview</a>`)
	assert.Contains(t, out, `<li class="menu-item active">`)
	assert.Less(t, strings.Index(out, "Overview"), strings.Index(out, ">team<"))
}

func TestMainMenu_NoActiveClassesWithoutPage(t *testing.T) {
	svc, _ := newService(t, func(s *config.MenuSettings) { s.GuessTreePositionFromPath = false })

	html, err := svc.MainMenu(context.Background(), Page{Request: get("http://localhost/about/team/")}, menu.Options{})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "ancestor")
	assert.NotContains(t, string(html), "active")
}

func TestFlatMenu(t *testing.T) {
	svc, st := newService(t)
	st.AddFlatMenu(t, st.Site, "footer", "Footer", 1, testutil.URLItem("/contact/", "Contact"))
	ctx := context.Background()

	html, err := svc.FlatMenu(ctx, Page{Request: get("http://localhost/contact/")}, "footer", menu.Options{
		ShowMenuHeading:    true,
		ApplyActiveClasses: menu.Bool(true),
	})
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h3 class="menu-heading">Footer</h3>`)
	assert.Contains(t, string(html), `<li class="menu-item active">`)

	html, err = svc.FlatMenu(ctx, Page{Request: get("http://localhost/")}, "missing", menu.Options{})
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestFlatMenu_MarkdownHeading(t *testing.T) {
	svc, st := newService(t)
	st.AddFlatMenu(t, st.Site, "quick", "Quick *links* <script>x()</script>", 1, testutil.URLItem("/contact/", "Contact"))

	html, err := svc.FlatMenu(context.Background(), Page{Request: get("http://localhost/")}, "quick", menu.Options{ShowMenuHeading: true})
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h3 class="menu-heading">Quick <em>links</em>`)
	assert.NotContains(t, string(html), "<script>")
}

func TestSectionMenu(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	html, err := svc.SectionMenu(ctx, Page{Request: get("http://localhost/about/history/")}, menu.Options{})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, `<a class="section-root ancestor" href="/about/">about</a>`)
	assert.Contains(t, out, `<a href="/about/">Overview</a>`)
	assert.Contains(t, out, `<a href="/about/history/">history</a>`)

	// The site root is above any section.
	html, err = svc.SectionMenu(ctx, Page{Request: get("http://localhost/")}, menu.Options{})
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestChildrenMenu(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	html, err := svc.ChildrenMenu(ctx, Page{Site: st.Site, Page: st.Page(t, "about")}, menu.Options{ApplyActiveClasses: menu.Bool(true)})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, `<ul class="menu menu-children menu-level-1">`)
	assert.Contains(t, out, `<li class="menu-item active">`)
	assert.Contains(t, out, `<a href="/about/team/">team</a>`)

	// No parent and no current page.
	html, err = svc.ChildrenMenu(ctx, Page{Site: st.Site}, menu.Options{})
	require.NoError(t, err)
	assert.Empty(t, html)
}
