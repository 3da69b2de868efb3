// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/menu"
	"github.com/olegiv/ocms-menus/internal/pagetree"
	"github.com/olegiv/ocms-menus/internal/render"
	"github.com/olegiv/ocms-menus/internal/service"
	"github.com/olegiv/ocms-menus/internal/testutil"
	"github.com/olegiv/ocms-menus/web"
)

func newPreviewRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.TestMemoryDB(t)

	st := testutil.NewSiteTree(t, db, "localhost", 80)
	st.Add(t, "about")
	st.Add(t, "about/team")
	st.Add(t, "about/history")
	st.Add(t, "contact")
	st.SetMainMenu(t, 2, 0, st.LinkTo(t, "about"), st.LinkTo(t, "contact"))
	st.AddFlatMenu(t, st.Site, "footer", "Footer", 1, st.LinkTo(t, "contact"))

	logger := testutil.TestLoggerSilent()
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	loader, err := render.NewLoader(render.Config{FS: web.Templates(), Funcs: menu.TemplateFuncs(), Logger: logger})
	require.NoError(t, err)
	engine, err := menu.NewEngine(menu.Config{
		Tree:      pagetree.New(st.Q, c, time.Minute, logger),
		Store:     st.Q,
		Settings:  config.DefaultMenuSettings(),
		Templates: loader,
		Logger:    logger,
	})
	require.NoError(t, err)

	h := NewPreviewHandler(service.NewMenuService(engine, logger), loader, logger)
	r := chi.NewRouter()
	r.Get("/preview/*", h.Preview)
	return r
}

func preview(t *testing.T, router http.Handler, target string) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	return w.Body.String()
}

func TestPreview_DeepPage(t *testing.T) {
	router := newPreviewRouter(t)

	body := preview(t, router, "/preview/about/team/?flat=footer")

	assert.Contains(t, body, `<h1>/about/team/</h1>`)
	assert.Contains(t, body, `menu-main`)
	assert.Contains(t, body, `id="section-menu"`)
	assert.Contains(t, body, `<a href="/about/team/">team</a>`)
	assert.Contains(t, body, `menu-footer`)
	// team has no children.
	assert.NotContains(t, body, `id="children-menu"`)
}

func TestPreview_SectionRootShowsChildren(t *testing.T) {
	router := newPreviewRouter(t)

	body := preview(t, router, "/preview/about/")

	assert.Contains(t, body, `id="children-menu"`)
	assert.Contains(t, body, `<a href="/about/history/">history</a>`)
}

func TestPreview_UnknownFlatMenuIsEmpty(t *testing.T) {
	router := newPreviewRouter(t)

	body := preview(t, router, "/preview/?flat=nope")

	assert.Contains(t, body, `<div id="flat-menu-nope"></div>`)
	assert.NotContains(t, body, `id="section-menu"`)
}
