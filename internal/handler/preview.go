// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-menus/internal/i18n"
	"github.com/olegiv/ocms-menus/internal/menu"
	"github.com/olegiv/ocms-menus/internal/render"
	"github.com/olegiv/ocms-menus/internal/service"
)

// PreviewTemplate is the page the preview handler renders menus into.
const PreviewTemplate = "preview.html"

// PreviewHandler renders every menu for a path of the site being
// requested, the way a page template using the menu tags would.
type PreviewHandler struct {
	menus     *service.MenuService
	templates *render.Loader
	logger    *slog.Logger
}

// NewPreviewHandler creates a preview handler.
func NewPreviewHandler(menus *service.MenuService, templates *render.Loader, logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{menus: menus, templates: templates, logger: logger}
}

type flatMenuHTML struct {
	Handle string
	HTML   template.HTML
}

type previewPage struct {
	Lang         string
	Path         string
	MainMenu     template.HTML
	SectionMenu  template.HTML
	ChildrenMenu template.HTML
	FlatMenus    []flatMenuHTML
}

// Preview handles GET /preview/*. The wildcard is the page path; each
// ?flat=<handle> adds a flat menu.
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Menus see the previewed path as the request path.
	pageReq := r.Clone(ctx)
	pageReq.URL.Path = "/" + chi.URLParam(r, "*")
	pageReq.URL.RawPath = ""
	p := service.Page{Request: pageReq}

	data := previewPage{
		Lang: i18n.FromContext(ctx),
		Path: pageReq.URL.Path,
	}
	var err error
	if data.MainMenu, err = h.menus.MainMenu(ctx, p, menu.Options{}); err != nil {
		h.fail(w, "main menu", err)
		return
	}
	if data.SectionMenu, err = h.menus.SectionMenu(ctx, p, menu.Options{}); err != nil {
		h.fail(w, "section menu", err)
		return
	}
	if data.ChildrenMenu, err = h.menus.ChildrenMenu(ctx, p, menu.Options{}); err != nil {
		h.fail(w, "children menu", err)
		return
	}
	for _, handle := range r.URL.Query()["flat"] {
		html, err := h.menus.FlatMenu(ctx, p, handle, menu.Options{})
		if err != nil {
			h.fail(w, "flat menu "+handle, err)
			return
		}
		data.FlatMenus = append(data.FlatMenus, flatMenuHTML{Handle: handle, HTML: html})
	}

	data.MainMenu = trimHTML(data.MainMenu)
	data.SectionMenu = trimHTML(data.SectionMenu)
	data.ChildrenMenu = trimHTML(data.ChildrenMenu)
	for i := range data.FlatMenus {
		data.FlatMenus[i].HTML = trimHTML(data.FlatMenus[i].HTML)
	}

	tmpl, err := h.templates.Load(PreviewTemplate)
	if err != nil {
		h.fail(w, "loading preview template", err)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.fail(w, "rendering preview", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *PreviewHandler) fail(w http.ResponseWriter, what string, err error) {
	h.logger.Error("preview failed", "step", what, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// trimHTML drops the whitespace an empty menu template leaves behind.
func trimHTML(h template.HTML) template.HTML {
	return template.HTML(strings.TrimSpace(string(h))) //nolint:gosec // rendered by html/template
}
