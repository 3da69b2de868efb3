// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api serves menus as JSON: the main menu and flat menus of a
// site, and section and children menus of the page tree.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-menus/internal/i18n"
	"github.com/olegiv/ocms-menus/internal/menu"
	"github.com/olegiv/ocms-menus/internal/middleware"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/web"
)

// browsableTemplate is the page the browsable format renders responses in.
const browsableTemplate = "api/browsable.html"

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	engine    *menu.Engine
	browsable *template.Template
	logger    *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(engine *menu.Engine, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t, err := template.New("browsable.html").Funcs(template.FuncMap{
		"t": i18n.T,
	}).ParseFS(web.Templates(), browsableTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", browsableTemplate, err)
	}
	return &Handler{engine: engine, browsable: t, logger: logger}, nil
}

// Routes registers the API endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/main_menu/", h.MainMenu)
	r.Get("/flat_menu/", h.FlatMenu)
	r.Get("/children_menu/", h.ChildrenMenu)
	r.Get("/section_menu/", h.SectionMenu)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// notFoundError is returned by a view when no menu matches the request.
type notFoundError struct {
	className string
}

func (e *notFoundError) Error() string {
	return "no " + e.className + " matches the supplied values"
}

// respond writes data, or the browsable page wrapping it when the client
// asked for one.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, ep *endpoint, f *form, status int, data any) {
	if wantsBrowsable(r) {
		h.renderBrowsable(w, r, ep, f, status, data)
		return
	}
	WriteJSON(w, status, data)
}

// respondError maps err to a response: validation errors are 400 with the
// messages per field, a missing menu is 404 and anything else is 500.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, ep *endpoint, f *form, err error) {
	lang := i18n.FromContext(r.Context())

	var verr *model.ValidationError
	var nf *notFoundError
	switch {
	case errors.As(err, &verr):
		h.respond(w, r, ep, f, http.StatusBadRequest, verr.Fields)
	case errors.As(err, &nf):
		h.respond(w, r, ep, f, http.StatusNotFound, middleware.APIError{Detail: i18n.T(lang, "api.not_found", nf.className)})
	case errors.Is(err, menu.ErrNoSite):
		h.respond(w, r, ep, f, http.StatusNotFound, middleware.APIError{Detail: i18n.T(lang, "api.not_found", ep.className)})
	default:
		h.logger.Error("menu request failed", "endpoint", ep.name, "url", r.URL.String(), "error", err)
		h.respond(w, r, ep, f, http.StatusInternalServerError, middleware.APIError{Detail: i18n.T(lang, "api.server_error")})
	}
}
