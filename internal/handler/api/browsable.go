// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-menus/internal/i18n"
)

// formatParam selects the response format: "api" for the browsable page,
// "json" for plain JSON.
const formatParam = "format"

// argValue is an argument as listed on the browsable page.
type argValue struct {
	Name     string
	Value    string
	Help     string
	Required bool
	Errors   []string
}

type endpointLink struct {
	Name    string
	URL     string
	Current bool
}

type browsablePage struct {
	Lang       string
	Name       string
	Path       string
	Status     int
	StatusText string
	Body       string
	Args       []argValue
	Endpoints  []endpointLink
}

// wantsBrowsable reports whether the client asked for HTML, either with
// ?format=api or through its Accept header.
func wantsBrowsable(r *http.Request) bool {
	switch r.URL.Query().Get(formatParam) {
	case "api":
		return true
	case "json":
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (h *Handler) renderBrowsable(w http.ResponseWriter, r *http.Request, ep *endpoint, f *form, status int, data any) {
	body, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		h.logger.Error("encoding browsable response", "error", err)
		WriteJSON(w, status, data)
		return
	}

	base := apiBaseURL(r, ep)
	page := browsablePage{
		Lang:       i18n.FromContext(r.Context()),
		Name:       ep.className,
		Path:       r.URL.RequestURI(),
		Status:     status,
		StatusText: http.StatusText(status),
		Body:       string(body),
	}
	if f != nil {
		page.Args = f.values()
	}
	for _, e := range menuEndpoints {
		page.Endpoints = append(page.Endpoints, endpointLink{
			Name:    e.name,
			URL:     base + e.name + "/?" + formatParam + "=api",
			Current: e == ep,
		})
	}

	var buf bytes.Buffer
	if err := h.browsable.Execute(&buf, page); err != nil {
		h.logger.Error("rendering browsable response", "error", err)
		WriteJSON(w, status, data)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
