// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/i18n"
	"github.com/olegiv/ocms-menus/internal/menu"
	"github.com/olegiv/ocms-menus/internal/util"
)

// endpoint describes one menu endpoint: its arguments in display order,
// their initial values and the checks run once they are parsed.
type endpoint struct {
	name      string
	className string
	fields    []string
	required  []string
	initial   func(s *config.MenuSettings, lang string) map[string]string
	clean     func(ctx context.Context, f *form) error

	// exactPageOnly ignores a partial match of current_url.
	exactPageOnly bool
}

var commonFields = []string{
	argSite,
	argCurrentPage,
	argCurrentURL,
	argMaxLevels,
	argUseSpecific,
	argApplyActiveClasses,
	argAllowRepeatingParents,
	argUseAbsolutePageURLs,
	argLanguage,
}

func baseInitial(_ *config.MenuSettings, lang string) map[string]string {
	return map[string]string{
		argApplyActiveClasses:    "true",
		argAllowRepeatingParents: "true",
		argUseAbsolutePageURLs:   "false",
		argLanguage:              lang,
	}
}

var (
	indexEndpoint = &endpoint{name: "", className: "Index"}

	mainMenuEndpoint = &endpoint{
		name:      "main_menu",
		className: "MainMenu",
		fields:    commonFields,
		initial:   baseInitial,
		clean:     cleanMenuModel,
	}

	flatMenuEndpoint = &endpoint{
		name:      "flat_menu",
		className: "FlatMenu",
		fields:    append([]string{argHandle, argFallBackToDefaultSiteMenus}, commonFields...),
		required:  []string{argHandle},
		initial: func(s *config.MenuSettings, lang string) map[string]string {
			m := baseInitial(s, lang)
			m[argFallBackToDefaultSiteMenus] = "true"
			return m
		},
		clean: cleanMenuModel,
	}

	childrenMenuEndpoint = &endpoint{
		name:      "children_menu",
		className: "ChildrenMenu",
		fields:    append([]string{argParentPage}, commonFields...),
		required:  []string{argParentPage},
		initial: func(s *config.MenuSettings, lang string) map[string]string {
			m := baseInitial(s, lang)
			m[argMaxLevels] = strconv.Itoa(s.DefaultChildrenMenuMaxLevels)
			m[argUseSpecific] = strconv.Itoa(s.DefaultChildrenMenuUseSpecific)
			m[argApplyActiveClasses] = "false"
			return m
		},
		clean:         cleanBase,
		exactPageOnly: true,
	}

	sectionMenuEndpoint = &endpoint{
		name:      "section_menu",
		className: "SectionMenu",
		fields:    append([]string{argSectionRootPage}, commonFields...),
		initial: func(s *config.MenuSettings, lang string) map[string]string {
			m := baseInitial(s, lang)
			m[argMaxLevels] = strconv.Itoa(s.DefaultSectionMenuMaxLevels)
			m[argUseSpecific] = strconv.Itoa(s.DefaultSectionMenuUseSpecific)
			return m
		},
		clean: cleanSectionMenu,
	}

	menuEndpoints = []*endpoint{mainMenuEndpoint, flatMenuEndpoint, sectionMenuEndpoint, childrenMenuEndpoint}
)

// Index lists the menu endpoints.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	base := apiBaseURL(r, indexEndpoint)
	h.respond(w, r, indexEndpoint, nil, http.StatusOK, IndexJSON{
		MainMenu:     base + mainMenuEndpoint.name + "/",
		FlatMenu:     base + flatMenuEndpoint.name + "/",
		SectionMenu:  base + sectionMenuEndpoint.name + "/",
		ChildrenMenu: base + childrenMenuEndpoint.name + "/",
	})
}

// MainMenu serves the main menu of a site.
func (h *Handler) MainMenu(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, mainMenuEndpoint, func(ctx context.Context, a *args, cv menu.ContextualVals, opts menu.Options) (any, error) {
		m, err := h.engine.MainMenu(ctx, cv, opts)
		if err != nil {
			return nil, err
		}
		return serializeMainMenu(ctx, m)
	})
}

// FlatMenu serves the flat menu with the requested handle.
func (h *Handler) FlatMenu(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, flatMenuEndpoint, func(ctx context.Context, a *args, cv menu.ContextualVals, opts menu.Options) (any, error) {
		opts.FallBackToDefaultSiteMenus = menu.Bool(a.FallBack)
		m, err := h.engine.FlatMenu(ctx, cv, a.Handle, opts)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, &notFoundError{className: flatMenuEndpoint.className}
		}
		return serializeFlatMenu(ctx, m)
	})
}

// ChildrenMenu serves the children of the requested parent page.
func (h *Handler) ChildrenMenu(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, childrenMenuEndpoint, func(ctx context.Context, a *args, cv menu.ContextualVals, opts menu.Options) (any, error) {
		opts.ParentPage = a.ParentPage
		m, err := h.engine.ChildrenMenu(ctx, cv, opts)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, &notFoundError{className: childrenMenuEndpoint.className}
		}
		return serializeChildrenMenu(ctx, m)
	})
}

// SectionMenu serves the menu of a section.
func (h *Handler) SectionMenu(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, sectionMenuEndpoint, func(ctx context.Context, a *args, cv menu.ContextualVals, opts menu.Options) (any, error) {
		cv.CurrentSectionRoot = a.SectionRootPage
		m, err := h.engine.SectionMenu(ctx, cv, opts)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, &notFoundError{className: sectionMenuEndpoint.className}
		}
		return serializeSectionMenu(ctx, m)
	})
}

type buildFunc func(ctx context.Context, a *args, cv menu.ContextualVals, opts menu.Options) (any, error)

// serve validates the arguments, works out the contextual values and
// writes what build returns.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, ep *endpoint, build buildFunc) {
	ctx := r.Context()
	f := h.newForm(r, ep)
	a, err := f.clean(ctx)
	if err != nil {
		h.respondError(w, r, ep, f, err)
		return
	}

	lang := a.Language
	if lang == "" {
		lang = f.lang
	}
	ctx = i18n.WithLanguage(ctx, lang)
	r = r.WithContext(ctx)

	cv, err := h.contextual(ctx, r, a, lang)
	if err != nil {
		h.respondError(w, r, ep, f, err)
		return
	}
	opts := menu.Options{
		MaxLevels:             a.MaxLevels,
		UseSpecific:           a.UseSpecific,
		ApplyActiveClasses:    menu.Bool(a.ApplyActiveClasses),
		AllowRepeatingParents: menu.Bool(a.AllowRepeatingParents),
		UseAbsolutePageURLs:   a.UseAbsolutePageURLs,
		// Serialized menus always carry their sub-menus.
		AddSubMenusInline: menu.Bool(true),
	}

	data, err := build(ctx, a, cv, opts)
	if err != nil {
		h.respondError(w, r, ep, f, err)
		return
	}
	h.respond(w, r, ep, f, http.StatusOK, data)
}

// contextual builds the values a menu renders against from the cleaned
// arguments rather than from the API request itself.
func (h *Handler) contextual(ctx context.Context, r *http.Request, a *args, lang string) (menu.ContextualVals, error) {
	info := menu.RequestInfo{
		Language:      lang,
		Site:          a.Site,
		Page:          a.CurrentPage,
		SkipAncestors: !a.ApplyActiveClasses,
	}
	if info.Page == nil && a.BestMatch != nil {
		info.Page = a.BestMatch
		info.PageIsGuess = true
	}
	if a.CurrentURL != nil {
		info.Request = r
		info.RequestPath = a.CurrentURL.Path
		if info.RequestPath == "" {
			info.RequestPath = "/"
		}
	}
	return h.engine.Contextual(ctx, info)
}

// apiBaseURL returns the absolute URL the endpoints are mounted under,
// with a trailing slash.
func apiBaseURL(r *http.Request, ep *endpoint) string {
	prefix := r.URL.Path
	if ep.name != "" {
		prefix = strings.TrimSuffix(strings.TrimSuffix(prefix, "/"), ep.name)
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return util.RequestScheme(r) + "://" + r.Host + prefix
}
