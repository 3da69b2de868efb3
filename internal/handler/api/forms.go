// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/i18n"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/pagetree"
)

// Argument names.
const (
	argCurrentURL                 = "current_url"
	argCurrentPage                = "current_page"
	argSite                       = "site"
	argMaxLevels                  = "max_levels"
	argUseSpecific                = "use_specific"
	argApplyActiveClasses         = "apply_active_classes"
	argAllowRepeatingParents      = "allow_repeating_parents"
	argUseAbsolutePageURLs        = "use_absolute_page_urls"
	argLanguage                   = "language"
	argHandle                     = "handle"
	argFallBackToDefaultSiteMenus = "fall_back_to_default_site_menus"
	argParentPage                 = "parent_page"
	argSectionRootPage            = "section_root_page"
)

const maxURLLength = 300

var argHelp = map[string]string{
	argCurrentURL: "The full URL of the page you are generating the menu for, including scheme and domain. " +
		"For example: 'https://www.example.com/about-us/'.",
	argCurrentPage:     "The ID of the page you are generating the menu for, if applicable.",
	argSite:            "The ID of the site you are generating the menu for, if known.",
	argMaxLevels:       "The maximum number of levels of menu items to include in the result (1 to 5).",
	argUseSpecific:     "When to fetch specific page types: 0 off, 1 auto, 2 top level, 3 always.",
	argApplyActiveClasses: "Whether to set 'active_class' on items to show the current position in the menu. " +
		"A value of 'true' needs 'current_page' or 'current_url'.",
	argAllowRepeatingParents: "Whether menu pages may repeat themselves at the top of their own children.",
	argUseAbsolutePageURLs:   "Whether page links include scheme and domain.",
	argLanguage:              "The language to render the menu in. Must be one the site serves.",
	argHandle:                "The handle of the flat menu to generate. For example: 'info' or 'contact'.",
	argFallBackToDefaultSiteMenus: "When the site has no flat menu with 'handle', use the one defined " +
		"for the default site.",
	argParentPage: "The ID of the page whose children the menu shows.",
	argSectionRootPage: "The ID of the section root page whose descendants the menu shows. Derived from " +
		"'current_page' or 'current_url' when omitted.",
}

// args are the cleaned arguments of one request.
type args struct {
	CurrentURL            *url.URL
	CurrentPage           *model.Page
	Site                  *model.Site
	MaxLevels             *int
	UseSpecific           *model.UseSpecific
	ApplyActiveClasses    bool
	AllowRepeatingParents bool
	UseAbsolutePageURLs   bool
	Language              string
	Handle                string
	FallBack              bool
	ParentPage            *model.Page
	SectionRootPage       *model.Page

	// BestMatch is the deepest page current_url routed to when it did not
	// route completely.
	BestMatch *model.Page
}

// hasContext reports whether a current page or URL was supplied.
func (a *args) hasContext() bool {
	return a.CurrentPage != nil || a.CurrentURL != nil
}

// form parses and cleans the arguments of an endpoint.
type form struct {
	h    *Handler
	r    *http.Request
	ep   *endpoint
	lang string

	data url.Values
	errs *model.ValidationError
	args args
}

func (h *Handler) newForm(r *http.Request, ep *endpoint) *form {
	f := &form{
		h:    h,
		r:    r,
		ep:   ep,
		lang: i18n.FromContext(r.Context()),
		data: url.Values{},
		errs: model.NewValidationError(),
	}
	q := r.URL.Query()
	initial := ep.initial(h.engine.Settings(), f.lang)
	// Optional arguments left out take their initial values, so they are
	// validated like supplied ones.
	for _, name := range ep.fields {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			v = initial[name]
		}
		if v != "" {
			f.data.Set(name, v)
		}
	}
	return f
}

// values returns the arguments as they were validated, in field order.
func (f *form) values() []argValue {
	out := make([]argValue, 0, len(f.ep.fields))
	for _, name := range f.ep.fields {
		out = append(out, argValue{
			Name:     name,
			Value:    f.data.Get(name),
			Help:     argHelp[name],
			Required: slices.Contains(f.ep.required, name),
			Errors:   f.errs.Fields[name],
		})
	}
	return out
}

func (f *form) addError(field, key string, a ...any) {
	f.errs.Add(field, i18n.T(f.lang, key, a...))
}

// clean parses every field and then runs the endpoint's checks, which may
// derive missing values. It returns a *model.ValidationError when any
// argument is invalid.
func (f *form) clean(ctx context.Context) (*args, error) {
	for _, name := range f.ep.fields {
		if err := f.cleanField(ctx, name, f.data.Get(name)); err != nil {
			return nil, err
		}
	}
	if f.errs.HasErrors() {
		return nil, f.errs
	}
	if f.ep.clean != nil {
		if err := f.ep.clean(ctx, f); err != nil {
			return nil, err
		}
	}
	if err := f.errs.Err(); err != nil {
		return nil, err
	}
	return &f.args, nil
}

func (f *form) cleanField(ctx context.Context, name, v string) error {
	if v == "" {
		if slices.Contains(f.ep.required, name) {
			f.addError(name, "form.required")
		}
		return nil
	}
	a := &f.args
	s := f.h.engine.Settings()
	var err error
	switch name {
	case argCurrentURL:
		a.CurrentURL = f.parseURL(name, v)
	case argCurrentPage:
		a.CurrentPage, err = f.parsePage(ctx, name, v, func(p *model.Page) bool { return p.Depth > 1 })
	case argParentPage:
		a.ParentPage, err = f.parsePage(ctx, name, v, func(p *model.Page) bool { return p.Depth > 1 })
	case argSectionRootPage:
		a.SectionRootPage, err = f.parsePage(ctx, name, v, func(p *model.Page) bool { return p.Depth == s.SectionRootDepth })
	case argSite:
		a.Site, err = f.parseSite(ctx, name, v)
	case argMaxLevels:
		if n, ok := f.parseInt(name, v); ok {
			if model.ValidMaxLevels(n) {
				a.MaxLevels = &n
			} else {
				f.addError(name, "form.range", model.MinMaxLevels, model.MaxMaxLevels)
			}
		}
	case argUseSpecific:
		if n, ok := f.parseInt(name, v); ok {
			if u := model.UseSpecific(n); u.Valid() {
				a.UseSpecific = &u
			} else {
				f.addError(name, "form.invalid_choice", v)
			}
		}
	case argApplyActiveClasses:
		a.ApplyActiveClasses = f.parseBool(name, v)
	case argAllowRepeatingParents:
		a.AllowRepeatingParents = f.parseBool(name, v)
	case argUseAbsolutePageURLs:
		a.UseAbsolutePageURLs = f.parseBool(name, v)
	case argFallBackToDefaultSiteMenus:
		a.FallBack = f.parseBool(name, v)
	case argLanguage:
		if i18n.IsSupported(v) {
			a.Language = strings.ToLower(v)
		} else {
			f.addError(name, "form.invalid_choice", v)
		}
	case argHandle:
		a.Handle = f.parseHandle(s, name, v)
	}
	return err
}

// parseBool accepts the forms a JavaScript client or a form select sends.
func (f *form) parseBool(name, v string) bool {
	switch v {
	case "true", "True", "1":
		return true
	case "false", "False", "0":
		return false
	}
	f.addError(name, "form.invalid_bool")
	return false
}

func (f *form) parseInt(name, v string) (int, bool) {
	n, err := strconv.Atoi(v)
	if err != nil {
		f.addError(name, "form.invalid_integer")
		return 0, false
	}
	return n, true
}

func (f *form) parseURL(name, v string) *url.URL {
	u, err := url.Parse(v)
	if err != nil || len(v) > maxURLLength || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		f.addError(name, "form.invalid_url")
		return nil
	}
	return u
}

func (f *form) parseHandle(s *config.MenuSettings, name, v string) string {
	if !model.IsSlug(v) {
		f.addError(name, "form.invalid_slug")
		return ""
	}
	if !s.AllowsFlatMenuHandle(v) {
		f.addError(name, "form.invalid_choice", v)
		return ""
	}
	return v
}

// parsePage looks up the page with ID v. Pages failing allowed are
// rejected as if they did not exist.
func (f *form) parsePage(ctx context.Context, name, v string, allowed func(*model.Page) bool) (*model.Page, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f.addError(name, "form.invalid_page")
		return nil, nil
	}
	p, err := f.h.engine.Tree().Page(ctx, id)
	if errors.Is(err, pagetree.ErrNotFound) || (err == nil && !allowed(p)) {
		f.addError(name, "form.invalid_page")
		return nil, nil
	}
	return p, err
}

func (f *form) parseSite(ctx context.Context, name, v string) (*model.Site, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f.addError(name, "form.invalid_site")
		return nil, nil
	}
	site, err := f.h.engine.Tree().Site(ctx, id)
	if errors.Is(err, pagetree.ErrNotFound) {
		f.addError(name, "form.invalid_site")
		return nil, nil
	}
	return site, err
}
