// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"net/http"

	"github.com/olegiv/ocms-menus/internal/model"
)

// RequestInfo is what a caller knows about the request a menu renders for.
type RequestInfo struct {
	Request     *http.Request
	RequestPath string
	Language    string
	Site        *model.Site
	Page        *model.Page
	// PageIsGuess marks Page as only the best match for the URL. It is
	// then not the current page but counts as one of its ancestors.
	PageIsGuess bool
	// SkipAncestors leaves the ancestor set empty, for menus rendered
	// without active classes.
	SkipAncestors bool

	ParentContext map[string]any
}

// Contextual returns the contextual values for info: the section root and
// the ancestors of the current page are looked up here.
func (e *Engine) Contextual(ctx context.Context, info RequestInfo) (ContextualVals, error) {
	cv := ContextualVals{
		ParentContext: info.ParentContext,
		Request:       info.Request,
		RequestPath:   info.RequestPath,
		Language:      info.Language,
		CurrentSite:   info.Site,
		CurrentLevel:  1,
	}
	if cv.RequestPath == "" && info.Request != nil {
		cv.RequestPath = info.Request.URL.Path
	}
	if !info.PageIsGuess {
		cv.CurrentPage = info.Page
	}

	page := info.Page
	if page == nil {
		return cv, nil
	}
	root, err := e.tree.SectionRoot(ctx, page, e.settings.SectionRootDepth)
	if err != nil {
		return ContextualVals{}, err
	}
	cv.CurrentSectionRoot = root

	if !info.SkipAncestors {
		ids, err := e.tree.AncestorIDs(ctx, page, info.PageIsGuess, e.settings.SectionRootDepth)
		if err != nil {
			return ContextualVals{}, err
		}
		cv.CurrentPageAncestorIDs = ids
	}
	return cv, nil
}
