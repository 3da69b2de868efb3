// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// PageBranch selects pages under PathPrefix with DepthAfter < depth <= DepthThrough.
type PageBranch struct {
	PathPrefix   string
	DepthAfter   int
	DepthThrough int
}

// PageQuery describes a set of pages. The zero value matches every page.
// Queries are values: the With* methods return modified copies.
type PageQuery struct {
	// Visibility filters.
	LiveOnly       bool
	ExcludeExpired bool
	InMenusOnly    bool

	// IDs restricts the result to the given page IDs when non-nil.
	IDs []int64
	// Branches restricts the result to the union of the branches when non-empty.
	Branches []PageBranch

	ExcludeIDs          []int64
	ContentTypes        []string
	ExcludeContentTypes []string

	// Empty makes the query match nothing.
	Empty bool
}

// MenuPageQuery returns the base query for pages eligible to appear in menus.
func MenuPageQuery() PageQuery {
	return PageQuery{LiveOnly: true, ExcludeExpired: true, InMenusOnly: true}
}

// WithIDs returns a copy restricted to ids.
func (q PageQuery) WithIDs(ids []int64) PageQuery {
	q.IDs = slices.Clone(ids)
	if q.IDs == nil {
		q.IDs = []int64{}
	}
	return q
}

// WithBranches returns a copy restricted to the union of branches.
func (q PageQuery) WithBranches(branches ...PageBranch) PageQuery {
	q.Branches = append(slices.Clone(q.Branches), branches...)
	return q
}

// Exclude returns a copy that leaves out the given page IDs.
func (q PageQuery) Exclude(ids ...int64) PageQuery {
	q.ExcludeIDs = append(slices.Clone(q.ExcludeIDs), ids...)
	return q
}

// None returns a copy that matches nothing.
func (q PageQuery) None() PageQuery {
	q.Empty = true
	return q
}

// Matches reports whether p satisfies the query. Stores translate queries
// to SQL; Matches states the same semantics in Go.
func (q PageQuery) Matches(p *Page) bool {
	if q.Empty {
		return false
	}
	if q.LiveOnly && !p.Live {
		return false
	}
	if q.ExcludeExpired && p.Expired {
		return false
	}
	if q.InMenusOnly && !p.ShowInMenus {
		return false
	}
	if q.IDs != nil && !slices.Contains(q.IDs, p.ID) {
		return false
	}
	if slices.Contains(q.ExcludeIDs, p.ID) {
		return false
	}
	if len(q.ContentTypes) > 0 && !slices.Contains(q.ContentTypes, p.ContentType) {
		return false
	}
	if slices.Contains(q.ExcludeContentTypes, p.ContentType) {
		return false
	}
	if len(q.Branches) > 0 {
		for _, b := range q.Branches {
			if len(p.Path) >= len(b.PathPrefix) && p.Path[:len(b.PathPrefix)] == b.PathPrefix &&
				p.Depth > b.DepthAfter && p.Depth <= b.DepthThrough {
				return true
			}
		}
		return false
	}
	return true
}

// MenuItemQuery describes the items of one persisted menu.
type MenuItemQuery struct {
	Tables MenuTables
	MenuID int64

	// ForDisplay keeps custom URL items and items whose page is live,
	// not expired and shown in menus.
	ForDisplay bool

	ExcludeIDs []int64
	// Handles restricts the result to items with one of the handles when non-empty.
	Handles []string
	// PagesOnly drops custom URL items.
	PagesOnly bool
}
