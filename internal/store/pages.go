// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/util"
)

const pageColumns = `id, path, depth, numchild, slug, title, seo_title, draft_title,
	url_path, content_type, live, expired, show_in_menus`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*model.Page, error) {
	var p model.Page
	err := row.Scan(
		&p.ID, &p.Path, &p.Depth, &p.NumChild, &p.Slug, &p.Title, &p.SeoTitle, &p.DraftTitle,
		&p.URLPath, &p.ContentType, &p.Live, &p.Expired, &p.ShowInMenus,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (q *Queries) queryPages(ctx context.Context, query string, args ...any) ([]*model.Page, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var pages []*model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPage returns the page with the given ID.
func (q *Queries) GetPage(ctx context.Context, id int64) (*model.Page, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// ListPages returns the pages matched by pq in tree order.
func (q *Queries) ListPages(ctx context.Context, pq model.PageQuery) ([]*model.Page, error) {
	where, args, empty := pageWhere(pq)
	if empty {
		return nil, nil
	}
	query := `SELECT ` + pageColumns + ` FROM pages`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY path`
	return q.queryPages(ctx, query, args...)
}

// pageWhere translates a PageQuery into a WHERE clause. empty is true when
// the query cannot match anything.
func pageWhere(pq model.PageQuery) (where string, args []any, empty bool) {
	if pq.Empty || (pq.IDs != nil && len(pq.IDs) == 0) {
		return "", nil, true
	}

	var conds []string
	if pq.LiveOnly {
		conds = append(conds, "live = 1")
	}
	if pq.ExcludeExpired {
		conds = append(conds, "expired = 0")
	}
	if pq.InMenusOnly {
		conds = append(conds, "show_in_menus = 1")
	}
	if pq.IDs != nil {
		conds = append(conds, "id IN ("+placeholders(len(pq.IDs))+")")
		args = append(args, int64Args(pq.IDs)...)
	}
	if len(pq.ExcludeIDs) > 0 {
		conds = append(conds, "id NOT IN ("+placeholders(len(pq.ExcludeIDs))+")")
		args = append(args, int64Args(pq.ExcludeIDs)...)
	}
	if len(pq.ContentTypes) > 0 {
		conds = append(conds, "content_type IN ("+placeholders(len(pq.ContentTypes))+")")
		args = append(args, stringArgs(pq.ContentTypes)...)
	}
	if len(pq.ExcludeContentTypes) > 0 {
		conds = append(conds, "content_type NOT IN ("+placeholders(len(pq.ExcludeContentTypes))+")")
		args = append(args, stringArgs(pq.ExcludeContentTypes)...)
	}
	if len(pq.Branches) > 0 {
		branches := make([]string, 0, len(pq.Branches))
		for _, b := range pq.Branches {
			branches = append(branches, "(substr(path, 1, ?) = ? AND depth > ? AND depth <= ?)")
			args = append(args, len(b.PathPrefix), b.PathPrefix, b.DepthAfter, b.DepthThrough)
		}
		conds = append(conds, "("+strings.Join(branches, " OR ")+")")
	}
	return strings.Join(conds, " AND "), args, false
}

// ChildBySlug returns the child of parent with the given slug.
func (q *Queries) ChildBySlug(ctx context.Context, parent *model.Page, slug string) (*model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages
		WHERE substr(path, 1, ?) = ? AND depth = ? AND slug = ?
		ORDER BY path LIMIT 1`,
		len(parent.Path), parent.Path, parent.Depth+1, slug,
	)
	return scanPage(row)
}

// Ancestors returns the ancestors of page from the root down, including
// the page itself when inclusive is true.
func (q *Queries) Ancestors(ctx context.Context, page *model.Page, inclusive bool) ([]*model.Page, error) {
	var paths []string
	for i := model.PathStepLen; i < len(page.Path); i += model.PathStepLen {
		paths = append(paths, page.Path[:i])
	}
	if inclusive {
		paths = append(paths, page.Path)
	}
	if len(paths) == 0 {
		return nil, nil
	}
	return q.queryPages(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE path IN (`+placeholders(len(paths))+`) ORDER BY depth`,
		stringArgs(paths)...,
	)
}

// CreatePageParams holds the fields of a new page.
type CreatePageParams struct {
	Slug        string
	Title       string
	SeoTitle    string
	ContentType string
	Live        bool
	Expired     bool
	ShowInMenus bool
}

const pathAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// encodePathStep formats n as a fixed-width base-36 path segment.
func encodePathStep(n int64) (string, error) {
	s := strings.ToUpper(strconv.FormatInt(n, len(pathAlphabet)))
	if len(s) > model.PathStepLen {
		return "", fmt.Errorf("path segment %d overflows %d characters", n, model.PathStepLen)
	}
	return strings.Repeat("0", model.PathStepLen-len(s)) + s, nil
}

func (q *Queries) nextPath(ctx context.Context, prefix string, depth int) (string, error) {
	var last sql.NullString
	err := q.db.QueryRowContext(ctx,
		`SELECT MAX(path) FROM pages WHERE substr(path, 1, ?) = ? AND depth = ?`,
		len(prefix), prefix, depth,
	).Scan(&last)
	if err != nil {
		return "", err
	}

	var n int64 = 1
	if last.Valid && last.String != "" {
		step := last.String[len(last.String)-model.PathStepLen:]
		cur, err := strconv.ParseInt(step, len(pathAlphabet), 64)
		if err != nil {
			return "", fmt.Errorf("parsing path %q: %w", last.String, err)
		}
		n = cur + 1
	}
	seg, err := encodePathStep(n)
	if err != nil {
		return "", err
	}
	return prefix + seg, nil
}

func (q *Queries) insertPage(ctx context.Context, path string, depth int, urlPath string, p CreatePageParams) (*model.Page, error) {
	contentType := p.ContentType
	if contentType == "" {
		contentType = model.ContentTypePage
	}
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO pages (path, depth, slug, title, seo_title, url_path, content_type, live, expired, show_in_menus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns,
		path, depth, p.Slug, p.Title, p.SeoTitle, urlPath, contentType, p.Live, p.Expired, p.ShowInMenus,
	)
	return scanPage(row)
}

// AddRootPage creates a page at depth 1.
func (q *Queries) AddRootPage(ctx context.Context, p CreatePageParams) (*model.Page, error) {
	path, err := q.nextPath(ctx, "", 1)
	if err != nil {
		return nil, fmt.Errorf("allocating root path: %w", err)
	}
	page, err := q.insertPage(ctx, path, 1, "/", p)
	if err != nil {
		return nil, fmt.Errorf("creating root page: %w", err)
	}
	return page, nil
}

// AddChildPage creates a page as the last child of parent and updates the
// parent's child count, both in the database and on parent.
func (q *Queries) AddChildPage(ctx context.Context, parent *model.Page, p CreatePageParams) (*model.Page, error) {
	if p.Slug == "" {
		return nil, errors.New("child page needs a slug")
	}
	if !util.IsValidSlug(p.Slug) {
		return nil, fmt.Errorf("invalid slug %q", p.Slug)
	}
	path, err := q.nextPath(ctx, parent.Path, parent.Depth+1)
	if err != nil {
		return nil, fmt.Errorf("allocating child path: %w", err)
	}
	page, err := q.insertPage(ctx, path, parent.Depth+1, parent.URLPath+p.Slug+"/", p)
	if err != nil {
		return nil, fmt.Errorf("creating page %q: %w", p.Slug, err)
	}
	if _, err := q.db.ExecContext(ctx, `UPDATE pages SET numchild = numchild + 1 WHERE id = ?`, parent.ID); err != nil {
		return nil, fmt.Errorf("updating child count: %w", err)
	}
	parent.NumChild++
	return page, nil
}

// SetPageFlags updates the visibility flags of a page.
func (q *Queries) SetPageFlags(ctx context.Context, id int64, live, expired, showInMenus bool) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET live = ?, expired = ?, show_in_menus = ? WHERE id = ?`,
		live, expired, showInMenus, id,
	)
	return err
}
