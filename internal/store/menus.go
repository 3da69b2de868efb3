// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"

	"github.com/olegiv/ocms-menus/internal/model"
)

// Table names are taken from the menu model registry only, never from
// request input.

// GetMainMenuForSite returns the main menu of a site.
func (q *Queries) GetMainMenuForSite(ctx context.Context, t model.MenuTables, siteID int64) (*model.MainMenu, error) {
	var m model.MainMenu
	err := q.db.QueryRowContext(ctx,
		`SELECT id, site_id, max_levels, use_specific FROM `+t.Menus+` WHERE site_id = ?`,
		siteID,
	).Scan(&m.ID, &m.SiteID, &m.MaxLevels, &m.UseSpecific)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMainMenu creates the main menu of a site with the default settings.
func (q *Queries) CreateMainMenu(ctx context.Context, t model.MenuTables, siteID int64) (*model.MainMenu, error) {
	m := model.MainMenu{
		SiteID:      siteID,
		MaxLevels:   model.DefaultMainMenuMaxLevels,
		UseSpecific: model.DefaultMenuUseSpecific,
	}
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO `+t.Menus+` (site_id, max_levels, use_specific) VALUES (?, ?, ?) RETURNING id`,
		m.SiteID, m.MaxLevels, m.UseSpecific,
	).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetOrCreateMainMenu returns the main menu of a site, creating it when
// missing. A concurrent creator winning the insert is resolved by fetching
// its row.
func (q *Queries) GetOrCreateMainMenu(ctx context.Context, t model.MenuTables, siteID int64) (*model.MainMenu, error) {
	m, err := q.GetMainMenuForSite(ctx, t, siteID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	m, err = q.CreateMainMenu(ctx, t, siteID)
	if err != nil && IsUniqueViolation(err) {
		return q.GetMainMenuForSite(ctx, t, siteID)
	}
	return m, err
}

// UpdateMainMenu stores the settings of a main menu.
func (q *Queries) UpdateMainMenu(ctx context.Context, t model.MenuTables, m *model.MainMenu) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE `+t.Menus+` SET max_levels = ?, use_specific = ? WHERE id = ?`,
		m.MaxLevels, m.UseSpecific, m.ID,
	)
	return err
}

const flatMenuColumns = `id, site_id, title, handle, heading, max_levels, use_specific`

// ListFlatMenusByHandle returns the flat menus with handle on any of the
// given sites, ordered by the position of their site in siteIDs.
func (q *Queries) ListFlatMenusByHandle(ctx context.Context, t model.MenuTables, handle string, siteIDs []int64) ([]*model.FlatMenu, error) {
	if len(siteIDs) == 0 {
		return nil, nil
	}
	args := append([]any{handle}, int64Args(siteIDs)...)
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+flatMenuColumns+` FROM `+t.Menus+`
		WHERE handle = ? AND site_id IN (`+placeholders(len(siteIDs))+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	rank := make(map[int64]int, len(siteIDs))
	for i, id := range siteIDs {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	var menus []*model.FlatMenu
	for rows.Next() {
		var m model.FlatMenu
		if err := rows.Scan(&m.ID, &m.SiteID, &m.Title, &m.Handle, &m.Heading, &m.MaxLevels, &m.UseSpecific); err != nil {
			return nil, err
		}
		menus = append(menus, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(menus, func(a, b *model.FlatMenu) int {
		return cmp.Compare(rank[a.SiteID], rank[b.SiteID])
	})
	return menus, nil
}

// FlatMenuHandleTaken reports whether another flat menu of the site uses handle.
func (q *Queries) FlatMenuHandleTaken(ctx context.Context, t model.MenuTables, siteID int64, handle string, excludeID int64) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+t.Menus+` WHERE site_id = ? AND handle = ? AND id != ?`,
		siteID, handle, excludeID,
	).Scan(&n)
	return n > 0, err
}

// CreateFlatMenu creates a flat menu. Zero MaxLevels and UseSpecific take
// the flat menu defaults.
func (q *Queries) CreateFlatMenu(ctx context.Context, t model.MenuTables, m *model.FlatMenu) error {
	if m.MaxLevels == 0 {
		m.MaxLevels = model.DefaultFlatMenuMaxLevels
	}
	return q.db.QueryRowContext(ctx,
		`INSERT INTO `+t.Menus+` (site_id, title, handle, heading, max_levels, use_specific)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		m.SiteID, m.Title, m.Handle, m.Heading, m.MaxLevels, m.UseSpecific,
	).Scan(&m.ID)
}

// ListMenuItems returns the items of a menu in sort order, with LinkPage
// populated. With ForDisplay set, items linking to hidden pages are left out.
func (q *Queries) ListMenuItems(ctx context.Context, iq model.MenuItemQuery) ([]*model.MenuItem, error) {
	t := iq.Tables
	var (
		conds = []string{"i.menu_id = ?"}
		args  = []any{iq.MenuID}
	)
	if iq.ForDisplay {
		conds = append(conds, "(i.link_page_id IS NULL OR (p.live = 1 AND p.expired = 0 AND p.show_in_menus = 1))")
	}
	if iq.PagesOnly {
		conds = append(conds, "i.link_page_id IS NOT NULL")
	}
	if len(iq.ExcludeIDs) > 0 {
		conds = append(conds, "i.id NOT IN ("+placeholders(len(iq.ExcludeIDs))+")")
		args = append(args, int64Args(iq.ExcludeIDs)...)
	}
	if len(iq.Handles) > 0 {
		conds = append(conds, "i.handle IN ("+placeholders(len(iq.Handles))+")")
		args = append(args, stringArgs(iq.Handles)...)
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT i.id, i.menu_id, i.link_page_id, i.link_url, i.link_text, i.url_append,
			i.handle, i.allow_subnav, i.sort_order,
			p.id, p.path, p.depth, p.numchild, p.slug, p.title, p.seo_title, p.draft_title,
			p.url_path, p.content_type, p.live, p.expired, p.show_in_menus
		FROM `+t.Items+` i
		LEFT JOIN pages p ON p.id = i.link_page_id
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY i.sort_order, i.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []*model.MenuItem
	for rows.Next() {
		var (
			it model.MenuItem
			pg nullablePage
		)
		if err := rows.Scan(
			&it.ID, &it.MenuID, &it.LinkPageID, &it.LinkURL, &it.LinkText, &it.URLAppend,
			&it.Handle, &it.AllowSubnav, &it.SortOrder,
			&pg.ID, &pg.Path, &pg.Depth, &pg.NumChild, &pg.Slug, &pg.Title, &pg.SeoTitle, &pg.DraftTitle,
			&pg.URLPath, &pg.ContentType, &pg.Live, &pg.Expired, &pg.ShowInMenus,
		); err != nil {
			return nil, err
		}
		it.LinkPage = pg.page()
		items = append(items, &it)
	}
	return items, rows.Err()
}

// nullablePage scans the page side of a LEFT JOIN.
type nullablePage struct {
	ID          sql.NullInt64
	Path        sql.NullString
	Depth       sql.NullInt64
	NumChild    sql.NullInt64
	Slug        sql.NullString
	Title       sql.NullString
	SeoTitle    sql.NullString
	DraftTitle  sql.NullString
	URLPath     sql.NullString
	ContentType sql.NullString
	Live        sql.NullBool
	Expired     sql.NullBool
	ShowInMenus sql.NullBool
}

func (n nullablePage) page() *model.Page {
	if !n.ID.Valid {
		return nil
	}
	return &model.Page{
		ID:          n.ID.Int64,
		Path:        n.Path.String,
		Depth:       int(n.Depth.Int64),
		NumChild:    int(n.NumChild.Int64),
		Slug:        n.Slug.String,
		Title:       n.Title.String,
		SeoTitle:    n.SeoTitle.String,
		DraftTitle:  n.DraftTitle.String,
		URLPath:     n.URLPath.String,
		ContentType: n.ContentType.String,
		Live:        n.Live.Bool,
		Expired:     n.Expired.Bool,
		ShowInMenus: n.ShowInMenus.Bool,
	}
}

// CreateMenuItem adds an item to a menu.
func (q *Queries) CreateMenuItem(ctx context.Context, t model.MenuTables, it *model.MenuItem) error {
	return q.db.QueryRowContext(ctx,
		`INSERT INTO `+t.Items+` (menu_id, link_page_id, link_url, link_text, url_append, handle, allow_subnav, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		it.MenuID, it.LinkPageID, it.LinkURL, it.LinkText, it.URLAppend, it.Handle, it.AllowSubnav, it.SortOrder,
	).Scan(&it.ID)
}
