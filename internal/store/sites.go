// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/ocms-menus/internal/model"
)

const siteColumns = `id, hostname, port, site_name, root_page_id, is_default_site`

func scanSite(row rowScanner) (*model.Site, error) {
	var s model.Site
	if err := row.Scan(&s.ID, &s.Hostname, &s.Port, &s.SiteName, &s.RootPageID, &s.IsDefaultSite); err != nil {
		return nil, err
	}
	return &s, nil
}

func (q *Queries) querySites(ctx context.Context, query string, args ...any) ([]*model.Site, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sites []*model.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// GetSite returns the site with the given ID.
func (q *Queries) GetSite(ctx context.Context, id int64) (*model.Site, error) {
	return scanSite(q.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = ?`, id))
}

// GetDefaultSite returns the default site.
func (q *Queries) GetDefaultSite(ctx context.Context) (*model.Site, error) {
	return scanSite(q.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE is_default_site = 1 ORDER BY id LIMIT 1`))
}

// ListSites returns all sites, the default site first.
func (q *Queries) ListSites(ctx context.Context) ([]*model.Site, error) {
	return q.querySites(ctx,
		`SELECT `+siteColumns+` FROM sites ORDER BY is_default_site DESC, hostname, port`)
}

// SitesByHostname returns the sites serving hostname, on any port.
func (q *Queries) SitesByHostname(ctx context.Context, hostname string) ([]*model.Site, error) {
	return q.querySites(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE hostname = ? ORDER BY is_default_site DESC, port`,
		hostname)
}

// CreateSiteParams holds the fields of a new site.
type CreateSiteParams struct {
	Hostname      string
	Port          int
	SiteName      string
	RootPageID    int64
	IsDefaultSite bool
}

// CreateSite creates a site. A new default site clears the flag on the others.
func (q *Queries) CreateSite(ctx context.Context, p CreateSiteParams) (*model.Site, error) {
	if p.IsDefaultSite {
		if _, err := q.db.ExecContext(ctx, `UPDATE sites SET is_default_site = 0`); err != nil {
			return nil, err
		}
	}
	return scanSite(q.db.QueryRowContext(ctx,
		`INSERT INTO sites (hostname, port, site_name, root_page_id, is_default_site)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+siteColumns,
		p.Hostname, p.Port, p.SiteName, p.RootPageID, p.IsDefaultSite,
	))
}
