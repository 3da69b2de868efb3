// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/olegiv/ocms-menus/internal/model"
)

// MenuPageFields returns the menu page data of the given pages, keyed by page ID.
func (q *Queries) MenuPageFields(ctx context.Context, ids []int64) (map[int64]*model.MenuPageFields, error) {
	out := make(map[int64]*model.MenuPageFields, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT page_id, repeat_in_subnav, repeated_item_text FROM menu_pages
		WHERE page_id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		f := &model.MenuPageFields{}
		if err := rows.Scan(&id, &f.RepeatInSubnav, &f.RepeatedItemText); err != nil {
			return nil, err
		}
		out[id] = f
	}
	return out, rows.Err()
}

// LinkPageFields returns the link page data of the given pages, keyed by
// page ID. Targets are not resolved.
func (q *Queries) LinkPageFields(ctx context.Context, ids []int64) (map[int64]*model.LinkPageFields, error) {
	out := make(map[int64]*model.LinkPageFields, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT page_id, link_page_id, link_url, url_append, extra_classes FROM link_pages
		WHERE page_id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		f := &model.LinkPageFields{}
		if err := rows.Scan(&id, &f.LinkPageID, &f.LinkURL, &f.URLAppend, &f.ExtraClasses); err != nil {
			return nil, err
		}
		out[id] = f
	}
	return out, rows.Err()
}

// SetMenuPageFields stores the menu page data of a page.
func (q *Queries) SetMenuPageFields(ctx context.Context, pageID int64, f model.MenuPageFields) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO menu_pages (page_id, repeat_in_subnav, repeated_item_text) VALUES (?, ?, ?)
		ON CONFLICT(page_id) DO UPDATE SET
			repeat_in_subnav = excluded.repeat_in_subnav,
			repeated_item_text = excluded.repeated_item_text`,
		pageID, f.RepeatInSubnav, f.RepeatedItemText,
	)
	return err
}

// SetLinkPageFields stores the link page data of a page.
func (q *Queries) SetLinkPageFields(ctx context.Context, pageID int64, f model.LinkPageFields) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO link_pages (page_id, link_page_id, link_url, url_append, extra_classes) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(page_id) DO UPDATE SET
			link_page_id = excluded.link_page_id,
			link_url = excluded.link_url,
			url_append = excluded.url_append,
			extra_classes = excluded.extra_classes`,
		pageID, f.LinkPageID, f.LinkURL, f.URLAppend, f.ExtraClasses,
	)
	return err
}

// PageTranslations returns translated titles of the given pages in lang,
// keyed by page ID. Pages without a translation are absent.
func (q *Queries) PageTranslations(ctx context.Context, ids []int64, lang string) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 || lang == "" {
		return out, nil
	}
	args := append([]any{lang}, int64Args(ids)...)
	rows, err := q.db.QueryContext(ctx,
		`SELECT page_id, title FROM page_translations
		WHERE language_code = ? AND page_id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id    int64
			title sql.NullString
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		if title.Valid && title.String != "" {
			out[id] = title.String
		}
	}
	return out, rows.Err()
}

// SetPageTranslation stores the title of a page in lang.
func (q *Queries) SetPageTranslation(ctx context.Context, pageID int64, lang, title string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO page_translations (page_id, language_code, title) VALUES (?, ?, ?)
		ON CONFLICT(page_id, language_code) DO UPDATE SET title = excluded.title`,
		pageID, lang, title,
	)
	return err
}
