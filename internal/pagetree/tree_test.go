// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagetree

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/store"
	"github.com/olegiv/ocms-menus/internal/testutil"
)

// newTestTree builds:
//
//	home
//	├── about (menu page)
//	│   ├── team
//	│   │   └── alice
//	│   └── history
//	├── services
//	│   └── consulting
//	├── draft (not live)
//	├── docs (link page to a URL)
//	└── alias (link page to about)
func newTestTree(t *testing.T) (*Tree, *testutil.SiteTree) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	st := testutil.NewSiteTree(t, db, "localhost", 80)
	about := st.Add(t, "about", testutil.AsMenuPage(true, "Overview"))
	st.Add(t, "about/team")
	st.Add(t, "about/team/alice")
	st.Add(t, "about/history")
	st.Add(t, "services")
	st.Add(t, "services/consulting")
	st.Add(t, "draft", testutil.Draft())
	st.Add(t, "docs", testutil.AsLinkPage(0, "https://docs.example.com/", "", "external"))
	st.Add(t, "alias", testutil.AsLinkPage(about.ID, "", "#top", ""))

	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return New(store.New(db), c, time.Minute, testutil.TestLoggerSilent()), st
}

func TestTreeLookups(t *testing.T) {
	tree, st := newTestTree(t)
	ctx := context.Background()

	about := st.Page(t, "about")
	got, err := tree.Page(ctx, about.ID)
	require.NoError(t, err)
	assert.Equal(t, "/home/about/", got.URLPath)

	_, err = tree.Page(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)

	children, err := tree.Children(ctx, about, model.MenuPageQuery())
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "team", children[0].Slug)
	assert.Equal(t, "history", children[1].Slug)

	homeChildren, err := tree.Children(ctx, st.Home, model.MenuPageQuery())
	require.NoError(t, err)
	var slugs []string
	for _, p := range homeChildren {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"about", "services", "docs", "alias"}, slugs)
}

func TestSpecificBatchesByContentType(t *testing.T) {
	tree, st := newTestTree(t)
	ctx := context.Background()

	load := func() []*model.Page {
		var pages []*model.Page
		for _, key := range []string{"about", "services", "docs", "alias"} {
			p, err := tree.Page(ctx, st.Page(t, key).ID)
			require.NoError(t, err)
			pages = append(pages, p)
		}
		return pages
	}

	sc := NewSpecificCache()
	pages := load()
	require.NoError(t, tree.Specific(ctx, sc, pages...))
	assert.Equal(t, 2, sc.Loads(), "one load per content type with a loader")

	mp, ok := pages[0].MenuPage()
	require.True(t, ok)
	assert.True(t, mp.RepeatInSubnav)
	assert.Equal(t, "Overview", mp.RepeatedItemText)

	_, ok = pages[1].Specific.(*model.PlainPage)
	assert.True(t, ok)

	docs, ok := pages[2].LinkPage()
	require.True(t, ok)
	assert.Equal(t, "https://docs.example.com/", docs.LinkURL)
	assert.Equal(t, "external", docs.ExtraClasses)
	assert.True(t, docs.ShowInMenus())

	alias, ok := pages[3].LinkPage()
	require.True(t, ok)
	require.NotNil(t, alias.Target)
	assert.Equal(t, st.Page(t, "about").ID, alias.Target.ID)
	assert.Equal(t, "#top", alias.URLAppend)

	// Fresh copies are served from the cache.
	require.NoError(t, tree.Specific(ctx, sc, load()...))
	assert.Equal(t, 2, sc.Loads())

	// A nil cache still downcasts.
	again := load()
	require.NoError(t, tree.Specific(ctx, nil, again...))
	assert.True(t, again[0].IsSpecific())
}

func TestLinkPageToDraftIsHidden(t *testing.T) {
	tree, st := newTestTree(t)
	ctx := context.Background()

	link := st.Add(t, "to-draft", testutil.AsLinkPage(st.Page(t, "draft").ID, "", "", ""))
	p, err := tree.Page(ctx, link.ID)
	require.NoError(t, err)
	require.NoError(t, tree.Specific(ctx, nil, p))

	lp, ok := p.LinkPage()
	require.True(t, ok)
	assert.False(t, lp.ShowInMenus())
}

func TestSectionRootAndAncestors(t *testing.T) {
	tree, st := newTestTree(t)
	ctx := context.Background()
	alice := st.Page(t, "about/team/alice")

	root, err := tree.SectionRoot(ctx, alice, 3)
	require.NoError(t, err)
	assert.Equal(t, st.Page(t, "about").ID, root.ID)

	root, err = tree.SectionRoot(ctx, st.Page(t, "about"), 3)
	require.NoError(t, err)
	assert.Equal(t, st.Page(t, "about").ID, root.ID)

	root, err = tree.SectionRoot(ctx, st.Home, 3)
	require.NoError(t, err)
	assert.Nil(t, root)

	ids, err := tree.AncestorIDs(ctx, alice, false, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{st.Page(t, "about").ID, st.Page(t, "about/team").ID}, ids)

	ids, err = tree.AncestorIDs(ctx, alice, true, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{st.Page(t, "about").ID, st.Page(t, "about/team").ID, alice.ID}, ids)
}
