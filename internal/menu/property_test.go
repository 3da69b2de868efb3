// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/testutil"
)

// randomSite builds a random tree down to depth 6 with some hidden and
// unpublished pages, and a main menu linking to every section.
func randomSite(t *testing.T, seed int64) *fixture {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	st := testutil.NewSiteTree(t, db, "localhost", 80)

	var sections []string
	var build func(parent string, depth int)
	build = func(parent string, depth int) {
		if depth > 6 {
			return
		}
		n := rng.Intn(4)
		if depth == 3 {
			n++
		}
		for i := 0; i < n; i++ {
			key := fmt.Sprintf("p%d", i)
			if parent != "" {
				key = parent + "/" + key
			}
			var opts []testutil.PageOption
			switch rng.Intn(6) {
			case 0:
				opts = append(opts, testutil.Hidden())
			case 1:
				opts = append(opts, testutil.Draft())
			}
			st.Add(t, key, opts...)
			if depth == 3 {
				sections = append(sections, key)
			}
			build(key, depth+1)
		}
	}
	build("", 3)

	items := make([]model.MenuItem, len(sections))
	for i, key := range sections {
		items[i] = st.LinkTo(t, key)
	}
	st.SetMainMenu(t, model.MaxMaxLevels, model.UseSpecificAuto, items...)
	return newFixtureFor(t, st)
}

func pageIDs(pages []*model.Page) []int64 {
	ids := make([]int64, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return ids
}

func itemPageIDs(items []*Item) []int64 {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.Page.ID
	}
	return ids
}

func TestSubMenusMatchTree(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			f := randomSite(t, seed)
			ctx := context.Background()
			visible := model.MenuPageQuery()

			m, err := f.e.MainMenu(ctx, f.at(t, ""), Options{AddSubMenusInline: Bool(true)})
			require.NoError(t, err)
			items, err := m.Items(ctx)
			require.NoError(t, err)

			top, err := f.tree.Children(ctx, f.st.Home, visible)
			require.NoError(t, err)
			assert.Equal(t, pageIDs(top), itemPageIDs(items))

			var check func(items []*Item, level int)
			check = func(items []*Item, level int) {
				for _, it := range items {
					want, err := f.tree.Children(ctx, it.Page, visible)
					require.NoError(t, err)

					if level >= m.MaxLevels() || len(want) == 0 {
						assert.False(t, it.HasChildrenInMenu, "%s at level %d", it.Page.URLPath, level)
						assert.Nil(t, it.SubMenu)
						continue
					}
					require.True(t, it.HasChildrenInMenu, it.Page.URLPath)
					require.NotNil(t, it.SubMenu)
					assert.Equal(t, pageIDs(want), itemPageIDs(it.Children()), it.Page.URLPath)
					check(it.Children(), level+1)
				}
			}
			check(items, 1)

			// Serializing yields the same shape, level by level.
			m, err = f.e.MainMenu(ctx, f.at(t, ""), Options{})
			require.NoError(t, err)
			out, err := m.Serialize(ctx)
			require.NoError(t, err)

			var compare func(items []*Item, out []ItemJSON)
			compare = func(items []*Item, out []ItemJSON) {
				require.Len(t, out, len(items))
				for i, it := range items {
					assert.Equal(t, it.Href, out[i].Href)
					compare(it.Children(), out[i].Children)
				}
			}
			compare(items, out)
		})
	}
}
