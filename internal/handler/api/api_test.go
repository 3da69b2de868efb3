// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/middleware"
)

func TestIndex(t *testing.T) {
	api := newTestAPI(t)

	var got IndexJSON
	api.getJSON(t, "/api/v1/", http.StatusOK, &got)

	want := IndexJSON{
		MainMenu:     "http://example.com/api/v1/main_menu/",
		FlatMenu:     "http://example.com/api/v1/flat_menu/",
		SectionMenu:  "http://example.com/api/v1/section_menu/",
		ChildrenMenu: "http://example.com/api/v1/children_menu/",
	}
	assert.Equal(t, want, got)
}

func TestMainMenu_SiteRoot(t *testing.T) {
	api := newTestAPI(t)

	var got MainMenuJSON
	api.getJSON(t, "/api/v1/main_menu/?current_url=http://localhost/", http.StatusOK, &got)

	assert.Equal(t, api.tree.Site.ID, got.Site)
	require.Len(t, got.Items, 5)
	for _, it := range got.Items {
		assert.Contains(t, []string{"", "active"}, it.ActiveClass, "item %q", it.Text)
	}

	home := got.Items[0]
	assert.Equal(t, "Home", home.Text)
	assert.Equal(t, "/", home.Href)
	assert.Equal(t, "active", home.ActiveClass)
	require.NotNil(t, home.Page)
	assert.Equal(t, "home", home.Page.Slug)

	foo := got.Items[4]
	assert.Equal(t, "Foo", foo.Text)
	assert.Equal(t, "/foo/?x=1", foo.Href)
	assert.Nil(t, foo.Page)
	assert.Empty(t, foo.Children)
}

func TestMainMenu_RepeatedParent(t *testing.T) {
	api := newTestAPI(t)

	var got MainMenuJSON
	api.getJSON(t, "/api/v1/main_menu/?current_url=http://localhost/about/", http.StatusOK, &got)

	about := findItem(got.Items, "about")
	require.NotNil(t, about)
	assert.Equal(t, "ancestor", about.ActiveClass)
	require.Len(t, about.Children, 3)

	repeated := about.Children[0]
	assert.Equal(t, "Overview", repeated.Text)
	assert.Equal(t, "/about/", repeated.Href)
	assert.Equal(t, "active", repeated.ActiveClass)
	assert.Equal(t, "team", about.Children[1].Text)
	assert.Equal(t, "history", about.Children[2].Text)
}

func TestMainMenu_NoRepeatedParent(t *testing.T) {
	api := newTestAPI(t)

	var got MainMenuJSON
	api.getJSON(t, "/api/v1/main_menu/?current_url=http://localhost/about/&allow_repeating_parents=false", http.StatusOK, &got)

	about := findItem(got.Items, "about")
	require.NotNil(t, about)
	assert.Equal(t, "active", about.ActiveClass)
	require.Len(t, about.Children, 2)
	assert.Equal(t, "team", about.Children[0].Text)
}

func TestMainMenu_CustomURLIgnoresQuery(t *testing.T) {
	api := newTestAPI(t)

	var got MainMenuJSON
	api.getJSON(t, "/api/v1/main_menu/?current_url=http://localhost/foo/", http.StatusOK, &got)

	foo := findItem(got.Items, "Foo")
	require.NotNil(t, foo)
	assert.Equal(t, "active", foo.ActiveClass)
}

func TestMainMenu_Options(t *testing.T) {
	api := newTestAPI(t)
	about := api.tree.Page(t, "about")

	t.Run("max_levels limits the depth", func(t *testing.T) {
		var got MainMenuJSON
		api.getJSON(t, "/api/v1/main_menu/?current_url=http://localhost/&max_levels=1", http.StatusOK, &got)
		for _, it := range got.Items {
			assert.Empty(t, it.Children, "item %q", it.Text)
		}
	})

	t.Run("current_page identifies the site", func(t *testing.T) {
		var got MainMenuJSON
		api.getJSON(t, fmt.Sprintf("/api/v1/main_menu/?current_page=%d", about.ID), http.StatusOK, &got)
		assert.Equal(t, api.tree.Site.ID, got.Site)
		item := findItem(got.Items, "about")
		require.NotNil(t, item)
		assert.Equal(t, "ancestor", item.ActiveClass)
	})

	t.Run("site without active classes", func(t *testing.T) {
		var got MainMenuJSON
		api.getJSON(t, fmt.Sprintf("/api/v1/main_menu/?site=%d&apply_active_classes=false", api.tree.Site.ID), http.StatusOK, &got)
		for _, it := range got.Items {
			assert.Empty(t, it.ActiveClass, "item %q", it.Text)
		}
	})

	t.Run("absolute page urls", func(t *testing.T) {
		var got MainMenuJSON
		api.getJSON(t, "/api/v1/main_menu/?current_url=http://localhost/&use_absolute_page_urls=True", http.StatusOK, &got)
		item := findItem(got.Items, "services")
		require.NotNil(t, item)
		assert.Equal(t, "http://localhost/services/", item.Href)
	})
}

func TestMainMenu_Validation(t *testing.T) {
	api := newTestAPI(t)
	siteOnly := fmt.Sprintf("?site=%d", api.tree.Site.ID)

	tests := []struct {
		name    string
		query   string
		field   string
		message string
	}{
		{
			name:    "no context",
			query:   "",
			field:   "current_page",
			message: "This or 'current_url' are required to allow the correct menu instance to be identified.",
		},
		{
			name:    "active classes need a page",
			query:   siteOnly,
			field:   "apply_active_classes",
			message: "To support a value of 'true', 'current_page' or 'current_url' values must also be provided.",
		},
		{
			name:    "bad boolean",
			query:   "?current_url=http://localhost/&apply_active_classes=yes",
			field:   "apply_active_classes",
			message: "The value must be 'true' or 'false'.",
		},
		{
			name:    "max_levels out of range",
			query:   "?current_url=http://localhost/&max_levels=9",
			field:   "max_levels",
			message: "Ensure this value is between 1 and 5.",
		},
		{
			name:    "max_levels not a number",
			query:   "?current_url=http://localhost/&max_levels=two",
			field:   "max_levels",
			message: "Enter a whole number.",
		},
		{
			name:    "use_specific out of range",
			query:   "?current_url=http://localhost/&use_specific=7",
			field:   "use_specific",
			message: "Select a valid choice. 7 is not one of the available choices.",
		},
		{
			name:    "unknown page",
			query:   "?current_page=99999",
			field:   "current_page",
			message: "The provided value is not a valid page ID.",
		},
		{
			name:    "unknown site",
			query:   "?site=99999",
			field:   "site",
			message: "The provided value is not a valid site ID.",
		},
		{
			name:    "relative url",
			query:   "?current_url=/about/",
			field:   "current_url",
			message: "Enter a valid URL.",
		},
		{
			name:    "language not served",
			query:   "?current_url=http://localhost/&language=de",
			field:   "language",
			message: "Select a valid choice. de is not one of the available choices.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string][]string
			api.getJSON(t, "/api/v1/main_menu/"+tt.query, http.StatusBadRequest, &got)
			assert.Equal(t, []string{tt.message}, got[tt.field], "errors: %v", got)
		})
	}
}

func TestFlatMenu(t *testing.T) {
	api := newTestAPI(t)

	var got FlatMenuJSON
	api.getJSON(t, "/api/v1/flat_menu/?handle=footer&current_url=http://localhost/contact/", http.StatusOK, &got)

	assert.Equal(t, api.tree.Site.ID, got.Site)
	assert.Equal(t, "footer", got.Handle)
	assert.Equal(t, "Footer", got.Title)
	assert.Empty(t, got.Heading)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "contact", got.Items[0].Text)
	assert.Equal(t, "active", got.Items[0].ActiveClass)
	assert.Equal(t, "https://example.org/", got.Items[1].Href)
}

func TestFlatMenu_NotFound(t *testing.T) {
	api := newTestAPI(t)

	var got middleware.APIError
	api.getJSON(t, "/api/v1/flat_menu/?handle=contact&current_url=http://localhost/", http.StatusNotFound, &got)
	assert.Equal(t, "No FlatMenu object could be found matching the supplied values.", got.Detail)
}

func TestFlatMenu_NotFoundInSelectedLanguage(t *testing.T) {
	api := newTestAPI(t)

	var got middleware.APIError
	api.getJSON(t, "/api/v1/flat_menu/?handle=contact&current_url=http://localhost/&language=ru", http.StatusNotFound, &got)
	assert.Equal(t, "Объект FlatMenu, соответствующий переданным значениям, не найден.", got.Detail)
}

func TestFlatMenu_InvalidHandle(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"not a slug", "?handle=blah!blah!", "Enter a valid 'slug' consisting of letters, numbers, underscores or hyphens."},
		{"missing", "?current_url=http://localhost/", "This field is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string][]string
			api.getJSON(t, "/api/v1/flat_menu/"+tt.query, http.StatusBadRequest, &got)
			assert.Equal(t, []string{tt.message}, got["handle"])
		})
	}
}

func TestSectionMenu(t *testing.T) {
	api := newTestAPI(t)

	var got SectionMenuJSON
	api.getJSON(t, "/api/v1/section_menu/?current_url=http://localhost/about/team/alice/", http.StatusOK, &got)

	root := got.SectionRoot
	assert.Equal(t, "about", root.Slug)
	assert.Equal(t, "about", root.Text)
	assert.Equal(t, "/about/", root.Href)
	assert.Equal(t, "ancestor", root.ActiveClass)
	assert.Equal(t, api.tree.Page(t, "about").ID, root.ID)

	team := findItem(got.Items, "team")
	require.NotNil(t, team)
	assert.Equal(t, "ancestor", team.ActiveClass)

	alice := findItem(team.Children, "alice")
	require.NotNil(t, alice)
	assert.Equal(t, "active", alice.ActiveClass)
	assert.Equal(t, "/about/team/alice/", alice.Href)
}

func TestSectionMenu_BestMatch(t *testing.T) {
	api := newTestAPI(t)

	var got SectionMenuJSON
	api.getJSON(t, "/api/v1/section_menu/?current_url=http://localhost/about/team/bob/", http.StatusOK, &got)

	assert.Equal(t, "about", got.SectionRoot.Slug)
	team := findItem(got.Items, "team")
	require.NotNil(t, team)
	// The best match is no current page, so nothing is active.
	assert.Equal(t, "ancestor", team.ActiveClass)
	for _, it := range team.Children {
		assert.NotEqual(t, "active", it.ActiveClass)
	}
}

func TestSectionMenu_ExplicitRoot(t *testing.T) {
	api := newTestAPI(t)
	about := api.tree.Page(t, "about")

	var got SectionMenuJSON
	api.getJSON(t, fmt.Sprintf("/api/v1/section_menu/?section_root_page=%d&apply_active_classes=false", about.ID), http.StatusOK, &got)

	assert.Equal(t, "about", got.SectionRoot.Slug)
	assert.Empty(t, got.SectionRoot.ActiveClass)
	require.NotEmpty(t, got.Items)
	assert.Equal(t, "Overview", got.Items[0].Text)
}

func TestSectionMenu_Validation(t *testing.T) {
	api := newTestAPI(t)
	services := api.tree.Page(t, "services")
	team := api.tree.Page(t, "about/team")

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{
			name:    "no context",
			query:   "?apply_active_classes=false",
			message: "This value can only be omitted when providing 'current_page' or 'current_url'.",
		},
		{
			name:    "above section depth",
			query:   "?current_url=http://localhost/",
			message: "This value could not be derived from the 'current_page' or 'current_url' values provided.",
		},
		{
			name:    "root below section depth",
			query:   fmt.Sprintf("?section_root_page=%d&current_page=%d", team.ID, services.ID),
			message: "The provided value is not a valid page ID.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string][]string
			api.getJSON(t, "/api/v1/section_menu/"+tt.query, http.StatusBadRequest, &got)
			assert.Equal(t, []string{tt.message}, got["section_root_page"])
		})
	}
}

func TestChildrenMenu(t *testing.T) {
	api := newTestAPI(t)
	about := api.tree.Page(t, "about")

	var got ChildrenMenuJSON
	api.getJSON(t, fmt.Sprintf("/api/v1/children_menu/?parent_page=%d", about.ID), http.StatusOK, &got)

	require.NotNil(t, got.ParentPage)
	assert.Equal(t, about.ID, got.ParentPage.ID)
	assert.Equal(t, "about", got.ParentPage.Slug)

	texts := make([]string, 0, len(got.Items))
	for _, it := range got.Items {
		texts = append(texts, it.Text)
		assert.Empty(t, it.ActiveClass)
		assert.Empty(t, it.Children)
	}
	assert.Equal(t, []string{"Overview", "team", "history"}, texts)
}

func TestChildrenMenu_ActiveClasses(t *testing.T) {
	api := newTestAPI(t)
	about := api.tree.Page(t, "about")

	var got ChildrenMenuJSON
	api.getJSON(t, fmt.Sprintf("/api/v1/children_menu/?parent_page=%d&current_url=http://localhost/about/team/alice/&apply_active_classes=1&max_levels=2", about.ID), http.StatusOK, &got)

	team := findItem(got.Items, "team")
	require.NotNil(t, team)
	assert.Equal(t, "ancestor", team.ActiveClass)
	alice := findItem(team.Children, "alice")
	require.NotNil(t, alice)
	assert.Equal(t, "active", alice.ActiveClass)
}

func TestChildrenMenu_IgnoresBestMatch(t *testing.T) {
	api := newTestAPI(t)
	about := api.tree.Page(t, "about")

	var got ChildrenMenuJSON
	api.getJSON(t, fmt.Sprintf("/api/v1/children_menu/?parent_page=%d&current_url=http://localhost/about/team/nobody/&apply_active_classes=1&max_levels=2", about.ID), http.StatusOK, &got)

	team := findItem(got.Items, "team")
	require.NotNil(t, team)
	assert.Empty(t, team.ActiveClass)
}

func TestChildrenMenu_ParentRequired(t *testing.T) {
	api := newTestAPI(t)

	var got map[string][]string
	api.getJSON(t, "/api/v1/children_menu/", http.StatusBadRequest, &got)
	assert.Equal(t, []string{"This field is required."}, got["parent_page"])
}

func TestBrowsable(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		target string
		accept string
		want   bool
	}{
		{"format param", "/api/v1/main_menu/?current_url=http://localhost/&format=api", "", true},
		{"accept header", "/api/v1/main_menu/?current_url=http://localhost/", "text/html,application/xhtml+xml", true},
		{"format json wins", "/api/v1/main_menu/?current_url=http://localhost/&format=json", "text/html", false},
		{"plain", "/api/v1/main_menu/?current_url=http://localhost/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.target, nil)
			require.NoError(t, err)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, wantsBrowsable(req))
		})
	}

	rr := api.get(t, "/api/v1/main_menu/?current_url=http://localhost/&format=api")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html"))
	body := rr.Body.String()
	assert.Contains(t, body, "Menus API: MainMenu")
	assert.Contains(t, body, `name="current_url" value="http://localhost/"`)
	assert.Contains(t, body, "/api/v1/flat_menu/?format=api")
	assert.Contains(t, body, "HTTP 200 OK")
}

func TestBrowsable_ValidationErrors(t *testing.T) {
	api := newTestAPI(t)

	rr := api.get(t, "/api/v1/flat_menu/?handle=blah!blah!&format=api")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<div class="errors">Enter a valid &#39;slug&#39;`)
	assert.Contains(t, body, "HTTP 400 Bad Request")
}

func TestItemJSONShape(t *testing.T) {
	api := newTestAPI(t)

	rr := api.get(t, "/api/v1/main_menu/?current_url=http://localhost/&max_levels=1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	// Custom URL items have neither page nor handle, but always children.
	assert.Contains(t, body, `{"text":"Foo","href":"/foo/?x=1","active_class":"","children":[]}`)
	assert.Contains(t, body, `"page":{"id":`)
}
