// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"fmt"
	"strings"

	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/model"
)

func tagFolder(t Tag) string {
	switch t {
	case TagMain:
		return "main"
	case TagFlat:
		return "flat"
	case TagSection:
		return "section"
	case TagChildren:
		return "children"
	}
	return strings.TrimSuffix(string(t), "_menu")
}

// templateDirs are the directories searched, most specific first.
func templateDirs(s *config.MenuSettings, site *model.Site) []string {
	if s.SiteSpecificTemplateDirs && site != nil && site.Hostname != "" {
		return []string{"menus/" + strings.ToLower(site.Hostname) + "/", "menus/"}
	}
	return []string{"menus/"}
}

// menuTemplateNames lists the templates of a top-level menu of kind.
func menuTemplateNames(s *config.MenuSettings, site *model.Site, kind, handle, def string) []string {
	var names []string
	for _, dir := range templateDirs(s, site) {
		if handle != "" {
			names = append(names,
				dir+kind+"/"+handle+"/level_1.html",
				dir+kind+"/"+handle+"/menu.html",
				dir+handle+"/level_1.html",
				dir+handle+"/menu.html",
				dir+handle+".html",
			)
		}
		names = append(names,
			dir+kind+"/level_1.html",
			dir+kind+"/menu.html",
			dir+kind+"_menu.html",
		)
	}
	return dedupe(append(names, def))
}

// subMenuTemplateNames lists the templates of a sub-menu at level of a
// menu of kind.
func subMenuTemplateNames(s *config.MenuSettings, site *model.Site, kind, handle string, level int) []string {
	levelFile := fmt.Sprintf("level_%d.html", level)
	var names []string
	for _, dir := range templateDirs(s, site) {
		if handle != "" {
			names = append(names,
				dir+kind+"/"+handle+"/"+levelFile,
				dir+kind+"/"+handle+"/sub_menu.html",
				dir+handle+"/"+levelFile,
				dir+handle+"/sub_menu.html",
				dir+handle+"_sub_menu.html",
			)
		}
		names = append(names,
			dir+kind+"/"+levelFile,
			dir+kind+"/sub_menu.html",
			dir+kind+"_sub_menu.html",
			dir+"sub_menu.html",
		)
	}
	return dedupe(append(names, s.DefaultSubMenuTemplate))
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
