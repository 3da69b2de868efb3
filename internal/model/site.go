// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// Site binds a hostname and port to a root page of the tree.
type Site struct {
	ID            int64  `json:"id"`
	Hostname      string `json:"hostname"`
	Port          int    `json:"port"`
	SiteName      string `json:"site_name"`
	RootPageID    int64  `json:"root_page_id"`
	IsDefaultSite bool   `json:"is_default_site"`
}

// RootURL returns the scheme, host and (non-default) port of the site.
func (s *Site) RootURL() string {
	switch s.Port {
	case 80:
		return "http://" + s.Hostname
	case 443:
		return "https://" + s.Hostname
	default:
		return fmt.Sprintf("http://%s:%d", s.Hostname, s.Port)
	}
}
