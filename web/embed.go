// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web holds the built-in templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var files embed.FS

// Templates returns the built-in templates, rooted at the templates
// directory.
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
