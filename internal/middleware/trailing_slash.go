// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"path"
	"strings"
)

// AppendTrailingSlash redirects GET and HEAD requests for paths without a
// trailing slash to the slashed equivalent (HTTP 301). Paths whose last
// segment looks like a file name are left alone.
func AppendTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) &&
			!strings.HasSuffix(p, "/") && !strings.Contains(path.Base(p), ".") {
			newURL := p + "/"
			if r.URL.RawQuery != "" {
				newURL += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, newURL, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}
