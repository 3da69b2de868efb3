// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/olegiv/ocms-menus/internal/i18n"
)

// LanguageParam is the query argument that selects a language explicitly.
const LanguageParam = "language"

// Language detects the language of the request and stores it in the
// request context.
// Priority order:
// 1. Query parameter ?language=XX when the site serves it
// 2. Accept-Language header
// 3. Default language
//
// The menus API validates its own "language" argument; an unserved value
// here only falls through to the next source.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if q := r.URL.Query().Get(LanguageParam); q != "" && i18n.IsSupported(q) {
			lang = i18n.MatchLanguage(q)
		}
		if lang == "" {
			if accept := r.Header.Get("Accept-Language"); accept != "" {
				lang = i18n.MatchLanguage(accept)
			}
		}
		if lang == "" {
			lang = i18n.DefaultLanguage()
		}
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(i18n.WithLanguage(r.Context(), lang)))
	})
}

// GetLanguage returns the language detected for r.
func GetLanguage(r *http.Request) string {
	return i18n.FromContext(r.Context())
}
