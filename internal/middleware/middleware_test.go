// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/olegiv/ocms-menus/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init([]string{"en", "ru"}, "en", nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestWriteAPIError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAPIError(rr, http.StatusNotFound, "missing")

	if rr.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body APIError
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Detail != "missing" {
		t.Errorf("Detail = %q, want %q", body.Detail, "missing")
	}
}

func TestAPIRateLimiter(t *testing.T) {
	rl := NewAPIRateLimiter(1, 2, nil)
	handler := rl.Middleware()(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/main_menu/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/main_menu/", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("second client Status = %d, want 200", rr.Code)
	}
	if n := rl.cache.size(); n != 2 {
		t.Errorf("limiters = %d, want 2", n)
	}
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		accept string
		want   string
	}{
		{"default", "", "", "en"},
		{"query", "?language=ru", "", "ru"},
		{"query wins over header", "?language=en", "ru-RU", "en"},
		{"accept language", "", "ru-RU,en;q=0.8", "ru"},
		{"unserved query falls through", "?language=de", "ru", "ru"},
		{"unserved header", "", "fr", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetLanguage(r)
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/"+tt.query, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
			if cl := rr.Header().Get("Content-Language"); cl != tt.want {
				t.Errorf("Content-Language = %q, want %q", cl, tt.want)
			}
		})
	}
}

func TestAppendTrailingSlash(t *testing.T) {
	tests := []struct {
		method   string
		target   string
		wantCode int
		wantLoc  string
	}{
		{http.MethodGet, "/api/v1/main_menu", http.StatusMovedPermanently, "/api/v1/main_menu/"},
		{http.MethodGet, "/api/v1/main_menu?site=1", http.StatusMovedPermanently, "/api/v1/main_menu/?site=1"},
		{http.MethodGet, "/api/v1/main_menu/", http.StatusOK, ""},
		{http.MethodGet, "/robots.txt", http.StatusOK, ""},
		{http.MethodPost, "/api/v1/main_menu", http.StatusOK, ""},
	}
	handler := AppendTrailingSlash(okHandler())
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))
			if rr.Code != tt.wantCode {
				t.Errorf("Status = %d, want %d", rr.Code, tt.wantCode)
			}
			if loc := rr.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}
