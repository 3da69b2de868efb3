// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ClientIP returns the address of the client that sent r. Proxy headers are
// consulted first; the first X-Forwarded-For entry wins.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RequestScheme returns "https" for TLS or proxied-TLS requests, else "http".
func RequestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); strings.EqualFold(proto, "https") {
		return "https"
	}
	return "http"
}

// SplitHostPort splits a host[:port] string. A missing port is the
// scheme's default.
func SplitHostPort(hostport, scheme string) (string, int) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		host = strings.Trim(hostport, "[]")
		portStr = ""
	}
	host = strings.ToLower(host)
	if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
		return host, port
	}
	if scheme == "https" {
		return host, 443
	}
	return host, 80
}
