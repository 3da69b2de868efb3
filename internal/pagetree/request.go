// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagetree

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/ocms-menus/internal/util"
)

// DummyRequestHeader marks requests synthesised for routing. Its value is
// a token only this process knows.
const DummyRequestHeader = "X-Ocms-Dummy-Request"

var dummyToken = uuid.NewString()

// copiedHeaders are taken over from the real request into a dummy one.
var copiedHeaders = []string{
	"X-Forwarded-For",
	"X-Forwarded-Proto",
	"X-Real-IP",
	"Cookie",
	"User-Agent",
	"Authorization",
	"Accept-Language",
}

// DummyRequest is the request a URL would produce, built to route that URL
// through the page tree without serving it.
type DummyRequest struct {
	ID         string
	Method     string
	Scheme     string
	Host       string
	Port       int
	Path       string
	RemoteAddr string
	Header     http.Header
	IsDummy    bool
}

// NewDummyRequest builds a DummyRequest for rawURL. Client details are
// copied from original, which may be nil.
func NewDummyRequest(rawURL string, original *http.Request) (DummyRequest, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DummyRequest{}, fmt.Errorf("parsing %q: %w", rawURL, err)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host, port := util.SplitHostPort(u.Host, scheme)

	req := DummyRequest{
		ID:      uuid.NewString(),
		Method:  http.MethodGet,
		Scheme:  scheme,
		Host:    host,
		Port:    port,
		Path:    u.Path,
		Header:  make(http.Header),
		IsDummy: true,
	}
	if req.Path == "" {
		req.Path = "/"
	}
	if original != nil {
		req.RemoteAddr = original.RemoteAddr
		for _, h := range copiedHeaders {
			if v := original.Header.Values(h); len(v) > 0 {
				req.Header[http.CanonicalHeaderKey(h)] = append([]string(nil), v...)
			}
		}
	}
	return req, nil
}

// PathComponents returns the non-empty segments of the request path.
func (r DummyRequest) PathComponents() []string {
	var parts []string
	for _, p := range strings.Split(r.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// HostPort returns the Host header value for the request.
func (r DummyRequest) HostPort() string {
	if (r.Scheme == "http" && r.Port == 80) || (r.Scheme == "https" && r.Port == 443) {
		return r.Host
	}
	return r.Host + ":" + strconv.Itoa(r.Port)
}

// HTTPRequest converts r into an *http.Request marked as a dummy, for
// routers that hand the request on to net/http code. Routing itself never
// sends dummy requests through the server's middleware.
func (r DummyRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	u := &url.URL{Scheme: r.Scheme, Host: r.HostPort(), Path: r.Path}
	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Host = r.HostPort()
	req.RemoteAddr = r.RemoteAddr
	for k, v := range r.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set(DummyRequestHeader, dummyToken)
	req.Header.Set("X-Request-Id", r.ID)
	return req, nil
}

// IsDummyRequest reports whether r was produced by DummyRequest.HTTPRequest
// in this process.
func IsDummyRequest(r *http.Request) bool {
	return r.Header.Get(DummyRequestHeader) == dummyToken
}
