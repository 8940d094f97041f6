// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// issueToken runs a GET through the middleware and returns the cookie it set.
func issueToken(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	t.Fatal("CSRF cookie not set")
	return nil
}

func TestCSRFCookie(t *testing.T) {
	for _, secure := range []bool{true, false} {
		next, _ := okHandler()
		c := issueToken(t, NewCSRF(secure)(next))
		if c.Secure != secure {
			t.Errorf("Secure = %v, want %v", c.Secure, secure)
		}
		if c.HttpOnly {
			t.Error("the dashboard must be able to read the token")
		}
		if c.SameSite != http.SameSiteStrictMode || len(c.Value) != 2*csrfTokenLength {
			t.Errorf("cookie = %+v", c)
		}
	}
}

func TestCSRFTokenFromCtx(t *testing.T) {
	var seen string
	h := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CSRFTokenFromCtx(r.Context())
	}))

	c := issueToken(t, h)
	if seen != c.Value {
		t.Errorf("context token %q does not match issued cookie %q", seen, c.Value)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "existing" {
		t.Errorf("existing cookie should be reused, context has %q", seen)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("no new cookie should be issued when one exists")
	}

	if got := CSRFTokenFromCtx(httptest.NewRequest(http.MethodGet, "/", nil).Context()); got != "" {
		t.Errorf("bare context token = %q", got)
	}
}

func TestCSRFUnsafeMethods(t *testing.T) {
	next, _ := okHandler()
	h := NewCSRF(false, "https://boards.example.com/")(next)
	cookie := issueToken(t, h)

	tests := []struct {
		name   string
		method string
		header string
		origin string
		want   int
	}{
		{"get passes without header", http.MethodGet, "", "", http.StatusOK},
		{"head passes", http.MethodHead, "", "", http.StatusOK},
		{"options passes", http.MethodOptions, "", "", http.StatusOK},
		{"post without header", http.MethodPost, "", "", http.StatusForbidden},
		{"put with wrong token", http.MethodPut, "nope", "", http.StatusForbidden},
		{"delete with token", http.MethodDelete, cookie.Value, "", http.StatusOK},
		{"patch with token", http.MethodPatch, cookie.Value, "", http.StatusOK},
		{"post from trusted origin", http.MethodPost, cookie.Value, "https://boards.example.com", http.StatusOK},
		{"post from foreign origin", http.MethodPost, cookie.Value, "https://evil.example", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/clients", nil)
			req.AddCookie(cookie)
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestCSRFIgnoresOriginWithoutTrustList(t *testing.T) {
	next, _ := okHandler()
	h := NewCSRF(false)(next)
	cookie := issueToken(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/drafts", nil)
	req.AddCookie(cookie)
	req.Header.Set(CSRFHeaderName, cookie.Value)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rr.Code)
	}
}
