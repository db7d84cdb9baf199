package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finledger/internal/service"
)

func addSessionCookie(req *http.Request, token string) {
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
}

func TestSessionMiddleware_RedirectsUnauthenticated(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*http.Request, *mockAuth)
	}{
		{
			name:  "no cookie",
			setup: func(req *http.Request, _ *mockAuth) {},
		},
		{
			name: "empty cookie",
			setup: func(req *http.Request, _ *mockAuth) {
				addSessionCookie(req, "")
			},
		},
		{
			name: "invalid session",
			setup: func(req *http.Request, auth *mockAuth) {
				addSessionCookie(req, "stale-token")
				auth.validateID = nil
				auth.validateErr = service.ErrInvalidSession
			},
		},
	}

	// every protected route must behave the same way
	protected := []struct {
		method, path string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/add"},
		{http.MethodGet, "/edit/1"},
		{http.MethodPost, "/edit/1"},
		{http.MethodPost, "/delete/1"},
		{http.MethodPost, "/toggle-paid/1"},
		{http.MethodGet, "/logout"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, route := range protected {
				s, auth := authedServices(nil, nil)
				tcAuth := auth
				r := newTestRouter(s)

				req := httptest.NewRequest(route.method, route.path, nil)
				tc.setup(req, tcAuth)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				if w.Code != http.StatusFound {
					t.Fatalf("%s %s: status=%d, want %d", route.method, route.path, w.Code, http.StatusFound)
				}
				if loc := w.Header().Get("Location"); loc != "/login" {
					t.Fatalf("%s %s: Location=%q, want /login", route.method, route.path, loc)
				}
			}
		})
	}
}

func TestSessionMiddleware_PassesIdentityThrough(t *testing.T) {
	reporting := &mockReporting{}
	s, auth := authedServices(nil, reporting)
	r := newTestRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	addSessionCookie(req, "good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200; body=%s", w.Code, w.Body.String())
	}
	if auth.lastValidateToken != "good-token" {
		t.Fatalf("Validate got %q, want %q", auth.lastValidateToken, "good-token")
	}
	if reporting.lastOwner != 5 {
		t.Fatalf("overview requested for owner %d, want 5", reporting.lastOwner)
	}
	if !contains(w.Body.String(), "alice") {
		t.Fatalf("page should greet the session user; body=%s", w.Body.String())
	}
}
