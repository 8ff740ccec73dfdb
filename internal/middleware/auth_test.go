package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"GreenArmy/internal/pkg"
	"GreenArmy/internal/service"

	"github.com/gin-gonic/gin"
)

type stubSessions map[string]string

func (s stubSessions) Save(_ context.Context, userID, token string, _ time.Duration) error {
	s[userID] = token
	return nil
}

func (s stubSessions) Get(_ context.Context, userID string) (string, error) {
	if tok, ok := s[userID]; ok {
		return tok, nil
	}
	return "", errors.New("not found")
}

func (s stubSessions) Delete(_ context.Context, userID string) error {
	delete(s, userID)
	return nil
}

func newGateRouter(tokens *pkg.TokenIssuer, sessions stubSessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	var store service.SessionStore
	if sessions != nil {
		store = sessions
	}
	r.Use(RequestID(), IdentityGate(tokens, store, "greenamy_token", logger))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CallerFrom(c).UserID)
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func do(r http.Handler, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentityGate(t *testing.T) {
	tokens := pkg.NewTokenIssuer("gate-secret", time.Hour)
	tok, _, _ := tokens.Generate("u-1", "a@example.com", "Ann", "USER")
	r := newGateRouter(tokens, nil)

	cases := []struct {
		name   string
		mutate func(*http.Request)
		want   string
	}{
		{"anonymous", nil, ""},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) }, "u-1"},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "greenamy_token", Value: tok}) }, "u-1"},
		{"garbage token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, ""},
		{"wrong scheme", func(req *http.Request) { req.Header.Set("Authorization", "Basic "+tok) }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, "/whoami", tc.mutate)
			if w.Code != http.StatusOK || w.Body.String() != tc.want {
				t.Fatalf("got %d %q, want %q", w.Code, w.Body.String(), tc.want)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatal("missing request id")
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	tokens := pkg.NewTokenIssuer("gate-secret", time.Hour)
	tok, _, _ := tokens.Generate("u-1", "", "", "USER")
	r := newGateRouter(tokens, nil)

	if w := do(r, "/private", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d", w.Code)
	}
	w := do(r, "/private", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) })
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated = %d", w.Code)
	}
}

func TestIdentityGateSessionRegistry(t *testing.T) {
	tokens := pkg.NewTokenIssuer("gate-secret", time.Hour)
	oldTok, _, _ := tokens.Generate("u-1", "", "", "USER")
	newTok, _, _ := tokens.Generate("u-1", "", "Ann", "USER")
	sessions := stubSessions{"u-1": newTok}
	r := newGateRouter(tokens, sessions)

	bearer := func(tok string) func(*http.Request) {
		return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) }
	}
	if w := do(r, "/whoami", bearer(newTok)); w.Body.String() != "u-1" {
		t.Fatalf("current token rejected: %q", w.Body.String())
	}
	if w := do(r, "/whoami", bearer(oldTok)); w.Body.String() != "" {
		t.Fatalf("superseded token accepted: %q", w.Body.String())
	}
	delete(sessions, "u-1")
	if w := do(r, "/whoami", bearer(newTok)); w.Body.String() != "" {
		t.Fatalf("logged out token accepted: %q", w.Body.String())
	}
}
