package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type stubAuthorizer map[string]string

func (s stubAuthorizer) Authorize(token string) (string, error) {
	if viewID, ok := s[token]; ok {
		return viewID, nil
	}
	return "", errors.New("invalid token")
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestViewTokenMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/views/:view_id", ViewTokenMiddleware(stubAuthorizer{"tok-a": "view-a"}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "view_id": shared.ViewID(c)})
	})

	cases := []struct {
		name   string
		path   string
		header func(*http.Request)
		want   int
	}{
		{name: "missing", path: "/views/view-a", header: func(*http.Request) {}, want: 401},
		{name: "invalid", path: "/views/view-a", header: func(r *http.Request) { r.Header.Set(viewTokenHeader, "bad") }, want: 401},
		{name: "other view", path: "/views/view-b", header: func(r *http.Request) { r.Header.Set(viewTokenHeader, "tok-a") }, want: 403},
		{name: "header", path: "/views/view-a", header: func(r *http.Request) { r.Header.Set(viewTokenHeader, "tok-a") }, want: 0},
		{name: "bearer", path: "/views/view-a", header: func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok-a") }, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			tc.header(req)
			r.ServeHTTP(w, req)
			if got := decodeStatusCode(t, w); got != tc.want {
				t.Fatalf("status_code want %d got %d", tc.want, got)
			}
		})
	}
}

func TestDiagnosticsTokenMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(token string) *gin.Engine {
		r := gin.New()
		r.GET("/diagnostics", DiagnosticsTokenMiddleware(config.DiagnosticsConfig{Token: token}), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status_code": 0})
		})
		return r
	}

	w := httptest.NewRecorder()
	newEngine("").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/diagnostics", nil))
	if got := decodeStatusCode(t, w); got != 404 {
		t.Fatalf("disabled diagnostics want 404 got %d", got)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/diagnostics", nil)
	req.Header.Set(diagnosticsTokenHeader, "wrong")
	newEngine("secret").ServeHTTP(w, req)
	if got := decodeStatusCode(t, w); got != 403 {
		t.Fatalf("wrong token want 403 got %d", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/diagnostics", nil)
	req.Header.Set(diagnosticsTokenHeader, "secret")
	newEngine("secret").ServeHTTP(w, req)
	if got := decodeStatusCode(t, w); got != 0 {
		t.Fatalf("valid token want 0 got %d", got)
	}
}
