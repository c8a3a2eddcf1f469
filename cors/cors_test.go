package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/ldpworks/ldprepo/config"
)

func newRouter(policy config.CORS) *mux.Router {
	r := mux.NewRouter()
	r.Use(Middleware(policy))
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestSimpleRequestEchoesOrigin(t *testing.T) {
	policy := config.CORS{AllowedOrigins: []string{"https://client.example"}}
	r := newRouter(policy)
	req := httptest.NewRequest(http.MethodGet, "/res", nil)
	req.Header.Set("Origin", "https://client.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://client.example" {
		t.Fatalf("got %q", got)
	}
	if rec.Header().Get("Access-Control-Max-Age") != "" {
		t.Fatal("simple requests must not carry preflight-only headers")
	}
}

func TestSimpleRequestWildcardWithoutCredentials(t *testing.T) {
	policy := config.CORS{AllowedOrigins: []string{"*"}}
	r := newRouter(policy)
	req := httptest.NewRequest(http.MethodGet, "/res", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("got %q", got)
	}
}

func TestPreflightSuccess(t *testing.T) {
	policy := config.CORS{
		AllowedOrigins: []string{"https://client.example"},
		AllowedMethods: []string{"PUT", "PATCH"},
		AllowedHeaders: []string{"Content-Type", "Slug"},
		MaxAgeSeconds:  600,
	}
	r := newRouter(policy)
	req := httptest.NewRequest(http.MethodOptions, "/res", nil)
	req.Header.Set("Origin", "https://client.example")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Slug")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatal("expected Allow-Methods")
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "content-type, slug" {
		t.Fatalf("got %q", got)
	}
	if rec.Header().Get("Access-Control-Max-Age") != "600" {
		t.Fatalf("got %q", rec.Header().Get("Access-Control-Max-Age"))
	}
}

func TestPreflightRejectsDisallowedHeader(t *testing.T) {
	policy := config.CORS{
		AllowedOrigins: []string{"https://client.example"},
		AllowedMethods: []string{"PUT"},
		AllowedHeaders: []string{"Content-Type"},
	}
	r := newRouter(policy)
	req := httptest.NewRequest(http.MethodOptions, "/res", nil)
	req.Header.Set("Origin", "https://client.example")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "X-Not-Allowed")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "" {
		t.Fatal("expected no CORS headers on a failed preflight")
	}
}

func TestUnmatchedOriginIsUntouched(t *testing.T) {
	policy := config.CORS{AllowedOrigins: []string{"https://client.example"}}
	r := newRouter(policy)
	req := httptest.NewRequest(http.MethodGet, "/res", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("expected no CORS headers for a disallowed origin")
	}
}
