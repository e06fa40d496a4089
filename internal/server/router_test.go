package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBasicRouter(t *testing.T) {
	t.Run("dispatches by method and path", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("unexpected response: %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects wrong method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("path wildcards reach handlers", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/songs/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.PathValue("id")))
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/songs/42", nil))
		if rec.Body.String() != "42" {
			t.Errorf("expected path value 42, got %q", rec.Body.String())
		}
	})

	t.Run("middleware applies in registration order", func(t *testing.T) {
		router := NewBasicRouter()

		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}
		router.Use(tag("outer"), tag("inner"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
		if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "handler" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})

	t.Run("Handler registers every route", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(multiRoute{})

		for _, path := range []string{"/a", "/b"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("route %s not registered: %d", path, rec.Code)
			}
		}
	})
}

type multiRoute struct{}

func (multiRoute) Routes() []string { return []string{"GET /a", "GET /b"} }

func (multiRoute) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
