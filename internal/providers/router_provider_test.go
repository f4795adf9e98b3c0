package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/results", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/results", routes[0].Url)
}

func TestRouterProvider_PostAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/feedback", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodPost, routes[0].Method)
	assert.Equal(t, "/feedback", routes[0].Url)
}

func TestRouterProvider_MultipleRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.Post("/b", dummyHandler())
	rp.Get("/c", dummyHandler())

	routes := rp.GetRoutes()
	assert.Len(t, routes, 3)
}

func TestBuildMux_ServesRegisteredMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/results", dummyHandler())
	mux := rp.BuildMux()

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestBuildMux_WrongMethodGets405(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/results", dummyHandler())
	mux := rp.BuildMux()

	req := httptest.NewRequest(http.MethodPost, "/results", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestBuildMux_SameUrlDistinctMethods(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/profile", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rp.Get("/profile", dummyHandler())

	var mux *http.ServeMux
	require.NotPanics(t, func() { mux = rp.BuildMux() })

	post := httptest.NewRequest(http.MethodPost, "/profile", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, post)
	assert.Equal(t, http.StatusCreated, rr.Code)

	get := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, get)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestBuildMux_UnknownPathGets404(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/results", dummyHandler())
	mux := rp.BuildMux()

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
