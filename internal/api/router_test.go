package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verygoodplugins/llm-url-solution/internal/api"
)

func TestRouter_UnwiredRoutesReturn501(t *testing.T) {
	router := api.NewRouter(api.Dependencies{})

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/health"},
		{"POST", "/api/v1/detections"},
		{"GET", "/api/v1/detections"},
		{"DELETE", "/api/v1/detections"},
		{"GET", "/api/v1/stats"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			r := httptest.NewRequest(rt.method, rt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)
			assert.Equal(t, http.StatusNotImplemented, w.Code)
		})
	}
}

func TestRouter_WiredHandlerIsCalled(t *testing.T) {
	called := false
	router := api.NewRouter(api.Dependencies{
		HealthHandler: func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		},
	})

	r := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute404(t *testing.T) {
	router := api.NewRouter(api.Dependencies{})

	r := httptest.NewRequest("GET", "/api/v1/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PanicRecovered(t *testing.T) {
	router := api.NewRouter(api.Dependencies{
		StatsHandler: func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		},
	})

	r := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
