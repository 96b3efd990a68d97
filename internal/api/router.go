package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/verygoodplugins/llm-url-solution/internal/api/middleware"
	"github.com/verygoodplugins/llm-url-solution/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler    http.HandlerFunc
	ReportHandler    http.HandlerFunc
	ListDetections   http.HandlerFunc
	GetDetection     http.HandlerFunc
	DeleteDetections http.HandlerFunc
	StatusHandler    http.HandlerFunc
	GenerateHandler  http.HandlerFunc
	GetRecord        http.HandlerFunc
	StatsHandler     http.HandlerFunc
}

// NewRouter builds the Chi router with the middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/v1/detections", orNotImplemented(deps.ReportHandler))
		r.Get("/api/v1/detections", orNotImplemented(deps.ListDetections))
		r.Get("/api/v1/detections/{eventID}", orNotImplemented(deps.GetDetection))
		r.Delete("/api/v1/detections", orNotImplemented(deps.DeleteDetections))
		r.Get("/api/v1/detections/{eventID}/status", orNotImplemented(deps.StatusHandler))
		r.Post("/api/v1/detections/{eventID}/generate", orNotImplemented(deps.GenerateHandler))

		r.Get("/api/v1/records/{recordID}", orNotImplemented(deps.GetRecord))
		r.Get("/api/v1/stats", orNotImplemented(deps.StatsHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
