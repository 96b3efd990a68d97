package handler

import (
	"context"
	"net/http"

	"github.com/verygoodplugins/llm-url-solution/internal/api/response"
)

// Pinger is anything with a health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns the handler for GET /api/v1/health. Degraded
// dependencies are reported per component; the endpoint itself stays 200
// unless the database is down.
func NewHealthHandler(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}
		healthy := true

		if err := db.Ping(r.Context()); err != nil {
			status["database"] = "unavailable"
			healthy = false
		}
		if err := cache.Ping(r.Context()); err != nil {
			status["cache"] = "unavailable"
		}

		if !healthy {
			response.Error(w, http.StatusServiceUnavailable, "UNHEALTHY",
				"Service dependencies are unavailable", status)
			return
		}
		response.JSON(w, status)
	}
}
