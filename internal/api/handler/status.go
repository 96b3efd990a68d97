package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verygoodplugins/llm-url-solution/internal/api/response"
	"github.com/verygoodplugins/llm-url-solution/internal/cache"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
)

const statusCacheTTL = 5 * time.Minute

// NewStatusHandler returns the handler for
// GET /api/v1/detections/{eventID}/status, the polling endpoint for
// generation progress. The cache answers repeat polls; the store is only hit
// on a miss.
func NewStatusHandler(c cache.Cache, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "eventID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"eventID must be a valid UUID", nil)
			return
		}

		if c != nil {
			if status, ok, err := c.GetEventStatus(r.Context(), id); err == nil && ok {
				response.JSON(w, map[string]string{"event_id": id.String(), "status": status})
				return
			}
		}

		event, err := st.GetEvent(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Detection event not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		if c != nil {
			// Best effort; a failed write just means the next poll hits the store.
			_ = c.SetEventStatus(r.Context(), id, event.GenerationStatus, statusCacheTTL)
		}
		response.JSON(w, map[string]string{"event_id": id.String(), "status": event.GenerationStatus})
	}
}
