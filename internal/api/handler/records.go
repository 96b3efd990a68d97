package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verygoodplugins/llm-url-solution/internal/api/response"
	"github.com/verygoodplugins/llm-url-solution/internal/publisher"
)

// NewGetRecordHandler returns the handler for GET /api/v1/records/{recordID}.
func NewGetRecordHandler(pub publisher.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "recordID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"recordID must be a valid UUID", nil)
			return
		}

		record, err := pub.GetRecord(r.Context(), id)
		if errors.Is(err, publisher.ErrRecordNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Published record not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.JSON(w, record)
	}
}
