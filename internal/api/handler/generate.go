package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verygoodplugins/llm-url-solution/internal/api/response"
	"github.com/verygoodplugins/llm-url-solution/internal/generator"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
)

// Generator runs the generation pipeline for one event.
type Generator interface {
	Generate(ctx context.Context, eventID uuid.UUID) (*generator.Result, error)
}

// Submitter queues an event for background generation.
type Submitter interface {
	Submit(eventID uuid.UUID) bool
}

// NewGenerateHandler returns the handler for
// POST /api/v1/detections/{eventID}/generate. With ?async=true the attempt is
// queued and the handler replies 202; otherwise it runs inline.
func NewGenerateHandler(svc Generator, queue Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "eventID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"eventID must be a valid UUID", nil)
			return
		}

		if r.URL.Query().Get("async") == "true" {
			if queue == nil || !queue.Submit(id) {
				response.Error(w, http.StatusServiceUnavailable, "QUEUE_FULL",
					"Generation queue is full, try again later", nil)
				return
			}
			response.Accepted(w, map[string]any{"event_id": id, "queued": true})
			return
		}

		result, err := svc.Generate(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Detection event not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		switch {
		case result.Generated:
			response.JSON(w, result)
		case result.Code == generator.CodeAlreadyProcessed:
			response.Error(w, http.StatusConflict, "ALREADY_PROCESSED",
				"Detection event was already processed", result)
		case result.Code == generator.CodeRateLimited:
			response.Error(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				result.Reason, result)
		default:
			response.Error(w, http.StatusUnprocessableEntity, "GENERATION_FAILED",
				result.Reason, result)
		}
	}
}
