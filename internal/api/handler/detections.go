// Package handler contains the HTTP handlers. Each handler depends on a
// narrow local interface so tests can swap in fakes.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verygoodplugins/llm-url-solution/internal/api/response"
	"github.com/verygoodplugins/llm-url-solution/internal/detector"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

// Detector is the detection pipeline the report handler depends on.
type Detector interface {
	HandleMiss(ctx context.Context, report detector.MissReport) (*models.DetectionEvent, error)
}

// NewReportHandler returns the handler for POST /api/v1/detections. A report
// rejected by the referrer gate, the blacklist, or deduplication gets 204
// with no body; the caller is not told which gate rejected it.
func NewReportHandler(svc Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL       string `json:"url"`
			Referrer  string `json:"referrer"`
			UserAgent string `json:"user_agent"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.URL == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "url is required", nil)
			return
		}

		userAgent := req.UserAgent
		if userAgent == "" {
			userAgent = r.UserAgent()
		}

		event, err := svc.HandleMiss(r.Context(), detector.MissReport{
			RequestedURL: req.URL,
			Referrer:     req.Referrer,
			ClientIP:     detector.ClientIP(r),
			UserAgent:    userAgent,
		})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		if event == nil {
			response.NoContent(w)
			return
		}
		response.Created(w, event)
	}
}

// NewListDetectionsHandler returns the handler for GET /api/v1/detections.
func NewListDetectionsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := store.EventFilter{
			Search: q.Get("search"),
			Page:   intParam(q.Get("page"), 1),
			Limit:  intParam(q.Get("limit"), 20),
		}
		if v := q.Get("processed"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"processed must be a boolean", nil)
				return
			}
			filter.Processed = &b
		}
		if v := q.Get("generated"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"generated must be a boolean", nil)
				return
			}
			filter.ContentGenerated = &b
		}

		events, total, err := st.ListEvents(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.Collection(w, events, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

// NewGetDetectionHandler returns the handler for GET /api/v1/detections/{eventID}.
func NewGetDetectionHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "eventID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"eventID must be a valid UUID", nil)
			return
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
		response.JSON(w, event)
	}
}

// NewDeleteDetectionsHandler returns the handler for DELETE /api/v1/detections.
// The body either names event IDs or asks for everything with {"all": true}.
func NewDeleteDetectionsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []uuid.UUID `json:"ids"`
			All bool        `json:"all"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.All {
			if err := st.TruncateEvents(r.Context()); err != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
				return
			}
			response.JSON(w, map[string]any{"truncated": true})
			return
		}

		if len(req.IDs) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"ids is required unless all is true", nil)
			return
		}

		deleted, err := st.DeleteEvents(r.Context(), req.IDs)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.JSON(w, map[string]any{"deleted": deleted})
	}
}

// NewStatsHandler returns the handler for GET /api/v1/stats.
func NewStatsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := st.Stats(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.JSON(w, stats)
	}
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
