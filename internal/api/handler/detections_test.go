package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verygoodplugins/llm-url-solution/internal/detector"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

type fakeDetector struct {
	event  *models.DetectionEvent
	err    error
	report detector.MissReport
}

func (f *fakeDetector) HandleMiss(_ context.Context, report detector.MissReport) (*models.DetectionEvent, error) {
	f.report = report
	return f.event, f.err
}

type fakeEventStore struct {
	store.Store

	event     *models.DetectionEvent
	events    []*models.DetectionEvent
	total     int
	filter    store.EventFilter
	deleted   int64
	truncated bool
	stats     *store.EventStats
}

func (f *fakeEventStore) GetEvent(_ context.Context, id uuid.UUID) (*models.DetectionEvent, error) {
	if f.event == nil || f.event.ID != id {
		return nil, store.ErrNotFound
	}
	return f.event, nil
}

func (f *fakeEventStore) ListEvents(_ context.Context, filter store.EventFilter) ([]*models.DetectionEvent, int, error) {
	f.filter = filter
	return f.events, f.total, nil
}

func (f *fakeEventStore) DeleteEvents(_ context.Context, ids []uuid.UUID) (int64, error) {
	f.deleted = int64(len(ids))
	return f.deleted, nil
}

func (f *fakeEventStore) TruncateEvents(context.Context) error {
	f.truncated = true
	return nil
}

func (f *fakeEventStore) Stats(context.Context) (*store.EventStats, error) {
	return f.stats, nil
}

func sampleEvent() *models.DetectionEvent {
	return &models.DetectionEvent{
		ID:               uuid.New(),
		RequestedURL:     "/how-to-fix-api-errors",
		URLSlug:          "how-to-fix-api-errors",
		Referrer:         "https://chat.openai.com/",
		GenerationStatus: models.GenerationStatusPending,
		CreatedAt:        time.Now(),
	}
}

func TestReportHandler_Recorded(t *testing.T) {
	svc := &fakeDetector{event: sampleEvent()}
	h := NewReportHandler(svc)

	body := `{"url":"/how-to-fix-api-errors","referrer":"https://chat.openai.com/","user_agent":"TestAgent"}`
	r := httptest.NewRequest("POST", "/api/v1/detections", strings.NewReader(body))
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/how-to-fix-api-errors", svc.report.RequestedURL)
	assert.Equal(t, "203.0.113.9", svc.report.ClientIP)
	assert.Equal(t, "TestAgent", svc.report.UserAgent)

	var resp struct {
		Data models.DetectionEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, svc.event.ID, resp.Data.ID)
}

func TestReportHandler_RejectedGets204(t *testing.T) {
	h := NewReportHandler(&fakeDetector{})

	body := `{"url":"/how-to-fix-api-errors","referrer":"https://www.google.com/"}`
	r := httptest.NewRequest("POST", "/api/v1/detections", strings.NewReader(body))
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestReportHandler_MissingURL(t *testing.T) {
	h := NewReportHandler(&fakeDetector{})

	r := httptest.NewRequest("POST", "/api/v1/detections", strings.NewReader(`{"referrer":"x"}`))
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_InvalidJSON(t *testing.T) {
	h := NewReportHandler(&fakeDetector{})

	r := httptest.NewRequest("POST", "/api/v1/detections", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_StoreError(t *testing.T) {
	h := NewReportHandler(&fakeDetector{err: assert.AnError})

	r := httptest.NewRequest("POST", "/api/v1/detections", strings.NewReader(`{"url":"/x"}`))
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetDetectionHandler(t *testing.T) {
	event := sampleEvent()
	st := &fakeEventStore{event: event}
	h := NewGetDetectionHandler(st)

	r := httptest.NewRequest("GET", "/api/v1/detections/"+event.ID.String(), nil)
	r = withURLParam(r, "eventID", event.ID.String())
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetDetectionHandler_InvalidID(t *testing.T) {
	h := NewGetDetectionHandler(&fakeEventStore{})

	r := httptest.NewRequest("GET", "/api/v1/detections/nope", nil)
	r = withURLParam(r, "eventID", "nope")
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDetectionHandler_NotFound(t *testing.T) {
	h := NewGetDetectionHandler(&fakeEventStore{})

	id := uuid.New().String()
	r := httptest.NewRequest("GET", "/api/v1/detections/"+id, nil)
	r = withURLParam(r, "eventID", id)
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDetectionsHandler_Filters(t *testing.T) {
	st := &fakeEventStore{events: []*models.DetectionEvent{sampleEvent()}, total: 42}
	h := NewListDetectionsHandler(st)

	r := httptest.NewRequest("GET", "/api/v1/detections?processed=false&generated=true&search=api&page=2&limit=10", nil)
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, st.filter.Processed)
	assert.False(t, *st.filter.Processed)
	require.NotNil(t, st.filter.ContentGenerated)
	assert.True(t, *st.filter.ContentGenerated)
	assert.Equal(t, "api", st.filter.Search)
	assert.Equal(t, 2, st.filter.Page)
	assert.Equal(t, 10, st.filter.Limit)

	var resp struct {
		Meta struct {
			Total   int  `json:"total"`
			HasNext bool `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Meta.Total)
	assert.True(t, resp.Meta.HasNext)
}

func TestListDetectionsHandler_BadBoolean(t *testing.T) {
	h := NewListDetectionsHandler(&fakeEventStore{})

	r := httptest.NewRequest("GET", "/api/v1/detections?processed=maybe", nil)
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteDetectionsHandler_ByID(t *testing.T) {
	st := &fakeEventStore{}
	h := NewDeleteDetectionsHandler(st)

	body := `{"ids":["` + uuid.New().String() + `","` + uuid.New().String() + `"]}`
	r := httptest.NewRequest("DELETE", "/api/v1/detections", strings.NewReader(body))
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), st.deleted)
	assert.False(t, st.truncated)
}

func TestDeleteDetectionsHandler_All(t *testing.T) {
	st := &fakeEventStore{}
	h := NewDeleteDetectionsHandler(st)

	r := httptest.NewRequest("DELETE", "/api/v1/detections", strings.NewReader(`{"all":true}`))
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, st.truncated)
}

func TestDeleteDetectionsHandler_EmptyRequest(t *testing.T) {
	h := NewDeleteDetectionsHandler(&fakeEventStore{})

	r := httptest.NewRequest("DELETE", "/api/v1/detections", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsHandler(t *testing.T) {
	st := &fakeEventStore{stats: &store.EventStats{Total: 10, Unprocessed: 3, Today: 2}}
	h := NewStatsHandler(st)

	r := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data store.EventStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Data.Total)
	assert.Equal(t, 3, resp.Data.Unprocessed)
}
