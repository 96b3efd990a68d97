package detector

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verygoodplugins/llm-url-solution/internal/analyzer"
	"github.com/verygoodplugins/llm-url-solution/internal/config"
	"github.com/verygoodplugins/llm-url-solution/internal/store"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

type fakeStore struct {
	store.Store

	inserted  []*models.DetectionEvent
	insertErr error
}

func (f *fakeStore) InsertEvent(_ context.Context, event *models.DetectionEvent, _ time.Duration) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, event)
	return nil
}

type fakeScheduler struct {
	scheduled []uuid.UUID
	delays    []time.Duration
}

func (f *fakeScheduler) Schedule(id uuid.UUID, delay time.Duration) {
	f.scheduled = append(f.scheduled, id)
	f.delays = append(f.delays, delay)
}

type fakeTyper struct {
	postType string
	err      error
}

func (f *fakeTyper) ResolvePostType(context.Context, string) (string, error) {
	return f.postType, f.err
}

func newTestService(st store.Store, typer PostTypeResolver, sched Scheduler, cfg config.DetectionConfig) *Service {
	return NewService(st, analyzer.New(), typer, sched, cfg, slog.New(slog.DiscardHandler))
}

func aiMiss(url string) MissReport {
	return MissReport{
		RequestedURL: url,
		Referrer:     "https://chat.openai.com/",
		ClientIP:     "203.0.113.7",
		UserAgent:    "Mozilla/5.0",
	}
}

func TestHandleMiss_RecordsEvent(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, nil, nil, config.DetectionConfig{DedupWindow: time.Hour})

	event, err := svc.HandleMiss(context.Background(), aiMiss("/how-to-fix-api-errors"))

	require.NoError(t, err)
	require.NotNil(t, event)
	require.Len(t, st.inserted, 1)

	assert.Equal(t, "how-to-fix-api-errors", event.URLSlug)
	assert.Equal(t, "/how-to-fix-api-errors", event.RequestedURL)
	assert.Equal(t, "203.0.113.7", event.ClientIP)
	assert.Equal(t, models.GenerationStatusPending, event.GenerationStatus)
	assert.False(t, event.Processed)
	require.NotNil(t, event.ConfidenceScore)
	assert.Greater(t, *event.ConfidenceScore, 0.0)
}

func TestHandleMiss_NonAIReferrerIgnored(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, nil, nil, config.DetectionConfig{DedupWindow: time.Hour})

	event, err := svc.HandleMiss(context.Background(), MissReport{
		RequestedURL: "/how-to-fix-api-errors",
		Referrer:     "https://www.google.com/search?q=api",
	})

	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Empty(t, st.inserted)
}

func TestHandleMiss_BlacklistedSlugIgnored(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, nil, nil, config.DetectionConfig{DedupWindow: time.Hour})

	event, err := svc.HandleMiss(context.Background(), aiMiss("/wp-admin/options.php"))

	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Empty(t, st.inserted)
}

func TestHandleMiss_EmptySlugIgnored(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, nil, nil, config.DetectionConfig{DedupWindow: time.Hour})

	event, err := svc.HandleMiss(context.Background(), aiMiss("/"))

	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Empty(t, st.inserted)
}

func TestHandleMiss_DuplicateSuppressed(t *testing.T) {
	st := &fakeStore{insertErr: store.ErrDuplicate}
	svc := newTestService(st, nil, nil, config.DetectionConfig{DedupWindow: time.Hour})

	event, err := svc.HandleMiss(context.Background(), aiMiss("/how-to-fix-api-errors"))

	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestHandleMiss_ResolvesPostType(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeTyper{postType: "documentation"}, nil,
		config.DetectionConfig{DedupWindow: time.Hour})

	event, err := svc.HandleMiss(context.Background(), aiMiss("/docs/webhooks"))

	require.NoError(t, err)
	require.NotNil(t, event)
	require.NotNil(t, event.DetectedPostType)
	assert.Equal(t, "documentation", *event.DetectedPostType)
}

func TestHandleMiss_PostTypeFailureNonFatal(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st, &fakeTyper{err: assert.AnError}, nil,
		config.DetectionConfig{DedupWindow: time.Hour})

	event, err := svc.HandleMiss(context.Background(), aiMiss("/docs/webhooks"))

	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Nil(t, event.DetectedPostType)
}

func TestHandleMiss_AutoGenerateSchedules(t *testing.T) {
	st := &fakeStore{}
	sched := &fakeScheduler{}
	svc := newTestService(st, nil, sched, config.DetectionConfig{
		DedupWindow:       time.Hour,
		AutoGenerate:      true,
		AutoGenerateDelay: 10 * time.Second,
	})

	event, err := svc.HandleMiss(context.Background(), aiMiss("/how-to-fix-api-errors"))

	require.NoError(t, err)
	require.NotNil(t, event)
	require.Len(t, sched.scheduled, 1)
	assert.Equal(t, event.ID, sched.scheduled[0])
	assert.Equal(t, 10*time.Second, sched.delays[0])
}

func TestHandleMiss_AutoGenerateDisabled(t *testing.T) {
	st := &fakeStore{}
	sched := &fakeScheduler{}
	svc := newTestService(st, nil, sched, config.DetectionConfig{DedupWindow: time.Hour})

	_, err := svc.HandleMiss(context.Background(), aiMiss("/how-to-fix-api-errors"))

	require.NoError(t, err)
	assert.Empty(t, sched.scheduled)
}
