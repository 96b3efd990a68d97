package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

var (
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate is returned when an event for the same slug already exists
	// inside the deduplication window. Callers treat it as a silent no-op.
	ErrDuplicate = errors.New("duplicate event within window")
	// ErrAlreadyProcessed is returned by CompleteEvent when the conditional
	// update matched no rows, i.e. another caller won the race.
	ErrAlreadyProcessed = errors.New("event already processed")
)

// Store is the durable log of detection events. All database operations for
// events go through here.
type Store interface {
	Ping(ctx context.Context) error

	// InsertEvent records a detection event unless an event with the same slug
	// exists inside dedupWindow; then it returns ErrDuplicate and writes nothing.
	InsertEvent(ctx context.Context, event *models.DetectionEvent, dedupWindow time.Duration) error
	GetEvent(ctx context.Context, id uuid.UUID) (*models.DetectionEvent, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*models.DetectionEvent, int, error)
	ListUnprocessed(ctx context.Context, limit int) ([]*models.DetectionEvent, error)

	UpdateGenerationStatus(ctx context.Context, id uuid.UUID, status, message string) error
	// MarkProcessed flips the processed flag. Idempotent.
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	// CompleteEvent atomically marks an unprocessed event as processed and
	// content-generated, linking the published record. Returns
	// ErrAlreadyProcessed if the event was processed in the meantime.
	CompleteEvent(ctx context.Context, id, recordID uuid.UUID) error

	DeleteEvents(ctx context.Context, ids []uuid.UUID) (int64, error)
	TruncateEvents(ctx context.Context) error
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// GenerationCounts reports how many events had content generated in the
	// trailing hour and since local midnight. Read fresh on every rate check.
	GenerationCounts(ctx context.Context) (hourly, daily int, err error)
	Stats(ctx context.Context) (*EventStats, error)
}

// EventFilter narrows and paginates ListEvents.
type EventFilter struct {
	Processed        *bool
	ContentGenerated *bool
	Search           string
	Page             int
	Limit            int
}

// EventStats backs the dashboard endpoint.
type EventStats struct {
	Total            int `json:"total"`
	Unprocessed      int `json:"unprocessed"`
	ContentGenerated int `json:"content_generated"`
	Today            int `json:"today"`
	Week             int `json:"week"`
}
