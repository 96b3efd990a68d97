package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RecordStatusDraft     = "draft"
	RecordStatusPublished = "published"
)

// PublishedRecord is a piece of generated content persisted to the catalog.
type PublishedRecord struct {
	ID            uuid.UUID  `db:"id"              json:"id"`
	Title         string     `db:"title"           json:"title"`
	Slug          string     `db:"slug"            json:"slug"`
	BodyHTML      string     `db:"body_html"       json:"body_html"`
	Excerpt       string     `db:"excerpt"         json:"excerpt"`
	Status        string     `db:"status"          json:"status"`
	ContentType   string     `db:"content_type"    json:"content_type"`
	FocusKeyword  string     `db:"focus_keyword"   json:"focus_keyword"`
	SourceEventID *uuid.UUID `db:"source_event_id" json:"source_event_id,omitempty"`
	OriginalURL   string     `db:"original_url"    json:"original_url"`
	Tags          []string   `db:"-"               json:"tags"`
	CreatedAt     time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"      json:"updated_at"`
}
