// Package models contains shared data models used across the codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenerationStatusPending    = "pending"
	GenerationStatusGenerating = "generating"
	GenerationStatusSuccess    = "success"
	GenerationStatusFailed     = "failed"
)

// DetectionEvent is one recorded 404 hit with an AI-chatbot referrer.
// Invariants: ContentGenerated implies PublishedRecordID is set and Processed
// is true; GenerationStatus "success" implies ContentGenerated.
type DetectionEvent struct {
	ID                uuid.UUID  `db:"id"                  json:"id"`
	RequestedURL      string     `db:"requested_url"       json:"requested_url"`
	URLSlug           string     `db:"url_slug"            json:"url_slug"`
	Referrer          string     `db:"referrer"            json:"referrer"`
	ClientIP          string     `db:"client_ip"           json:"client_ip"`
	UserAgent         string     `db:"user_agent"          json:"user_agent"`
	ConfidenceScore   *float64   `db:"confidence_score"    json:"confidence_score,omitempty"`
	DetectedPostType  *string    `db:"detected_post_type"  json:"detected_post_type,omitempty"`
	Processed         bool       `db:"processed"           json:"processed"`
	ContentGenerated  bool       `db:"content_generated"   json:"content_generated"`
	PublishedRecordID *uuid.UUID `db:"published_record_id" json:"published_record_id,omitempty"`
	GenerationStatus  string     `db:"generation_status"   json:"generation_status"`
	GenerationMessage string     `db:"generation_message"  json:"generation_message"`
	CreatedAt         time.Time  `db:"created_at"          json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"          json:"updated_at"`
}
