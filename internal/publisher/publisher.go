package publisher

import (
	"context"

	"github.com/google/uuid"

	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

// Publisher persists generated content to the catalog.
type Publisher interface {
	// Publish writes the record, its tags, and its category assignment in one
	// transaction and returns the stored record.
	Publish(ctx context.Context, event *models.DetectionEvent, analysis models.AnalysisResult, content models.GeneratedContent) (*models.PublishedRecord, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*models.PublishedRecord, error)
}

// Searcher finds existing records related to a keyword set. Results ground
// the generation prompt.
type Searcher interface {
	SearchRelated(ctx context.Context, keywords []string, limit int) ([]models.RelatedContent, error)
}
