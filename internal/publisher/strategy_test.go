package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

func TestContentTypeStrategy(t *testing.T) {
	tests := []struct {
		contentType string
		wantSlug    string
		wantName    string
	}{
		{"tutorial", "tutorials", "Tutorials"},
		{"documentation", "documentation", "Documentation"},
		{"blog", "blog", "Blog"},
		{"product", "products", "Products"},
		{"support", "support", "Support"},
		{"unknown", "general", "General"},
		{"", "general", "General"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			cat := ContentTypeStrategy{}.Categorize(nil, models.AnalysisResult{ContentType: tt.contentType})
			assert.Equal(t, tt.wantSlug, cat.Slug)
			assert.Equal(t, tt.wantName, cat.Name)
		})
	}
}

func TestPathSegmentStrategy(t *testing.T) {
	event := &models.DetectionEvent{URLSlug: "api-guides/webhook-setup"}

	cat := PathSegmentStrategy{}.Categorize(event, models.AnalysisResult{ContentType: "tutorial"})

	assert.Equal(t, "api-guides", cat.Slug)
	assert.Equal(t, "Api Guides", cat.Name)
}

func TestPathSegmentStrategy_FlatSlugFallsBack(t *testing.T) {
	event := &models.DetectionEvent{URLSlug: "webhook-setup"}

	cat := PathSegmentStrategy{}.Categorize(event, models.AnalysisResult{ContentType: "tutorial"})

	assert.Equal(t, "tutorials", cat.Slug)
}

func TestNewStrategy(t *testing.T) {
	assert.IsType(t, PathSegmentStrategy{}, NewStrategy("path-segment"))
	assert.IsType(t, ContentTypeStrategy{}, NewStrategy("content-type"))
	assert.IsType(t, ContentTypeStrategy{}, NewStrategy(""))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fixing API Errors: A Guide", "fixing-api-errors-a-guide"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"Already-Hyphenated", "already-hyphenated"},
		{"100% Coverage!", "100-coverage"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}
