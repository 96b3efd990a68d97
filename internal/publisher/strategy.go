// Package publisher persists generated content as published records and
// serves the catalog lookups the pipeline needs: related-content search and
// taxonomy-based post type detection.
package publisher

import (
	"strings"

	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

// Category is the term a record gets filed under.
type Category struct {
	Slug string
	Name string
}

// CategorizationStrategy picks the category for a new record.
type CategorizationStrategy interface {
	Categorize(event *models.DetectionEvent, analysis models.AnalysisResult) Category
}

// ContentTypeStrategy files records by the classifier's content type.
type ContentTypeStrategy struct{}

var contentTypeCategories = map[string]Category{
	"documentation": {Slug: "documentation", Name: "Documentation"},
	"blog":          {Slug: "blog", Name: "Blog"},
	"product":       {Slug: "products", Name: "Products"},
	"support":       {Slug: "support", Name: "Support"},
	"tutorial":      {Slug: "tutorials", Name: "Tutorials"},
}

func (ContentTypeStrategy) Categorize(_ *models.DetectionEvent, analysis models.AnalysisResult) Category {
	if cat, ok := contentTypeCategories[analysis.ContentType]; ok {
		return cat
	}
	return Category{Slug: "general", Name: "General"}
}

// PathSegmentStrategy files records under the first path segment of the
// requested slug, falling back to the content type when the slug is flat.
type PathSegmentStrategy struct{}

func (PathSegmentStrategy) Categorize(event *models.DetectionEvent, analysis models.AnalysisResult) Category {
	if event != nil {
		if segment, _, found := strings.Cut(event.URLSlug, "/"); found && segment != "" {
			return Category{Slug: segment, Name: titleFromSlug(segment)}
		}
	}
	return ContentTypeStrategy{}.Categorize(event, analysis)
}

// NewStrategy maps a configured strategy name to its implementation. Unknown
// names get the content-type default; config validation rejects them earlier.
func NewStrategy(name string) CategorizationStrategy {
	if name == "path-segment" {
		return PathSegmentStrategy{}
	}
	return ContentTypeStrategy{}
}

func titleFromSlug(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
