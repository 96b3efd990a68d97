package models

// AnalysisResult is the classifier's reading of a URL slug. It is ephemeral:
// it flows into prompt construction and into DetectionEvent mutation, and is
// never persisted on its own.
type AnalysisResult struct {
	OriginalSlug string   `json:"original_slug"`
	Keywords     []string `json:"keywords"`
	ContentType  string   `json:"content_type"`
	Intent       string   `json:"intent"`
	Topic        string   `json:"topic"`
	Confidence   float64  `json:"confidence"`
}

// RelatedContent is a published-record snippet surfaced by keyword search and
// fed to the prompt builder for grounding.
type RelatedContent struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	URL     string `json:"url"`
	Type    string `json:"type"`
}

// ContentSettings are the operator-configured length and tone bounds applied
// to every generation.
type ContentSettings struct {
	MinLength       int
	MaxLength       int
	Tone            string
	IncludeExamples bool
	IncludeCode     bool
}

// GenerationContext aggregates everything the prompt builder needs for one
// provider call. Consumed once; never persisted.
type GenerationContext struct {
	Analysis           AnalysisResult
	RelatedContent     []RelatedContent
	SiteName           string
	SiteDescription    string
	Settings           ContentSettings
	CustomInstructions string
}
