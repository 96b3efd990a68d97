package ai

import (
	"fmt"
	"strings"

	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

const systemPrompt = `You are a professional content writer creating SEO-optimized content for a website. Generate engaging, informative content that matches the site's tone and style. Include relevant examples and practical information. Format the content with proper HTML markup including headings, paragraphs, lists, and code blocks where appropriate.`

// SystemPrompt returns the instruction shared by every backend.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt assembles the user prompt from the analysis, the length/tone
// settings, related-content excerpts, and optional custom instructions.
func BuildPrompt(gc models.GenerationContext) string {
	var b strings.Builder

	yesNo := func(v bool) string {
		if v {
			return "yes"
		}
		return "no"
	}

	fmt.Fprintf(&b, `Generate a %s about "%s" based on the URL slug: %s

Keywords identified: %s
Content type: %s
User intent: %s

Requirements:
- Length: %d to %d words
- Tone: %s
- Include practical examples: %s
- Include code snippets if relevant: %s
- SEO-optimized with proper heading structure
- Engaging introduction and conclusion
- Format with HTML tags

Site context:
- Site name: %s
- Site description: %s`,
		gc.Analysis.ContentType,
		gc.Analysis.Topic,
		gc.Analysis.OriginalSlug,
		strings.Join(gc.Analysis.Keywords, ", "),
		gc.Analysis.ContentType,
		gc.Analysis.Intent,
		gc.Settings.MinLength,
		gc.Settings.MaxLength,
		gc.Settings.Tone,
		yesNo(gc.Settings.IncludeExamples),
		yesNo(gc.Settings.IncludeCode),
		gc.SiteName,
		gc.SiteDescription,
	)

	if len(gc.RelatedContent) > 0 {
		b.WriteString("\n\nRelated existing content for context:\n")
		for _, related := range gc.RelatedContent {
			fmt.Fprintf(&b, "- %s: %s\n", related.Title, related.Excerpt)
		}
	}

	if gc.CustomInstructions != "" {
		b.WriteString("\n\nAdditional instructions: ")
		b.WriteString(gc.CustomInstructions)
	}

	b.WriteString(`

Return the content in the following JSON format:
{
  "title": "SEO-optimized title",
  "content": "Full HTML content",
  "excerpt": "Brief excerpt/meta description",
  "tags": ["tag1", "tag2", "tag3"],
  "focus_keyword": "main SEO keyword"
}`)

	return b.String()
}
