package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse_FencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n{\"title\":\"Fixing API Errors\",\"content\":\"<p>Body</p>\",\"excerpt\":\"Short\",\"tags\":[\"api\",\"errors\"],\"focus_keyword\":\"api errors\"}\n```"

	got := ParseResponse(raw)

	assert.Equal(t, "Fixing API Errors", got.Title)
	assert.Equal(t, "<p>Body</p>", got.Content)
	assert.Equal(t, "Short", got.Excerpt)
	assert.Equal(t, []string{"api", "errors"}, got.Tags)
	assert.Equal(t, "api errors", got.FocusKeyword)
}

func TestParseResponse_FenceWithoutLanguageTag(t *testing.T) {
	tagged := ParseResponse("```json\n{\"title\":\"T\",\"content\":\"C\"}\n```")
	bare := ParseResponse("```\n{\"title\":\"T\",\"content\":\"C\"}\n```")

	assert.Equal(t, tagged, bare)
}

func TestParseResponse_BraceSubstring(t *testing.T) {
	raw := `Sure, here is the article: {"title":"T","content":"C","tags":[]} hope it helps`

	got := ParseResponse(raw)

	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
}

func TestParseResponse_DirectJSON(t *testing.T) {
	got := ParseResponse(`{"title":"T","content":"C"}`)

	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.NotNil(t, got.Tags)
}

func TestParseResponse_RawFallback(t *testing.T) {
	raw := "<h1>Heading</h1><p>Just plain prose with no JSON at all.</p>"

	got := ParseResponse(raw)

	assert.Equal(t, "Generated Content", got.Title)
	assert.Equal(t, raw, got.Content)
	assert.NotContains(t, got.Excerpt, "<h1>")
	assert.Contains(t, got.Excerpt, "Just plain prose")
	assert.Empty(t, got.Tags)
}

func TestParseResponse_MissingTitleFallsBack(t *testing.T) {
	raw := `{"content":"C only"}`

	got := ParseResponse(raw)

	assert.Equal(t, "Generated Content", got.Title)
	assert.Equal(t, raw, got.Content)
}

func TestParseResponse_ExcerptWordLimit(t *testing.T) {
	raw := strings.Repeat("word ", 200)

	got := ParseResponse(raw)

	assert.LessOrEqual(t, len(strings.Fields(got.Excerpt)), excerptWordLimit)
}

func TestBuildPrompt(t *testing.T) {
	gc := testGenerationContext()

	prompt := BuildPrompt(gc)

	assert.Contains(t, prompt, `Generate a tutorial about "How Fix Api Errors"`)
	assert.Contains(t, prompt, "how-to-fix-api-errors")
	assert.Contains(t, prompt, "Keywords identified: how, fix, api, errors")
	assert.Contains(t, prompt, "Length: 800 to 1500 words")
	assert.Contains(t, prompt, "- Existing Guide: An excerpt")
	assert.Contains(t, prompt, "Additional instructions: keep it short")
	assert.Contains(t, prompt, `"focus_keyword"`)
}

func TestBuildPrompt_OmitsEmptySections(t *testing.T) {
	gc := testGenerationContext()
	gc.RelatedContent = nil
	gc.CustomInstructions = ""

	prompt := BuildPrompt(gc)

	assert.NotContains(t, prompt, "Related existing content")
	assert.NotContains(t, prompt, "Additional instructions")
}
