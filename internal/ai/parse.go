package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

const (
	fallbackTitle    = "Generated Content"
	excerptWordLimit = 55
)

var (
	reFencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")
	reBraceJSON  = regexp.MustCompile(`(?s)\{.*\}`)
	reHTMLTag    = regexp.MustCompile(`<[^>]*>`)
)

// ParseResponse extracts structured content from a raw model reply. It prefers
// a fenced JSON block, then the first brace-delimited substring, then the raw
// text as-is. The payload must carry non-empty title and content fields;
// otherwise the whole reply becomes the content body under a generic title.
// This fallback never fails.
func ParseResponse(raw string) models.GeneratedContent {
	candidate := raw
	if m := reFencedJSON.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else if m := reBraceJSON.FindString(raw); m != "" {
		candidate = m
	}

	var parsed models.GeneratedContent
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil &&
		parsed.Title != "" && parsed.Content != "" {
		if parsed.Tags == nil {
			parsed.Tags = []string{}
		}
		return parsed
	}

	return models.GeneratedContent{
		Title:   fallbackTitle,
		Content: raw,
		Excerpt: trimWords(stripTags(raw), excerptWordLimit),
		Tags:    []string{},
	}
}

func stripTags(s string) string {
	return reHTMLTag.ReplaceAllString(s, "")
}

func trimWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + "…"
}
