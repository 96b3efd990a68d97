package analyzer

import (
	"strings"
	"unicode"

	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

const (
	defaultContentType = "blog"
	defaultIntent      = "learn"
	placeholderTopic   = "General Information"
)

// contentIndicators score keyword lists against content types. Declaration
// order breaks ties.
var contentIndicators = []struct {
	contentType string
	indicators  []string
}{
	{"documentation", []string{"docs", "documentation", "guide", "manual", "reference", "api", "tutorial"}},
	{"blog", []string{"blog", "article", "post", "news", "update", "announcement"}},
	{"product", []string{"product", "feature", "pricing", "plans", "compare", "vs"}},
	{"support", []string{"help", "support", "faq", "troubleshoot", "fix", "solve", "issue"}},
	{"tutorial", []string{"how-to", "howto", "tutorial", "guide", "walkthrough", "setup"}},
}

// intentPatterns are scanned in declaration order; the first keyword hit wins
// without scoring.
var intentPatterns = []struct {
	intent   string
	patterns []string
}{
	{"learn", []string{"learn", "understand", "what", "introduction", "basics"}},
	{"implement", []string{"how", "howto", "implement", "setup", "install", "configure"}},
	{"troubleshoot", []string{"fix", "solve", "error", "issue", "problem", "troubleshoot"}},
	{"compare", []string{"vs", "versus", "compare", "difference", "between"}},
	{"reference", []string{"api", "reference", "docs", "documentation", "manual"}},
}

// defaultIntents maps a content type to its fallback intent when no pattern
// word matched.
var defaultIntents = map[string]string{
	"documentation": "reference",
	"blog":          "learn",
	"tutorial":      "implement",
	"support":       "troubleshoot",
	"product":       "learn",
}

// Hook post-processes an analysis before it is returned. Hooks run in
// registration order, each receiving the previous hook's output.
type Hook func(models.AnalysisResult) models.AnalysisResult

// Analyzer classifies URL slugs. The zero value is usable; hooks are the only
// state. Safe for concurrent use.
type Analyzer struct {
	hooks []Hook
}

// New creates an Analyzer with optional post-processing hooks.
func New(hooks ...Hook) *Analyzer {
	return &Analyzer{hooks: hooks}
}

// Analyze is a deterministic transform from slug to analysis: same input,
// same output, no side effects.
func (a *Analyzer) Analyze(slug string) models.AnalysisResult {
	keywords := ExtractKeywords(slug)
	contentType := determineContentType(keywords)
	intent := extractIntent(keywords, contentType)
	topic := generateTopic(keywords)

	result := models.AnalysisResult{
		OriginalSlug: slug,
		Keywords:     keywords,
		ContentType:  contentType,
		Intent:       intent,
		Topic:        topic,
	}
	result.Confidence = calculateConfidence(result)

	for _, hook := range a.hooks {
		result = hook(result)
	}
	return result
}

// determineContentType scores each content type: +2 per exact keyword match,
// +1 per substring containment in either direction. Highest score wins, ties
// go to the first declared type, all-zero falls back to blog.
func determineContentType(keywords []string) string {
	best := defaultContentType
	bestScore := 0

	for _, ci := range contentIndicators {
		score := 0
		for _, keyword := range keywords {
			exact := false
			for _, indicator := range ci.indicators {
				if keyword == indicator {
					exact = true
					break
				}
			}
			if exact {
				score += 2
				continue
			}
			for _, indicator := range ci.indicators {
				if strings.Contains(keyword, indicator) || strings.Contains(indicator, keyword) {
					score++
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = ci.contentType
		}
	}

	if bestScore == 0 {
		return defaultContentType
	}
	return best
}

func extractIntent(keywords []string, contentType string) string {
	for _, ip := range intentPatterns {
		for _, keyword := range keywords {
			for _, pattern := range ip.patterns {
				if keyword == pattern {
					return ip.intent
				}
			}
		}
	}

	if intent, ok := defaultIntents[contentType]; ok {
		return intent
	}
	return defaultIntent
}

func generateTopic(keywords []string) string {
	if len(keywords) == 0 {
		return placeholderTopic
	}

	formatted := make([]string, len(keywords))
	for i, keyword := range keywords {
		formatted[i] = upperFirst(keyword)
	}
	return strings.Join(formatted, " ")
}

// calculateConfidence is additive with a 1.0 cap: keyword count (+0.3/+0.2/+0.1),
// non-default content type (+0.2), non-default intent (+0.2), topic longer than
// ten characters (+0.1), hierarchical slug (+0.1).
func calculateConfidence(result models.AnalysisResult) float64 {
	confidence := 0.0

	switch n := len(result.Keywords); {
	case n >= 3:
		confidence += 0.3
	case n == 2:
		confidence += 0.2
	case n == 1:
		confidence += 0.1
	}

	if result.ContentType != defaultContentType {
		confidence += 0.2
	}
	if result.Intent != "" && result.Intent != defaultIntent {
		confidence += 0.2
	}
	if len(result.Topic) > 10 {
		confidence += 0.1
	}
	if strings.Contains(result.OriginalSlug, "/") {
		confidence += 0.1
	}

	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
