// Package detector decides whether a 404 hit should be recorded: it matches
// the referrer against known AI chatbot domains, filters blacklisted paths,
// and derives the normalized slug used by the rest of the pipeline.
package detector

import "strings"

// builtinReferrerPatterns are the AI chatbot domains recognized out of the
// box. Matching is plain case-sensitive substring containment against the
// referrer.
var builtinReferrerPatterns = []string{
	"chat.openai.com",
	"chatgpt.com",
	"claude.ai",
	"bard.google.com",
	"perplexity.ai",
	"you.com",
	"bing.com/chat",
	"poe.com",
}

// builtinBlacklistPatterns cover admin, asset, and feed paths that should
// never produce generated content.
var builtinBlacklistPatterns = []string{
	"wp-admin",
	"wp-login",
	"wp-content",
	"wp-includes",
	"feed",
	"rss",
	"sitemap",
	"robots.txt",
	".git",
	".env",
	"xmlrpc.php",
}

// ReferrerHook lets callers extend referrer matching beyond substring
// patterns. The first hook returning true short-circuits.
type ReferrerHook func(referrer string) bool

// ReferrerGate reports whether a referrer belongs to an AI chatbot. Custom
// patterns from configuration extend the builtin list.
type ReferrerGate struct {
	patterns []string
	hooks    []ReferrerHook
}

// NewReferrerGate builds a gate from the newline-separated custom pattern
// block. Blank lines and surrounding whitespace are ignored.
func NewReferrerGate(customPatterns string, hooks ...ReferrerHook) *ReferrerGate {
	patterns := append([]string{}, builtinReferrerPatterns...)
	patterns = append(patterns, splitPatterns(customPatterns)...)
	return &ReferrerGate{patterns: patterns, hooks: hooks}
}

// Match reports whether the referrer contains any known pattern. Matching is
// case-sensitive; existing pattern lists depend on that. An empty referrer
// never matches.
func (g *ReferrerGate) Match(referrer string) bool {
	if referrer == "" {
		return false
	}
	for _, p := range g.patterns {
		if strings.Contains(referrer, p) {
			return true
		}
	}
	for _, hook := range g.hooks {
		if hook(referrer) {
			return true
		}
	}
	return false
}

// BlacklistHook lets callers blacklist additional slugs.
type BlacklistHook func(slug string) bool

// BlacklistGate reports whether a slug must be rejected.
type BlacklistGate struct {
	patterns []string
	hooks    []BlacklistHook
}

func NewBlacklistGate(customPatterns string, hooks ...BlacklistHook) *BlacklistGate {
	patterns := append([]string{}, builtinBlacklistPatterns...)
	patterns = append(patterns, splitPatterns(customPatterns)...)
	return &BlacklistGate{patterns: patterns, hooks: hooks}
}

// Blocked reports whether the slug contains any blacklisted pattern.
func (g *BlacklistGate) Blocked(slug string) bool {
	for _, p := range g.patterns {
		if strings.Contains(slug, p) {
			return true
		}
	}
	for _, hook := range g.hooks {
		if hook(slug) {
			return true
		}
	}
	return false
}

func splitPatterns(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
