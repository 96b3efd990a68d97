package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferrerGate_Match(t *testing.T) {
	gate := NewReferrerGate("")

	tests := []struct {
		name     string
		referrer string
		want     bool
	}{
		{"chatgpt", "https://chat.openai.com/", true},
		{"chatgpt new domain", "https://chatgpt.com/c/abc123", true},
		{"claude", "https://claude.ai/chat/xyz", true},
		{"perplexity", "https://www.perplexity.ai/search?q=foo", true},
		{"bing chat path", "https://www.bing.com/chat?q=foo", true},
		{"bing without chat", "https://www.bing.com/search?q=foo", false},
		{"google search", "https://www.google.com/search?q=foo", false},
		{"empty referrer", "", false},
		{"matching is case sensitive", "https://Chat.OpenAI.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Match(tt.referrer))
		})
	}
}

func TestReferrerGate_CustomPatterns(t *testing.T) {
	gate := NewReferrerGate("copilot.microsoft.com\n\n  grok.x.ai  \n")

	assert.True(t, gate.Match("https://copilot.microsoft.com/"))
	assert.True(t, gate.Match("https://grok.x.ai/chat"))
	assert.False(t, gate.Match("https://example.com/"))
}

func TestReferrerGate_CustomPatternsKeepCase(t *testing.T) {
	gate := NewReferrerGate("MyChat.IO")

	assert.True(t, gate.Match("https://MyChat.IO/session"))
	assert.False(t, gate.Match("https://mychat.io/session"))
}

func TestReferrerGate_Hook(t *testing.T) {
	gate := NewReferrerGate("", func(ref string) bool {
		return ref == "special"
	})

	assert.True(t, gate.Match("special"))
	assert.False(t, gate.Match("ordinary"))
}

func TestBlacklistGate_Blocked(t *testing.T) {
	gate := NewBlacklistGate("")

	tests := []struct {
		slug string
		want bool
	}{
		{"wp-admin/options", true},
		{"wp-login", true},
		{"feed", true},
		{"blog/rss", true},
		{"sitemap.xml", true},
		{"secrets/.env", true},
		{"xmlrpc.php", true},
		{"how-to-fix-api-errors", false},
		{"docs/getting-started", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Blocked(tt.slug))
		})
	}
}

func TestBlacklistGate_CustomAndHook(t *testing.T) {
	gate := NewBlacklistGate("internal-docs", func(slug string) bool {
		return slug == "exact-block"
	})

	assert.True(t, gate.Blocked("internal-docs/setup"))
	assert.True(t, gate.Blocked("exact-block"))
	assert.False(t, gate.Blocked("public-docs"))
}

func TestExtractSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain path", "/how-to-fix-api-errors/", "how-to-fix-api-errors"},
		{"full url", "https://example.com/docs/setup?utm=1#frag", "docs/setup"},
		{"html extension", "/guide.html", "guide"},
		{"php extension", "/page.php", "page"},
		{"aspx extension", "/Legacy.ASPX", "legacy"},
		{"keeps interior slashes", "/docs/api/auth/", "docs/api/auth"},
		{"uppercase lowered", "/Docs/Setup", "docs/setup"},
		{"root", "/", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSlug(tt.in))
		})
	}
}
