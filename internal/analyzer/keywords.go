// Package analyzer turns URL slugs into keywords and a classified
// content-type/intent/topic reading with a confidence score.
package analyzer

import "strings"

// stopWords are filtered out of every slug. "how" and "what" are deliberately
// absent: they carry intent signal and must survive extraction.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "will": true,
	"with": true, "this": true, "but": true, "they": true, "have": true,
	"had": true, "when": true, "where": true, "who": true,
	"which": true, "why": true,
}

// knownAcronyms are kept even though they are shorter than three characters
// or would otherwise read as noise.
var knownAcronyms = map[string]bool{
	"ai": true, "api": true, "ui": true, "ux": true, "id": true, "ip": true,
	"it": true, "qa": true, "hr": true, "crm": true, "cms": true, "erp": true,
	"seo": true, "roi": true, "kpi": true, "b2b": true, "b2c": true,
	"css": true, "html": true, "js": true, "php": true, "sql": true,
	"xml": true, "json": true, "rss": true, "cdn": true, "dns": true,
	"ftp": true, "http": true, "ssl": true, "url": true, "vpn": true,
	"lan": true, "cpu": true, "gpu": true, "ram": true, "ssd": true,
	"hdd": true, "os": true, "vm": true, "ci": true, "cd": true,
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '/' || r == ' ' || r == '\t' || r == '\n'
}

// ExtractKeywords tokenizes a slug into an ordered, de-duplicated keyword
// list. Pure function: empty input yields an empty list, never an error.
func ExtractKeywords(slug string) []string {
	parts := strings.FieldsFunc(slug, isSeparator)

	keywords := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || stopWords[part] {
			continue
		}
		// Stop words win over the acronym list ("it" is both).
		if len(part) < 3 && !knownAcronyms[part] {
			continue
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		keywords = append(keywords, part)
	}

	return keywords
}
