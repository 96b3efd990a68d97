package detector

import (
	"net/url"
	"strings"
)

var strippedExtensions = []string{".html", ".htm", ".php", ".asp", ".aspx", ".jsp"}

// ExtractSlug derives the normalized slug from a requested URL or path:
// query string and fragment dropped, slashes trimmed at both ends, a known
// file extension stripped, and the result lowercased. Interior slashes are
// kept so hierarchical paths stay distinguishable. Returns "" when nothing
// usable remains.
func ExtractSlug(requested string) string {
	path := requested
	if u, err := url.Parse(requested); err == nil {
		path = u.Path
	}

	slug := strings.Trim(path, "/")
	for _, ext := range strippedExtensions {
		if strings.HasSuffix(strings.ToLower(slug), ext) {
			slug = slug[:len(slug)-len(ext)]
			break
		}
	}
	return strings.ToLower(strings.TrimSpace(slug))
}
