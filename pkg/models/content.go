package models

// GeneratedContent is the parsed output of a provider call.
type GeneratedContent struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Excerpt      string   `json:"excerpt"`
	Tags         []string `json:"tags"`
	FocusKeyword string   `json:"focus_keyword"`
}
