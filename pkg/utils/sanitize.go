package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	htmlPolicy   = bluemonday.UGCPolicy()
)

// PlainText strips all markup and returns trimmed text
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SafeHTML removes scripts, event handlers and other executable markup
func SafeHTML(s string) string {
	return strings.TrimSpace(htmlPolicy.Sanitize(s))
}
