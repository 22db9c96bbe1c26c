package render

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var policy = bluemonday.UGCPolicy()

// Markdown converts chat text to sanitized HTML for the transcript.
func Markdown(text string) string {
	if text == "" {
		return ""
	}
	unsafe := blackfriday.Run([]byte(text))
	return string(policy.SanitizeBytes(unsafe))
}
