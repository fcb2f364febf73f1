package web

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxMessageLength bounds a flash message so it fits in a cookie.
const maxMessageLength = 500

var messageSanitizer = bluemonday.StrictPolicy()

// SanitizeMessage strips markup from a message that arrived through a URL or
// the backend and trims it to a displayable length. html/template escapes
// the result again at render time.
func SanitizeMessage(msg string) string {
	if msg == "" {
		return ""
	}

	clean := strings.TrimSpace(html.UnescapeString(messageSanitizer.Sanitize(msg)))
	if len(clean) > maxMessageLength {
		clean = truncateRunes(clean, maxMessageLength)
	}
	return clean
}

// truncateRunes cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
