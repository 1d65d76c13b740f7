package views

import (
	"strings"
	"unicode"
)

// TeamURLKey turns a team name into its URL path segment.
func TeamURLKey(teamName string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(teamName)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// DetailLink is the detail page path of one record.
func DetailLink(teamName, kind, id string) string {
	return "/" + TeamURLKey(teamName) + "/inventory/" + kind + "/" + id
}
