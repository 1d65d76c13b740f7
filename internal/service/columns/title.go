package columns

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var domainPrefixes = []string{"inventory_request_", "inventory_"}

// DeriveTitle turns a snake_case accessor into a column title.
// The longest matching prefix among the domain prefixes and extraPrefixes is
// stripped, repeated words are dropped and every word is title-cased.
func DeriveTitle(accessor string, extraPrefixes ...string) string {
	key := strings.ToLower(strings.TrimSpace(accessor))
	key = stripPrefix(key, append(append([]string{}, extraPrefixes...), domainPrefixes...))

	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})

	seen := make(map[string]bool, len(words))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		kept = append(kept, w)
	}

	// Caser is stateful, one per call.
	return cases.Title(language.English).String(strings.Join(kept, " "))
}

func stripPrefix(key string, prefixes []string) string {
	sort.SliceStable(prefixes, func(i, j int) bool {
		return len(prefixes[i]) > len(prefixes[j])
	})
	for _, p := range prefixes {
		if p == "" || !strings.HasPrefix(key, p) {
			continue
		}
		if rest := strings.TrimPrefix(key, p); strings.Trim(rest, "_ ") != "" {
			return rest
		}
	}
	return key
}
