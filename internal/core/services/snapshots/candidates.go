package snapshots

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Candidates returns the lookup keys tried for a raw player name, in order:
// the whitespace-collapsed name, with spaces as '_', with spaces as '+', then
// the lowercase form of each. Duplicates are dropped.
func Candidates(name string) []string {
	base := strings.Join(strings.Fields(name), " ")
	if base == "" {
		return nil
	}

	variants := []string{
		base,
		strings.ReplaceAll(base, " ", "_"),
		strings.ReplaceAll(base, " ", "+"),
	}

	// Casers are stateful; one per call.
	lower := cases.Lower(language.Und)

	out := make([]string, 0, 2*len(variants))
	seen := make(map[string]struct{}, 2*len(variants))
	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}

	for _, v := range variants {
		add(v)
	}
	for _, v := range variants {
		add(lower.String(v))
	}
	return out
}

// SessionKey folds the spellings of one player name to a single cache key:
// whitespace collapsed, lowercase.
func SessionKey(name string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(name), " "))
}
