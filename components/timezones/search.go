package timezones

import (
	"slices"
	"strings"
)

// EmptyQuery selects what Search returns for a blank query.
type EmptyQuery string

const (
	EmptyQueryNone EmptyQuery = "none"
	EmptyQueryTop  EmptyQuery = "top"
)

// Search matches zones containing query, case-insensitively. Prefix matches
// sort ahead of inner matches, then alphabetically. Spaces in the query match
// underscores in zone names.
func Search(names []string, query string, limit int, empty EmptyQuery) []string {
	if limit <= 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if empty != EmptyQueryTop {
			return nil
		}
		return slices.Clone(names[:min(limit, len(names))])
	}

	q := strings.ToLower(strings.ReplaceAll(query, " ", "_"))
	type match struct {
		name   string
		prefix bool
	}
	var matches []match
	for _, name := range names {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, q) {
			continue
		}
		// the city part counts as a prefix too, so "par" ranks Europe/Paris first
		city := lower[strings.LastIndex(lower, "/")+1:]
		matches = append(matches, match{name: name, prefix: strings.HasPrefix(lower, q) || strings.HasPrefix(city, q)})
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		if a.prefix != b.prefix {
			if a.prefix {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches[:min(limit, len(matches))] {
		out = append(out, m.name)
	}
	return out
}
