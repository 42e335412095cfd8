package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the notes whose content contains query, ignoring case.
//
// An empty query returns notes itself, untouched. Whitespace in a non-empty
// query is significant. Matching is a literal substring test under Unicode
// case folding; order is preserved.
func Filter(notes []Note, query string) []Note {
	if query == "" {
		return notes
	}

	fold := cases.Fold()
	needle := fold.String(query)

	matches := make([]Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(fold.String(n.Content), needle) {
			matches = append(matches, n)
		}
	}
	return matches
}
