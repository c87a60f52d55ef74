// Package present post-processes the analysis team's raw response text.
//
// Coordinated teams occasionally echo the same block twice (member output
// plus synthesis). The cleanup is purely textual, stateless, and idempotent.
package present

import "strings"

// Clean splits the text on blank-line boundaries, removes exact duplicate
// segments preserving first-occurrence order, and rejoins with blank lines.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	parts := strings.Split(text, "\n\n")
	seen := make(map[string]struct{}, len(parts))
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		cleaned = append(cleaned, p)
	}
	return strings.Join(cleaned, "\n\n")
}
