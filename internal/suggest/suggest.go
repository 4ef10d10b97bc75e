// Package suggest finds the closest known name for a mistyped one.
package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxDistance is the largest edit distance still worth suggesting
const maxDistance = 3

// Closest returns the candidate nearest to name. It reports false when no
// candidate is within a few edits.
func Closest(name string, candidates []string) (string, bool) {
	name = strings.ToLower(name)
	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist <= maxDistance
}

// Hint renders a " (did you mean X?)" suffix, or "" without a close match
func Hint(name string, candidates []string) string {
	if c, ok := Closest(name, candidates); ok {
		return " (did you mean " + c + "?)"
	}
	return ""
}
