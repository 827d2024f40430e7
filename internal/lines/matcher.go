// Package lines matches player display names against posted market lines.
package lines

import (
	"sort"
	"strings"

	"github.com/yourusername/sharp-props/internal/models"
)

// Match resolves the line set for a player by exact normalized lookup,
// falling back to surname matching. An ambiguous surname collision that the
// first-initial check cannot break returns no match rather than a guess.
func Match(displayName string, table models.LineTable) (models.StatLines, bool) {
	key := Normalize(displayName)
	if found, ok := table[key]; ok {
		return found, true
	}

	tokens := strings.Fields(key)
	if len(tokens) < 2 {
		return nil, false
	}
	surname := tokens[len(tokens)-1]
	initial := tokens[0][:1]

	candidates := surnameCandidates(table, surname)
	if len(candidates) == 1 {
		return table[candidates[0]], true
	}
	for _, candidate := range candidates {
		parts := strings.Fields(candidate)
		if len(parts) > 0 && strings.HasPrefix(parts[0], initial) {
			return table[candidate], true
		}
	}

	return nil, false
}

// surnameCandidates returns table keys containing the surname as a whole
// token, sorted for deterministic tie-breaking.
func surnameCandidates(table models.LineTable, surname string) []string {
	var candidates []string
	for key := range table {
		for _, token := range strings.Fields(key) {
			if token == surname {
				candidates = append(candidates, key)
				break
			}
		}
	}
	sort.Strings(candidates)
	return candidates
}
