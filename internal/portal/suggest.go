package portal

import (
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

type Suggestion struct {
	CaseType string
	Score    float64
}

// SuggestCaseTypes ranks the known case types by how closely they match input and returns
// the best n, most similar first.
func SuggestCaseTypes(known []string, input string, n int) []Suggestion {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" || n <= 0 {
		return nil
	}

	suggestions := make([]Suggestion, 0, len(known))
	for _, caseType := range known {
		candidate := strings.ToUpper(caseType)
		score := matchr.JaroWinkler(input, candidate, false)
		if strings.HasPrefix(candidate, input) {
			// typing the start of a case type is the common case, keep those on top
			score = max(score, 0.99)
		}
		if candidate == input {
			score = 1
		}
		suggestions = append(suggestions, Suggestion{CaseType: caseType, Score: score})
	}

	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(suggestions) > n {
		suggestions = suggestions[:n]
	}
	return suggestions
}
