package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/nhl-scores/internal/stats"
)

// SortOrder represents the available orderings of the score table
type SortOrder string

const (
	SortByCount  SortOrder = "count"
	SortByScore  SortOrder = "score"
	SortByRecent SortOrder = "recent"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case "":
		return SortByCount, nil
	case SortByCount, SortByScore, SortByRecent:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'count', 'score' or 'recent')", s)
	}
}

// sortScores returns a copy of scores in the requested order.
// The input is expected in count order, which is kept as the tie-breaker.
func sortScores(scores []stats.ScoreCount, order SortOrder) []stats.ScoreCount {
	sorted := make([]stats.ScoreCount, len(scores))
	copy(sorted, scores)

	switch order {
	case SortByScore:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Winning != sorted[j].Winning {
				return sorted[i].Winning < sorted[j].Winning
			}
			return sorted[i].Losing < sorted[j].Losing
		})
	case SortByRecent:
		sort.SliceStable(sorted, func(i, j int) bool {
			return compareByLast(sorted[i], sorted[j])
		})
	}
	return sorted
}

// compareByLast compares two scores by their most recent occurrence.
// Returns true if i happened more recently than j.
func compareByLast(i, j stats.ScoreCount) bool {
	dateI, okI := i.LastDate()
	dateJ, okJ := j.LastDate()

	// If both dates are valid, compare them
	if okI && okJ {
		return dateI.After(dateJ)
	}

	// If only one date is valid, put the valid one first
	return okI && !okJ
}
