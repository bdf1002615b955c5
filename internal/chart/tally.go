// Package chart renders poll tallies as bar chart images.
package chart

import "sort"

// Tally is one poll option with its vote count.
type Tally struct {
	Label string
	Votes int
}

// SortTallies turns a label to votes map into a deterministic slice:
// votes descending, label ascending on ties.
func SortTallies(votes map[string]int) []Tally {
	tallies := make([]Tally, 0, len(votes))
	for label, n := range votes {
		tallies = append(tallies, Tally{Label: label, Votes: n})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].Label < tallies[j].Label
	})
	return tallies
}
