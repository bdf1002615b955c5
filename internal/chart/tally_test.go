package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortTallies(t *testing.T) {
	got := SortTallies(map[string]int{
		"Charlie": 1,
		"Alpha":   3,
		"Delta":   0,
		"Bravo":   3,
	})

	want := []Tally{
		{Label: "Alpha", Votes: 3},
		{Label: "Bravo", Votes: 3},
		{Label: "Charlie", Votes: 1},
		{Label: "Delta", Votes: 0},
	}
	assert.Equal(t, want, got)
}

func TestSortTallies_Empty(t *testing.T) {
	assert.Empty(t, SortTallies(nil))
	assert.Empty(t, SortTallies(map[string]int{}))
}

func TestSortTallies_Deterministic(t *testing.T) {
	votes := map[string]int{"A": 2, "B": 2, "C": 2, "D": 2}

	first := SortTallies(votes)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, SortTallies(votes), "map iteration order must not leak through")
	}
}
