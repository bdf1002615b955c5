package movies

import "sort"

// TopN returns the n highest-rated entries.
// Rating descending, ties broken by title then release date, so the result
// is deterministic for any input order. The input slice is not modified.
func TopN(entries []Movie, n int) []Movie {
	if n <= 0 || len(entries) == 0 {
		return nil
	}

	ranked := make([]Movie, len(entries))
	copy(ranked, entries)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		if ranked[i].Title != ranked[j].Title {
			return ranked[i].Title < ranked[j].Title
		}
		return ranked[i].Released.Before(ranked[j].Released)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
