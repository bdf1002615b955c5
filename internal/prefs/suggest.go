package prefs

import (
	"github.com/hbollon/go-edlib"
)

// matchConfidence represents the confidence level of a fuzzy name match.
type matchConfidence int

const (
	confidenceNone   matchConfidence = iota // Score < 0.70
	confidenceLow                           // Score >= 0.70
	confidenceMedium                        // Score >= 0.85
	confidenceHigh                          // Score >= 0.95
)

// bestMatch finds the candidate name closest to the normalized input.
// Uses Jaro-Winkler similarity, which favors prefix matches (good for
// misspelled names like "englsh" or "framce").
func bestMatch(input string, candidates []string) (string, matchConfidence) {
	best := ""
	bestScore := 0.0

	for _, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(input, candidate))
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	switch {
	case bestScore >= 0.95:
		return best, confidenceHigh
	case bestScore >= 0.85:
		return best, confidenceMedium
	case bestScore >= 0.70:
		return best, confidenceLow
	default:
		return "", confidenceNone
	}
}
