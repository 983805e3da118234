package textutil

import "github.com/pmezard/go-difflib/difflib"

// Ratio returns the sequence similarity of a and b in [0, 1]. Two empty
// strings are identical.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	return difflib.NewMatcher(runeSlice(a), runeSlice(b)).Ratio()
}

// BestMatch returns the candidate most similar to word whose ratio is at
// least cutoff. Ties go to the earliest candidate, so pool order rather than
// string order decides between equally similar names. ok is false when
// nothing reaches the cutoff.
func BestMatch(word string, candidates []string, cutoff float64) (best string, score float64, ok bool) {
	if word == "" {
		return "", 0, false
	}
	target := runeSlice(word)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		var r float64
		if candidate == word {
			r = 1
		} else {
			r = difflib.NewMatcher(runeSlice(candidate), target).Ratio()
		}
		if r < cutoff {
			continue
		}
		if !ok || r > score {
			best, score, ok = candidate, r, true
		}
	}
	return best, score, ok
}

func runeSlice(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
