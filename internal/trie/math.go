package trie

import "math"

// expDecay computes exp(-x), guarding against a negative x (clock skew
// between lastAccessed and now) which would otherwise amplify instead of
// decay.
func expDecay(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return math.Exp(-x)
}
