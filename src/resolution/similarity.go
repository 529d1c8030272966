// Package resolution binds raw entity spans to contacts, bank accounts, currencies and amounts.
package resolution

import "strings"

// DefaultThreshold is the similarity a span needs to match a domain object.
const DefaultThreshold = 0.75

// Similarity is the case-insensitive multiset character overlap of literal in candidate:
// every rune of literal found (without replacement) in candidate counts once, and the
// count is divided by the length of the longer string. The metric ignores rune order.
func Similarity(candidate, literal string) float64 {
	c := []rune(strings.ToLower(candidate))
	l := []rune(strings.ToLower(literal))

	longest := max(len(c), len(l))
	if longest == 0 {
		return 0
	}

	available := make(map[rune]int, len(c))
	for _, r := range c {
		available[r]++
	}

	matched := 0
	for _, r := range l {
		if available[r] > 0 {
			available[r]--
			matched++
		}
	}
	return float64(matched) / float64(longest)
}
