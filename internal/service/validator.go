package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OptionValidator rejects answer options that read the same.
type OptionValidator struct {
	threshold float64 // similarity at or above which two options count as duplicates
}

// NewOptionValidator creates a new OptionValidator.
func NewOptionValidator() *OptionValidator {
	return &OptionValidator{
		threshold: 0.9,
	}
}

// Distinct returns the candidates that differ from correct and from each
// other, keeping their order.
func (v *OptionValidator) Distinct(correct string, candidates []string) []string {
	seen := []string{v.normalize(correct)}
	out := make([]string, 0, len(candidates))

	for _, c := range candidates {
		n := v.normalize(c)
		if n == "" {
			continue
		}

		duplicate := false
		for _, s := range seen {
			if v.similar(n, s) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen = append(seen, n)
		out = append(out, c)
	}

	return out
}

func (v *OptionValidator) similar(a, b string) bool {
	if a == b {
		return true
	}
	return v.similarity(a, b) >= v.threshold
}

// normalize lower-cases, strips accents and collapses whitespace.
func (v *OptionValidator) normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = strings.TrimRight(s, ".!?;")

	return strings.Join(strings.Fields(s), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (v *OptionValidator) similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	cols := len(r2) + 1

	// two rows instead of the full matrix
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,
				prev[j]+1,
				prev[j-1]+cost,
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
