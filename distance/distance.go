// Package distance measures how far apart two strings are, optionally taking
// a cursor position in each string into account. The cursor-aware metrics
// score candidate cursor positions in formatted text.
package distance

import (
	"errors"
	"strings"
)

// Metric scores the distance from s with a cursor at sCursor to t with a
// cursor at tCursor. Lower is closer. Scores are only comparable within a
// single metric.
type Metric func(s string, sCursor int, t string, tCursor int) float64

// Metric names used in configuration.
const (
	NameSplitLevenshtein   = "split_levenshtein"
	NameBalanceFrequencies = "balance_frequencies"
)

// ErrUnknownMetric is returned by MetricByName for unrecognised names.
var ErrUnknownMetric = errors.New("unknown distance metric")

// MetricByName resolves a configuration name into a Metric. An empty name
// selects BalanceFrequencies.
func MetricByName(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameSplitLevenshtein:
		return SplitLevenshtein, nil
	case NameBalanceFrequencies, "":
		return BalanceFrequencies, nil
	default:
		return nil, ErrUnknownMetric
	}
}

// Levenshtein returns the edit distance between s and t with unit-cost
// insertions, deletions and substitutions.
func Levenshtein(s, t string) int {
	return levenshteinRunes([]rune(s), []rune(t))
}

func levenshteinRunes(s, t []rune) int {
	// Keep the rolling rows as short as possible
	if len(t) > len(s) {
		s, t = t, s
	}
	n, m := len(s), len(t)
	if m == 0 {
		return n
	}

	current := make([]int, m+1)
	previous := make([]int, m+1)
	for j := range current {
		current[j] = j
	}

	for i := 1; i <= n; i++ {
		current, previous = previous, current
		current[0] = previous[0] + 1
		for j := 1; j <= m; j++ {
			if s[i-1] == t[j-1] {
				current[j] = previous[j-1]
				continue
			}
			current[j] = 1 + min(previous[j-1], previous[j], current[j-1])
		}
	}
	return current[m]
}

// SplitLevenshtein splits both strings at their cursors and adds the
// distance between the left parts to the distance between the right parts.
func SplitLevenshtein(s string, sCursor int, t string, tCursor int) float64 {
	sr, tr := []rune(s), []rune(t)
	left := levenshteinRunes(sr[:sCursor], tr[:tCursor])
	right := levenshteinRunes(sr[sCursor:], tr[tCursor:])
	return float64(left + right)
}

// BalanceFrequencies compares, for every character occurring in both
// strings, the share of its occurrences that lie left of each cursor. The
// cost is the sum of squared differences of those shares. Strings with no
// character in common cost 0.
func BalanceFrequencies(s string, sCursor int, t string, tCursor int) float64 {
	sr, tr := []rune(s), []rune(t)
	common := CommonRunes(sr, tr)

	sLeft, sTotal := Counts(sr[:sCursor], common), Counts(sr, common)
	tLeft, tTotal := Counts(tr[:tCursor], common), Counts(tr, common)

	cost := 0.0
	for _, r := range common {
		// Totals are positive because r occurs in both strings
		a := float64(sLeft[r]) / float64(sTotal[r])
		b := float64(tLeft[r]) / float64(tTotal[r])
		cost += (a - b) * (a - b)
	}
	return cost
}
