package distance

import "slices"

// CommonRunes returns the characters that occur at least once in both s and
// t, in ascending order so that sums over them are deterministic.
func CommonRunes(s, t []rune) []rune {
	inS := make(map[rune]bool, len(s))
	for _, r := range s {
		inS[r] = true
	}

	seen := make(map[rune]bool)
	var common []rune
	for _, r := range t {
		if inS[r] && !seen[r] {
			seen[r] = true
			common = append(common, r)
		}
	}
	slices.Sort(common)
	return common
}

// Counts tallies how often each of chars occurs in s. Characters not in
// chars are ignored; every character in chars has an entry.
func Counts(s []rune, chars []rune) map[rune]int {
	counts := make(map[rune]int, len(chars))
	for _, r := range chars {
		counts[r] = 0
	}
	for _, r := range s {
		if _, ok := counts[r]; ok {
			counts[r]++
		}
	}
	return counts
}

// LeftCounts returns, for every position 0..len(s), how many characters
// matching class lie left of it. The last entry is the class total.
func LeftCounts(s []rune, class func(rune) bool) []int {
	counts := make([]int, len(s)+1)
	for i, r := range s {
		counts[i+1] = counts[i]
		if class(r) {
			counts[i+1]++
		}
	}
	return counts
}
