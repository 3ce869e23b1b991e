package util

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Round3 rounds to 3 decimal places, the precision used for weighted
// counts.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Dedupe removes duplicates preserving first-occurrence order.
func Dedupe[A comparable](items []A) []A {
	seen := make(map[A]bool)
	var res []A
	for _, v := range items {
		if !seen[v] {
			seen[v] = true
			res = append(res, v)
		}
	}
	return res
}

func Min[A constraints.Ordered](items []A) A {
	res := items[0]
	for _, v := range items[1:] {
		if v < res {
			res = v
		}
	}
	return res
}
