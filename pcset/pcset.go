// Package pcset canonicalizes pitch-class sets: normal order (the most
// compact rotation) and prime form (normal order additionally
// normalized under transposition and inversion).
package pcset

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fourscore/scoresv/pitch"
)

// classes reduces spelled or numeric input to sorted unique pitch
// classes 0..11.
func classes(pcs []int) []int {
	seen := make(map[int]bool)
	var res []int
	for _, pc := range pcs {
		pc %= 12
		if pc < 0 {
			pc += 12
		}
		if !seen[pc] {
			seen[pc] = true
			res = append(res, pc)
		}
	}
	sort.Ints(res)
	return res
}

// NormalOrder returns the Rahn normal order of the given pitch classes:
// the rotation with the smallest outer interval, ties broken by packing
// the remaining intervals as tightly as possible from the right.
func NormalOrder(pcs []int) []int {
	set := classes(pcs)
	n := len(set)
	if n < 2 {
		return set
	}

	best := -1
	for rot := 0; rot < n; rot++ {
		if best < 0 {
			best = rot
			continue
		}
		if compareRotations(set, rot, best) < 0 {
			best = rot
		}
	}

	res := make([]int, n)
	for i := range res {
		res[i] = set[(best+i)%n]
	}
	return res
}

// compareRotations orders rotations a and b of set by their interval
// spans from the first element, widest position first.
func compareRotations(set []int, a, b int) int {
	n := len(set)
	span := func(rot, i int) int {
		d := set[(rot+i)%n] - set[rot]
		if d < 0 {
			d += 12
		}
		return d
	}
	for i := n - 1; i >= 1; i-- {
		if sa, sb := span(a, i), span(b, i); sa != sb {
			return sa - sb
		}
	}
	// identical interval content; prefer the lower starting class
	return set[a] - set[b]
}

// PrimeForm returns the prime form: the normal order transposed to
// start on 0, compared against the inversion's, keeping whichever is
// packed more tightly to the left. Inversionally related sets share a
// prime form, so a major triad yields [0,3,7].
func PrimeForm(pcs []int) []int {
	set := classes(pcs)
	if len(set) == 0 {
		return nil
	}

	upright := zeroTransposed(NormalOrder(set))

	inverted := make([]int, len(set))
	for i, pc := range set {
		inverted[i] = (12 - pc) % 12
	}
	mirrored := zeroTransposed(NormalOrder(inverted))

	for i := range upright {
		if upright[i] != mirrored[i] {
			if upright[i] < mirrored[i] {
				return upright
			}
			return mirrored
		}
	}
	return upright
}

func zeroTransposed(ordered []int) []int {
	res := make([]int, len(ordered))
	for i, pc := range ordered {
		res[i] = (pc - ordered[0] + 12) % 12
	}
	return res
}

// Label renders pitch classes in the canonical bracketed form used
// throughout serialized slice files, e.g. "[0,4,7]".
func Label(pcs []int) string {
	parts := make([]string, len(pcs))
	for i, pc := range pcs {
		parts[i] = strconv.Itoa(pc)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// FromPitches extracts the pitch classes of spelled pitch names.
func FromPitches(names []string) ([]int, error) {
	res := make([]int, 0, len(names))
	for _, name := range names {
		p, err := pitch.Parse(name)
		if err != nil {
			return nil, err
		}
		pc := p.MIDI() % 12
		if pc < 0 {
			pc += 12
		}
		res = append(res, pc)
	}
	return res, nil
}
