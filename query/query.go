// Package query runs statistical searches over a deserialized slice
// sequence: chord-type counts, interval searches, triad-proportion
// comparison and chord-succession statistics.
package query

import (
	"fmt"
	"sort"

	"github.com/fourscore/scoresv/model"
	"github.com/fourscore/scoresv/util"
)

// SetsOfType counts the entries whose prime form equals chordType. In
// weighted mode the count is the sum of entry lengths, rounded to 3
// decimal places. With withMeasures, the (possibly repeated) measure
// numbers of the matches are returned in encounter order.
func SetsOfType(data []model.Slice, chordType string, weighted, withMeasures bool) (float64, []int) {
	var count float64
	var measures []int

	for _, entry := range data {
		if entry.PrimeForm() != chordType {
			continue
		}
		if withMeasures {
			measures = append(measures, entry.Measure)
		}
		if weighted {
			count += entry.Length
		} else {
			count++
		}
	}
	return util.Round3(count), measures
}

// IntervalsOfType counts the entries whose interval set shares at least
// one name with the query set. The measure list is deduplicated in
// first-occurrence order; it is used as a heuristic filter for
// enharmonically ambiguous chord types (augmented sixths and friends)
// that prime-form search cannot tell apart.
func IntervalsOfType(data []model.Slice, intervals []string, weighted, withMeasures bool) (float64, []int) {
	query := make(map[string]bool, len(intervals))
	for _, name := range intervals {
		query[name] = true
	}

	var count float64
	var measures []int
	for _, entry := range data {
		if entry.Chord == nil || !intersects(query, entry.Chord.Intervals) {
			continue
		}
		if withMeasures {
			measures = append(measures, entry.Measure)
		}
		if weighted {
			count += entry.Length
		} else {
			count++
		}
	}
	return util.Round3(count), util.Dedupe(measures)
}

func intersects(query map[string]bool, names []string) bool {
	for _, name := range names {
		if query[name] {
			return true
		}
	}
	return false
}

// Primes returns every entry's prime-form label in sequence order;
// rests contribute the empty string.
func Primes(data []model.Slice) []string {
	res := make([]string, len(data))
	for i, entry := range data {
		res[i] = entry.PrimeForm()
	}
	return res
}

// Normals returns every entry's normal-order label in sequence order.
func Normals(data []model.Slice) []string {
	res := make([]string, len(data))
	for i, entry := range data {
		if entry.Chord != nil {
			res[i] = entry.Chord.NormalOrder
		}
	}
	return res
}

var triadLabels = []struct {
	quality string
	label   string
}{
	{"major", model.MajorTriad},
	{"minor", model.MinorTriad},
	{"diminished", model.DiminishedTriad},
	{"augmented", model.AugmentedTriad},
}

// Qualities lists the recognized triad quality names.
func Qualities() []string {
	res := []string{"triads"}
	for _, t := range triadLabels {
		res = append(res, t.quality)
	}
	sort.Strings(res)
	return res
}

// CompareAllPrimes reports the usage of the requested triad qualities
// over the prime-form sequence as counts, proportions of all entries,
// or both, plus the total entry count under "Overall". The quality
// "triads" selects all four.
func CompareAllPrimes(primes []string, qualities []string, counts, proportions bool) ([]model.StatEntry, error) {
	var hitList []string
	for _, t := range triadLabels {
		for _, q := range qualities {
			if q == t.quality || q == "triads" {
				hitList = append(hitList, t.label)
				break
			}
		}
	}
	if len(hitList) == 0 {
		return nil, fmt.Errorf("no recognized triad type in %v: choose one or more of %v", qualities, Qualities())
	}

	total := len(primes)
	if proportions && total == 0 {
		return nil, fmt.Errorf("cannot compute proportions over an empty sequence")
	}

	var res []model.StatEntry
	if counts {
		res = append(res, model.StatEntry{Name: "Overall", Value: float64(total)})
	}
	for _, label := range hitList {
		var n int
		for _, prime := range primes {
			if prime == label {
				n++
			}
		}
		if counts {
			res = append(res, model.StatEntry{Name: label + " Count", Value: float64(n)})
		}
		if proportions {
			res = append(res, model.StatEntry{Name: label + " Proportion", Value: float64(n) / float64(total)})
		}
	}
	return res, nil
}

// Succession is one successor chord and its frequency.
type Succession struct {
	Label string
	Count int
}

// FollowChord aggregates the chords immediately following every
// occurrence of targetChord, most frequent first, ties in
// first-encountered order. A target occurrence that ends the sequence
// contributes no successor. The top howMany entries are returned;
// ignoreFirst drops the single most frequent one (typically
// self-repetition of the target).
func FollowChord(primes []string, targetChord string, howMany int, ignoreFirst bool) []Succession {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i, prime := range primes {
		if prime != targetChord || i+1 >= len(primes) {
			continue
		}
		next := primes[i+1]
		if _, ok := firstSeen[next]; !ok {
			firstSeen[next] = len(order)
			order = append(order, next)
		}
		counts[next]++
	}

	res := make([]Succession, 0, len(order))
	for _, label := range order {
		res = append(res, Succession{Label: label, Count: counts[label]})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Count > res[j].Count
	})

	start := 0
	if ignoreFirst {
		start = 1
	}
	end := len(res)
	if howMany > 0 && end > howMany {
		end = howMany
	}
	if start > end {
		start = end
	}
	return res[start:end]
}
