package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourscore/scoresv/model"
)

func chordSlice(measure int, length float64, prime string) model.Slice {
	return model.Slice{
		Measure: measure, Beat: 1.0, BeatStrength: 1.0, Length: length,
		Chord: &model.Chord{PrimeForm: prime},
	}
}

// alternating [0,4,7] and [0,3,7], ten entries, length 1.0 each
func alternatingSequence() []model.Slice {
	var res []model.Slice
	for i := 0; i < 10; i++ {
		prime := model.MajorTriad
		if i%2 == 1 {
			prime = model.MinorTriad
		}
		res = append(res, chordSlice(i+1, 1.0, prime))
	}
	return res
}

func TestSetsOfType(t *testing.T) {
	data := alternatingSequence()

	count, measures := SetsOfType(data, model.MajorTriad, false, true)
	assert.Equal(t, 5.0, count)
	assert.Equal(t, []int{1, 3, 5, 7, 9}, measures)
}

func TestSetsOfTypeWeightedMatchesUnweightedForUnitLengths(t *testing.T) {
	data := alternatingSequence()

	plain, plainMeasures := SetsOfType(data, model.MajorTriad, false, true)
	weighted, weightedMeasures := SetsOfType(data, model.MajorTriad, true, true)
	assert.Equal(t, plain, weighted)
	assert.Equal(t, plainMeasures, weightedMeasures)
}

func TestSetsOfTypeWeightedRounds(t *testing.T) {
	data := []model.Slice{
		chordSlice(1, 1.0/3.0, model.MajorTriad),
		chordSlice(2, 1.0/3.0, model.MajorTriad),
	}
	count, _ := SetsOfType(data, model.MajorTriad, true, true)
	assert.Equal(t, 0.667, count)
}

func TestSetsOfTypeNoMatches(t *testing.T) {
	count, measures := SetsOfType(alternatingSequence(), "[0,1,2]", false, true)
	assert.Equal(t, 0.0, count)
	assert.Empty(t, measures)
}

func TestIntervalsOfType(t *testing.T) {
	data := []model.Slice{
		{Measure: 5, Length: 1.0, Chord: &model.Chord{Intervals: []string{"M3", "A6"}}},
		{Measure: 5, Length: 1.0, Chord: &model.Chord{Intervals: []string{"A6", "P5"}}},
		{Measure: 8, Length: 0.5, Chord: &model.Chord{Intervals: []string{"m3"}}},
		{Measure: 9, Length: 1.0},
		{Measure: 12, Length: 1.0, Chord: &model.Chord{Intervals: []string{"d3"}}},
	}

	count, measures := IntervalsOfType(data, []string{"A6", "d3", "A13", "d10"}, false, true)
	assert.Equal(t, 3.0, count)
	// measure 5 matched twice but is listed once
	assert.Equal(t, []int{5, 12}, measures)

	weighted, _ := IntervalsOfType(data, []string{"A6", "d3"}, true, true)
	assert.Equal(t, 3.0, weighted)
}

func TestPrimesIncludesRests(t *testing.T) {
	data := []model.Slice{
		chordSlice(1, 1.0, model.MajorTriad),
		{Measure: 1, Length: 1.0},
	}
	assert.Equal(t, []string{model.MajorTriad, ""}, Primes(data))
}

func TestCompareAllPrimes(t *testing.T) {
	// 80 entries, 4 diminished
	var primes []string
	for i := 0; i < 76; i++ {
		primes = append(primes, model.MajorTriad)
	}
	for i := 0; i < 4; i++ {
		primes = append(primes, model.DiminishedTriad)
	}

	stats, err := CompareAllPrimes(primes, []string{"diminished"}, true, true)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, model.StatEntry{Name: "Overall", Value: 80}, stats[0])
	assert.Equal(t, model.StatEntry{Name: "[0,3,6] Count", Value: 4}, stats[1])
	assert.Equal(t, model.StatEntry{Name: "[0,3,6] Proportion", Value: 0.05}, stats[2])
}

func TestCompareAllPrimesTriadsSelectsAllFour(t *testing.T) {
	stats, err := CompareAllPrimes([]string{model.MajorTriad}, []string{"triads"}, true, false)
	require.NoError(t, err)
	// Overall plus one count per quality
	assert.Len(t, stats, 5)
}

func TestCompareAllPrimesRejectsUnknownQuality(t *testing.T) {
	_, err := CompareAllPrimes([]string{model.MajorTriad}, []string{"sus4"}, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sus4")
}

func TestCompareAllPrimesEmptyDenominator(t *testing.T) {
	_, err := CompareAllPrimes(nil, []string{"major"}, false, true)
	assert.Error(t, err)
}

func TestFollowChord(t *testing.T) {
	primes := []string{
		model.DiminishedTriad, model.MinorTriad,
		model.MajorTriad,
		model.DiminishedTriad, model.MinorTriad,
		model.DiminishedTriad, model.MinorTriad,
	}

	followed := FollowChord(primes, model.DiminishedTriad, 15, false)
	assert.Equal(t, []Succession{{Label: model.MinorTriad, Count: 3}}, followed)
}

func TestFollowChordSkipsFinalOccurrence(t *testing.T) {
	primes := []string{model.DiminishedTriad, model.MinorTriad, model.DiminishedTriad}

	followed := FollowChord(primes, model.DiminishedTriad, 15, false)
	assert.Equal(t, []Succession{{Label: model.MinorTriad, Count: 1}}, followed)
}

func TestFollowChordOrderAndLimit(t *testing.T) {
	primes := []string{
		"X", "a",
		"X", "b",
		"X", "b",
		"X", "c",
		"X", "c",
		"X", "a",
		"X", "d",
	}

	followed := FollowChord(primes, "X", 2, false)
	// a, b and c tie at 2; ties keep first-encounter order
	require.Len(t, followed, 2)
	assert.Equal(t, Succession{Label: "a", Count: 2}, followed[0])
	assert.Equal(t, Succession{Label: "b", Count: 2}, followed[1])
}

func TestFollowChordIgnoreFirst(t *testing.T) {
	primes := []string{
		"X", "X",
		"X", "X",
		"X", "a",
	}

	all := FollowChord(primes, "X", 15, false)
	require.Len(t, all, 2)
	assert.Equal(t, "X", all[0].Label)

	trimmed := FollowChord(primes, "X", 15, true)
	assert.Equal(t, []Succession{{Label: "a", Count: 1}}, trimmed)
}
