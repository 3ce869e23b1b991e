// Package slicer reduces a score to its ordered sequence of harmonic
// slices.
package slicer

import (
	"fmt"
	"math"

	"github.com/fourscore/scoresv/model"
	"github.com/fourscore/scoresv/pcset"
	"github.com/fourscore/scoresv/pitch"
)

// Span is one chordified segment of a score: a maximal time span with a
// constant sounding pitch set. Pitches are spelled names in ascending
// order; an empty set marks a rest.
type Span struct {
	Measure      int
	Beat         float64
	BeatStrength float64
	Length       float64
	Pitches      []string
}

// Score is the input collaborator: anything that can reduce itself to
// chordified spans and describe itself for output naming.
type Score interface {
	// Chordify returns the score's spans in chronological order,
	// contiguous over the whole timeline.
	Chordify() ([]Span, error)
	// Metadata returns descriptive key/value pairs, possibly empty.
	Metadata() []model.MetadataField
}

// Extract walks the chordified score and produces one Slice per span,
// computing pairwise interval names and the canonical prime-form and
// normal-order labels for every span with pitch content. The input
// score is never mutated.
func Extract(score Score) ([]model.Slice, error) {
	spans, err := score.Chordify()
	if err != nil {
		return nil, fmt.Errorf("chordify: %w", err)
	}

	res := make([]model.Slice, 0, len(spans))
	for i, span := range spans {
		entry := model.Slice{
			Measure:      span.Measure,
			Beat:         round2(span.Beat),
			BeatStrength: span.BeatStrength,
			Length:       span.Length,
		}
		if len(span.Pitches) > 0 {
			chord, err := buildChord(span.Pitches)
			if err != nil {
				return nil, fmt.Errorf("span %d: %w", i, err)
			}
			entry.Chord = chord
		}
		res = append(res, entry)
	}
	return res, nil
}

func buildChord(pitches []string) (*model.Chord, error) {
	unique := dedupe(pitches)

	intervals, err := pitch.PairIntervals(unique)
	if err != nil {
		return nil, err
	}
	pcs, err := pcset.FromPitches(unique)
	if err != nil {
		return nil, err
	}

	return &model.Chord{
		Pitches:     unique,
		Intervals:   intervals,
		PrimeForm:   pcset.Label(pcset.PrimeForm(pcs)),
		NormalOrder: pcset.Label(pcset.NormalOrder(pcs)),
	}, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool)
	var res []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			res = append(res, name)
		}
	}
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
