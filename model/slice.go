package model

// Slice is one harmonic slice: a maximal time span during which the
// sounding pitch set (or rest) does not change.
//
// Measure is 0 for a partial leading measure, otherwise the 1-based
// measure number. Beat is the 1-based metrical position within the
// measure. BeatStrength is in (0, 1]. Length is the duration in
// quarter-note units.
type Slice struct {
	Measure      int
	Beat         float64
	BeatStrength float64
	Length       float64

	// Chord is nil for a rest slice. The pointer is the tag: a rest
	// carries temporal fields only, a chord always carries pitches.
	Chord *Chord
}

// Chord holds the pitch content of a non-rest slice.
type Chord struct {
	// Pitches are spelled names with octave ("C4", "F#3", "B-2"),
	// duplicates removed, ascending by pitch height.
	Pitches []string
	// Intervals are the unique interval names over every unordered
	// pitch pair, in first-seen order.
	Intervals []string
	// PrimeForm and NormalOrder are canonical pitch-class-set labels,
	// e.g. "[0,3,7]" and "[7,11,2]". Prime forms are normalized under
	// inversion, so major and minor triads share "[0,3,7]".
	PrimeForm   string
	NormalOrder string
}

func (s Slice) IsRest() bool {
	return s.Chord == nil
}

// PrimeForm returns the slice's prime-form label, or "" for a rest.
func (s Slice) PrimeForm() string {
	if s.Chord == nil {
		return ""
	}
	return s.Chord.PrimeForm
}

// Triad labels for quality lookups. MajorTriad and AugmentedTriad are
// the upright spellings; extracted major triads carry MinorTriad's
// inversion-normalized prime form, so searches for them should go
// through the normal order instead.
const (
	MajorTriad      = "[0,4,7]"
	MinorTriad      = "[0,3,7]"
	DiminishedTriad = "[0,3,6]"
	AugmentedTriad  = "[0,4,8]"
)

// MetadataField is one descriptive key/value pair from a score, used
// for naming output files.
type MetadataField struct {
	Key   string
	Value string
}
