package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

// Pitch is a spelled pitch: a diatonic step (0=C .. 6=B), a chromatic
// alteration in semitones (sharps positive, flats negative) and an
// octave in scientific pitch notation (C4 = middle C = MIDI 60).
type Pitch struct {
	Step   int
	Alter  int
	Octave int
}

var stepSemis = [7]int{0, 2, 4, 5, 7, 9, 11}

const stepNames = "CDEFGAB"

// Parse reads a spelled pitch name such as "C4", "F#3", "B-2" or "Eb5".
// Flats may be written as "-" or "b"; accidentals stack ("F##3").
func Parse(name string) (Pitch, error) {
	var p Pitch
	if name == "" {
		return p, fmt.Errorf("empty pitch name")
	}
	step := strings.IndexByte(stepNames, name[0])
	if step < 0 {
		return p, fmt.Errorf("bad pitch name %q: unknown step %q", name, name[0])
	}
	p.Step = step

	i := 1
	for i < len(name) {
		switch name[i] {
		case '#':
			p.Alter++
		case '-', 'b':
			p.Alter--
		default:
			goto octave
		}
		i++
	}
octave:
	oct, err := strconv.Atoi(name[i:])
	if err != nil {
		return p, fmt.Errorf("bad pitch name %q: unparsable octave %q", name, name[i:])
	}
	p.Octave = oct
	return p, nil
}

// Name returns the spelled name with "-" for flats, matching the
// spelling used in serialized slice files.
func (p Pitch) Name() string {
	var b strings.Builder
	b.WriteByte(stepNames[p.Step])
	for i := 0; i < p.Alter; i++ {
		b.WriteByte('#')
	}
	for i := 0; i > p.Alter; i-- {
		b.WriteByte('-')
	}
	b.WriteString(strconv.Itoa(p.Octave))
	return b.String()
}

// MIDI returns the MIDI note number (C4 = 60).
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepSemis[p.Step] + p.Alter
}

// diatonicPos orders pitches by staff position rather than sounding
// height, so interval direction follows the spelling.
func (p Pitch) diatonicPos() int {
	return p.Octave*7 + p.Step
}

var midiSteps = [12]struct {
	step  int
	alter int
}{
	{0, 0},  // C
	{0, 1},  // C#
	{1, 0},  // D
	{1, 1},  // D#
	{2, 0},  // E
	{3, 0},  // F
	{3, 1},  // F#
	{4, 0},  // G
	{4, 1},  // G#
	{5, 0},  // A
	{5, 1},  // A#
	{6, 0},  // B
}

// FromMIDI spells a MIDI note number with sharps.
func FromMIDI(num int) Pitch {
	pc := num % 12
	if pc < 0 {
		pc += 12
	}
	s := midiSteps[pc]
	return Pitch{Step: s.step, Alter: s.alter, Octave: (num-s.alter)/12 - 1}
}

// MIDINumbers converts spelled names to MIDI note numbers.
func MIDINumbers(names []string) ([]int, error) {
	res := make([]int, 0, len(names))
	for _, name := range names {
		p, err := Parse(name)
		if err != nil {
			return nil, err
		}
		res = append(res, p.MIDI())
	}
	return res, nil
}

var perfectSizes = map[int]int{1: 0, 4: 5, 5: 7}
var majorSizes = map[int]int{2: 2, 3: 4, 6: 9, 7: 11}

// IntervalName names the interval between two spelled pitches in the
// usual quality+number form: "P5", "m3", "A6", "d10", "A13". Compound
// intervals keep their compound number.
func IntervalName(a, b Pitch) string {
	low, high := a, b
	if high.diatonicPos() < low.diatonicPos() ||
		(high.diatonicPos() == low.diatonicPos() && high.MIDI() < low.MIDI()) {
		low, high = high, low
	}

	generic := high.diatonicPos() - low.diatonicPos() + 1
	simple := (generic-1)%7 + 1
	semis := high.MIDI() - low.MIDI()

	var expected int
	var perfect bool
	if base, ok := perfectSizes[simple]; ok {
		expected = base
		perfect = true
	} else {
		expected = majorSizes[simple]
	}
	expected += 12 * ((generic - 1) / 7)

	diff := semis - expected
	var quality string
	switch {
	case perfect && diff == 0:
		quality = "P"
	case !perfect && diff == 0:
		quality = "M"
	case !perfect && diff == -1:
		quality = "m"
	case diff > 0:
		quality = strings.Repeat("A", diff)
	default:
		if !perfect {
			diff++
		}
		quality = strings.Repeat("d", -diff)
	}
	return quality + strconv.Itoa(generic)
}

// PairIntervals names the interval of every unordered pair of the given
// pitches, collapsing duplicate names and preserving first-seen order.
func PairIntervals(names []string) ([]string, error) {
	pitches := make([]Pitch, len(names))
	for i, name := range names {
		p, err := Parse(name)
		if err != nil {
			return nil, err
		}
		pitches[i] = p
	}

	var res []string
	seen := make(map[string]bool)
	for i := 0; i < len(pitches); i++ {
		for j := i + 1; j < len(pitches); j++ {
			name := IntervalName(pitches[i], pitches[j])
			if !seen[name] {
				seen[name] = true
				res = append(res, name)
			}
		}
	}
	return res, nil
}
