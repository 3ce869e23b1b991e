// Package reseg re-quantizes a slice sequence to a uniform slice
// width, for feature-vector export.
package reseg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fourscore/scoresv/model"
	"github.com/fourscore/scoresv/pitch"
	"github.com/fourscore/scoresv/util"
)

// Widths are the permitted uniform slice widths, in quarter-note units.
var Widths = []float64{0.0625, 0.125, 0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 4.0}

const eps = 1e-9

// Auto asks EvenSlices to infer the width as the minimum length present
// in the sequence.
const Auto = 0.0

func permitted(width float64) bool {
	for _, w := range Widths {
		if width > w-eps && width < w+eps {
			return true
		}
	}
	return false
}

// EvenSlices derives a new sequence in which every entry's length
// equals width (Auto infers the minimum length present). The source
// sequence is never mutated and the total duration is preserved.
//
// An entry longer than the width becomes k = floor(length/width)
// consecutive copies of length/k each; the slice is assumed
// harmonically static across its original span. When the length is not
// an integer multiple of the width the k parts come out wider than
// requested (with k = 1 the entry passes through unchanged), so mixing
// such lengths with the chosen width yields a non-uniform result. An
// entry shorter than the width starts an accumulation run: following
// entries are consumed until the run reaches the width, and the run is
// re-emitted as floor(total/width) copies of the FIRST entry's content
// at exactly the width, plus one trailing partial copy for any
// remainder. Syncopated runs are therefore approximated, not exactly
// re-quantized.
func EvenSlices(data []model.Slice, width float64) ([]model.Slice, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if width == Auto {
		lengths := make([]float64, len(data))
		for i, entry := range data {
			lengths[i] = entry.Length
		}
		width = util.Min(lengths)
		if !permitted(width) {
			return nil, fmt.Errorf("cannot work with the min slice width here (%v): choose manually one of %v", width, Widths)
		}
	} else if !permitted(width) {
		return nil, fmt.Errorf("cannot work with the slice width %v: choose manually one of %v", width, Widths)
	}

	var res []model.Slice
	for i := 0; i < len(data); {
		entry := data[i]
		switch {
		case entry.Length > width+eps:
			k := int(entry.Length / width)
			res = append(res, split(entry, k)...)
			i++
		case entry.Length > width-eps:
			res = append(res, entry)
			i++
		default:
			total := entry.Length
			i++
			for total < width-eps && i < len(data) {
				total += data[i].Length
				i++
			}
			res = append(res, requantize(entry, total, width)...)
		}
	}
	return res, nil
}

// split replaces an entry with n consecutive copies of 1/nth the
// length.
func split(entry model.Slice, n int) []model.Slice {
	shorter := entry
	shorter.Length = entry.Length / float64(n)
	res := make([]model.Slice, n)
	for i := range res {
		res[i] = shorter
	}
	return res
}

// requantize spreads an accumulated run of total duration over whole
// copies of the run's first entry, plus a trailing partial if the run
// does not divide evenly.
func requantize(entry model.Slice, total, width float64) []model.Slice {
	var res []model.Slice
	for total > width-eps {
		whole := entry
		whole.Length = width
		res = append(res, whole)
		total -= width
	}
	if total > eps {
		tail := entry
		tail.Length = total
		res = append(res, tail)
	}
	return res
}

// WriteMIDINumbers writes one whitespace-separated line of integer MIDI
// pitch numbers per slice with pitch content; rest slices are skipped.
func WriteMIDINumbers(w io.Writer, data []model.Slice) error {
	for _, entry := range data {
		if entry.Chord == nil {
			continue
		}
		nums, err := pitch.MIDINumbers(entry.Chord.Pitches)
		if err != nil {
			return err
		}
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = strconv.Itoa(n)
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteMIDIFile writes the MIDI-number representation under dir and
// returns the full path.
func WriteMIDIFile(data []model.Slice, dir, name string) (string, error) {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, ".", "")
	name = strings.ReplaceAll(name, " ", "_")

	path := filepath.Join(dir, name+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating midi number file: %w", err)
	}
	defer f.Close()

	if err := WriteMIDINumbers(f, data); err != nil {
		return "", err
	}
	return path, nil
}
