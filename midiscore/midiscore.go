// Package midiscore implements the slicer.Score collaborator on top of
// Standard MIDI Files.
package midiscore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/fourscore/scoresv/model"
	"github.com/fourscore/scoresv/pitch"
	"github.com/fourscore/scoresv/slicer"
)

// Score is a parsed MIDI file with the note events and time-signature
// map needed for chordification.
//
// SMF bar math always starts at tick zero, so an anacrusis is not
// observable here: measures are numbered from 1 and a partial leading
// measure (measure 0) never occurs in spans from this adapter.
type Score struct {
	ticksPerQuarter float64
	events          []noteEvent
	sigs            []sigChange
	meta            []model.MetadataField
}

type noteEvent struct {
	ticks     int64
	isNoteOff bool
	note      uint8
}

type sigChange struct {
	ticks int64
	num   int
	den   int
}

// ReadFile parses a MIDI file from disk.
func ReadFile(path string) (score *Score, e error) {
	// some malformed files panic the reader
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file %v: %w", path, err)
	}

	score, err = New(parsed)
	if err != nil {
		return nil, err
	}
	score.meta = append(score.meta, model.MetadataField{
		Key:   "fileName",
		Value: filepath.Base(path),
	})
	return score, nil
}

// New builds a Score from an already-parsed SMF.
func New(s *smf.SMF) (*Score, error) {
	ticksPerQuarter, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v, expected metric ticks", s.TimeFormat)
	}

	score := &Score{ticksPerQuarter: float64(ticksPerQuarter)}

	var title string
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)

			var channel, key, velocity uint8
			var num, den, clocks, dsq uint8
			var text string
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				score.events = append(score.events, noteEvent{ticks: absTicks, note: key})
			case event.Message.GetNoteEnd(&channel, &key):
				score.events = append(score.events, noteEvent{ticks: absTicks, isNoteOff: true, note: key})
			case event.Message.GetMetaTimeSig(&num, &den, &clocks, &dsq):
				score.sigs = append(score.sigs, sigChange{ticks: absTicks, num: int(num), den: int(den)})
			case event.Message.GetMetaTrackName(&text):
				if title == "" && text != "" {
					title = text
				}
			case event.Message.GetMetaCopyright(&text):
				if text != "" {
					score.meta = append(score.meta, model.MetadataField{Key: "copyright", Value: text})
				}
			}
		}
	}
	if title != "" {
		score.meta = append([]model.MetadataField{{Key: "title", Value: title}}, score.meta...)
	}

	// smaller offsets first, note-off before note-on at the same tick
	sort.SliceStable(score.events, func(i, j int) bool {
		if score.events[i].ticks != score.events[j].ticks {
			return score.events[i].ticks < score.events[j].ticks
		}
		return score.events[i].isNoteOff && !score.events[j].isNoteOff
	})
	sort.SliceStable(score.sigs, func(i, j int) bool {
		return score.sigs[i].ticks < score.sigs[j].ticks
	})

	return score, nil
}

// Metadata returns the score's descriptive fields for output naming.
func (s *Score) Metadata() []model.MetadataField {
	return s.meta
}

type segment struct {
	startTicks int64
	endTicks   int64
	notes      []uint8
}

// Chordify sweeps the note events and emits one contiguous span per
// maximal stretch with a constant sounding pitch set, rests included.
func (s *Score) Chordify() ([]slicer.Span, error) {
	if len(s.events) == 0 {
		return nil, nil
	}

	segments := s.sweep()
	timeline := s.timeline()

	var res []slicer.Span
	for _, seg := range segments {
		startQ := float64(seg.startTicks) / s.ticksPerQuarter
		lengthQ := float64(seg.endTicks-seg.startTicks) / s.ticksPerQuarter

		measure, beat, strength := timeline.locate(startQ)
		span := slicer.Span{
			Measure:      measure,
			Beat:         beat,
			BeatStrength: strength,
			Length:       lengthQ,
		}
		for _, note := range seg.notes {
			span.Pitches = append(span.Pitches, pitch.FromMIDI(int(note)).Name())
		}
		res = append(res, span)
	}
	return res, nil
}

// sweep turns the sorted on/off events into contiguous segments,
// merging neighbors whose pitch sets are equal (a restruck note does
// not change the sounding set).
//
// The sweep ends at the final event: a note still pressed there has no
// note-off and hence no end time, so it is truncated at that tick and
// contributes nothing beyond it.
func (s *Score) sweep() []segment {
	pressed := make(map[uint8]int)
	var segments []segment
	var prevTicks int64

	flush := func(until int64) {
		if until <= prevTicks {
			return
		}
		notes := sortedNotes(pressed)
		if n := len(segments); n > 0 && segments[n-1].endTicks == prevTicks && equalNotes(segments[n-1].notes, notes) {
			segments[n-1].endTicks = until
		} else {
			segments = append(segments, segment{startTicks: prevTicks, endTicks: until, notes: notes})
		}
		prevTicks = until
	}

	for _, evt := range s.events {
		flush(evt.ticks)
		if evt.isNoteOff {
			if pressed[evt.note] > 0 {
				pressed[evt.note]--
				if pressed[evt.note] == 0 {
					delete(pressed, evt.note)
				}
			}
		} else {
			pressed[evt.note]++
		}
	}
	return segments
}

func sortedNotes(pressed map[uint8]int) []uint8 {
	var notes []uint8
	for note := range pressed {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes
}

func equalNotes(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sigSegment is one stretch of the piece under a single time signature.
type sigSegment struct {
	startQ       float64
	startMeasure int
	num          int
	den          int
}

type sigTimeline struct {
	segments []sigSegment
}

// timeline converts the time-signature changes into measure-numbered
// segments. A score with no time signature gets a best-effort 4/4.
func (s *Score) timeline() sigTimeline {
	sigs := s.sigs
	if len(sigs) == 0 || sigs[0].ticks != 0 {
		sigs = append([]sigChange{{ticks: 0, num: 4, den: 4}}, sigs...)
	}

	var segments []sigSegment
	measure := 1
	for i, sig := range sigs {
		seg := sigSegment{
			startQ:       float64(sig.ticks) / s.ticksPerQuarter,
			startMeasure: measure,
			num:          sig.num,
			den:          sig.den,
		}
		segments = append(segments, seg)
		if i+1 < len(sigs) {
			nextQ := float64(sigs[i+1].ticks) / s.ticksPerQuarter
			bars := (nextQ - seg.startQ) / barLength(sig.num, sig.den)
			measure += int(bars + 0.5)
		}
	}
	return sigTimeline{segments: segments}
}

func barLength(num, den int) float64 {
	return float64(num) * 4.0 / float64(den)
}

// locate maps an absolute quarter-note offset to (measure, beat,
// beatStrength) under the governing time signature.
func (t sigTimeline) locate(offsetQ float64) (int, float64, float64) {
	seg := t.segments[0]
	for _, candidate := range t.segments[1:] {
		if candidate.startQ > offsetQ+1e-9 {
			break
		}
		seg = candidate
	}

	bar := barLength(seg.num, seg.den)
	barsIn := (offsetQ - seg.startQ) / bar
	barIndex := int(barsIn + 1e-9)
	inBar := offsetQ - seg.startQ - float64(barIndex)*bar
	if inBar < 0 {
		inBar = 0
	}

	unit, numBeats := beatUnit(seg.num, seg.den)
	beat := inBar/unit + 1
	return seg.startMeasure + barIndex, beat, beatStrength(inBar, unit, numBeats)
}

// beatUnit returns the quarter-note length of one beat and the beat
// count per measure. Compound meters (6/8, 9/8, 12/8) count dotted
// beats.
func beatUnit(num, den int) (float64, int) {
	if num > 3 && num%3 == 0 {
		return 3.0 * 4.0 / float64(den), num / 3
	}
	return 4.0 / float64(den), num
}

// beatStrength is a simplified halving hierarchy: downbeat 1.0, the
// mid-measure beat of duple meters 0.5, any beat of triple meter 0.5,
// remaining beats 0.25, half-beat offsets 0.125, finer 0.0625.
func beatStrength(inBar, unit float64, numBeats int) float64 {
	const eps = 1e-9
	if inBar < eps {
		return 1.0
	}
	beatPos := inBar / unit
	nearest := float64(int(beatPos + 0.5))
	if diff := beatPos - nearest; diff > -eps && diff < eps {
		idx := int(nearest)
		if numBeats%2 == 0 && idx == numBeats/2 {
			return 0.5
		}
		if numBeats == 3 {
			return 0.5
		}
		return 0.25
	}
	half := beatPos - float64(int(beatPos)) - 0.5
	if half > -eps && half < eps {
		return 0.125
	}
	return 0.0625
}
