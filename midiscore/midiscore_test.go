package midiscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourscore/scoresv/slicer"
)

// quarter gives tick offsets for a 480-resolution score.
const quarter = 480

func testScore(events []noteEvent, sigs []sigChange) *Score {
	return &Score{ticksPerQuarter: quarter, events: events, sigs: sigs}
}

func on(ticks int64, note uint8) noteEvent {
	return noteEvent{ticks: ticks, note: note}
}

func off(ticks int64, note uint8) noteEvent {
	return noteEvent{ticks: ticks, isNoteOff: true, note: note}
}

func TestChordifyEmitsBoundariesOnSetChanges(t *testing.T) {
	// C4+E4 for one quarter, then E4 alone for one quarter
	score := testScore([]noteEvent{
		on(0, 60), on(0, 64),
		off(quarter, 60),
		off(2*quarter, 64),
	}, nil)

	spans, err := score.Chordify()
	require.NoError(t, err)
	require.Len(t, spans, 2)

	assert.Equal(t, []string{"C4", "E4"}, spans[0].Pitches)
	assert.Equal(t, 1.0, spans[0].Length)
	assert.Equal(t, []string{"E4"}, spans[1].Pitches)
	assert.Equal(t, 1.0, spans[1].Length)
}

func TestChordifyEmitsLeadingAndInnerRests(t *testing.T) {
	score := testScore([]noteEvent{
		on(quarter, 60),
		off(2*quarter, 60),
		on(3*quarter, 60),
		off(4*quarter, 60),
	}, nil)

	spans, err := score.Chordify()
	require.NoError(t, err)
	require.Len(t, spans, 4)

	assert.Empty(t, spans[0].Pitches)
	assert.Equal(t, 1.0, spans[0].Length)
	assert.Empty(t, spans[2].Pitches)
}

func TestChordifyMergesRestruckNotes(t *testing.T) {
	// the sounding set never changes across the restrike boundary
	score := testScore([]noteEvent{
		on(0, 60),
		off(quarter, 60), on(quarter, 60),
		off(2*quarter, 60),
	}, nil)

	spans, err := score.Chordify()
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, 2.0, spans[0].Length)
}

func TestChordifyTruncatesUnterminatedNotes(t *testing.T) {
	// E4 has no note-off: it sounds until the final event and no further
	score := testScore([]noteEvent{
		on(0, 60), on(0, 64),
		off(quarter, 60),
	}, nil)

	spans, err := score.Chordify()
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, []string{"C4", "E4"}, spans[0].Pitches)
	assert.Equal(t, 1.0, spans[0].Length)

	// a press at the very last tick has zero observable duration
	score = testScore([]noteEvent{
		on(0, 60),
		off(quarter, 60), on(quarter, 64),
	}, nil)

	spans, err = score.Chordify()
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, []string{"C4"}, spans[0].Pitches)
}

func TestChordifyIsContiguous(t *testing.T) {
	score := testScore([]noteEvent{
		on(0, 60), on(0, 64), on(0, 67),
		off(quarter/2, 67),
		off(quarter, 64),
		on(quarter, 65),
		off(3*quarter, 60), off(3*quarter, 65),
		on(3*quarter, 62),
		off(4*quarter, 62),
	}, nil)

	spans, err := score.Chordify()
	require.NoError(t, err)
	require.NotEmpty(t, spans)

	var covered float64
	for _, span := range spans {
		covered += span.Length
	}
	assert.InDelta(t, 4.0, covered, 1e-9)
}

func TestChordifySpellsAscending(t *testing.T) {
	score := testScore([]noteEvent{
		on(0, 67), on(0, 60), on(0, 64),
		off(quarter, 67), off(quarter, 60), off(quarter, 64),
	}, nil)

	spans, err := score.Chordify()
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "E4", "G4"}, spans[0].Pitches)
}

func TestTimelineLocatesMeasuresAndBeats(t *testing.T) {
	score := testScore(nil, []sigChange{{ticks: 0, num: 4, den: 4}})
	timeline := score.timeline()

	measure, beat, strength := timeline.locate(0)
	assert.Equal(t, 1, measure)
	assert.Equal(t, 1.0, beat)
	assert.Equal(t, 1.0, strength)

	measure, beat, strength = timeline.locate(6) // measure 2, beat 3
	assert.Equal(t, 2, measure)
	assert.Equal(t, 3.0, beat)
	assert.Equal(t, 0.5, strength)

	_, beat, strength = timeline.locate(1.5) // offbeat eighth
	assert.Equal(t, 2.5, beat)
	assert.Equal(t, 0.125, strength)
}

func TestTimelineHandlesSigChanges(t *testing.T) {
	// two 4/4 bars, then 3/4
	score := testScore(nil, []sigChange{
		{ticks: 0, num: 4, den: 4},
		{ticks: 8 * quarter, num: 3, den: 4},
	})
	timeline := score.timeline()

	measure, beat, _ := timeline.locate(8)
	assert.Equal(t, 3, measure)
	assert.Equal(t, 1.0, beat)

	measure, beat, strength := timeline.locate(11) // start of the second 3/4 bar
	assert.Equal(t, 4, measure)
	assert.Equal(t, 1.0, beat)
	assert.Equal(t, 1.0, strength)

	_, beat, strength = timeline.locate(13)
	assert.Equal(t, 3.0, beat)
	assert.Equal(t, 0.5, strength) // triple meter: non-downbeats are 0.5
}

func TestTimelineDefaultsToCommonTime(t *testing.T) {
	score := testScore(nil, nil)
	timeline := score.timeline()

	measure, beat, _ := timeline.locate(4)
	assert.Equal(t, 2, measure)
	assert.Equal(t, 1.0, beat)
}

func TestBeatUnitCompoundMeters(t *testing.T) {
	unit, beats := beatUnit(6, 8)
	assert.Equal(t, 1.5, unit)
	assert.Equal(t, 2, beats)

	unit, beats = beatUnit(4, 4)
	assert.Equal(t, 1.0, unit)
	assert.Equal(t, 4, beats)

	unit, beats = beatUnit(3, 4)
	assert.Equal(t, 1.0, unit)
	assert.Equal(t, 3, beats)
}

func TestChordifyProducesSlicerSpans(t *testing.T) {
	score := testScore([]noteEvent{
		on(0, 60), off(quarter, 60),
	}, []sigChange{{ticks: 0, num: 4, den: 4}})

	spans, err := score.Chordify()
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.IsType(t, slicer.Span{}, spans[0])
	assert.Equal(t, 1, spans[0].Measure)
	assert.Equal(t, 1.0, spans[0].Beat)
}
