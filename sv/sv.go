// Package sv reads and writes the separated-values slice format: one
// line per slice, fields in the fixed order measure, beat,
// beatStrength, length, pitches, intervals, primeForm, normalOrder.
package sv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fourscore/scoresv/model"
)

// PlaceholderName is used when a score carries no metadata at all.
const PlaceholderName = "UNNAMED_SV_FILE"

// NumFields is the column count of every well-formed line.
const NumFields = 8

// ParseError reports a malformed line in a slice file.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extension returns the file extension for a delimiter, or an error for
// anything other than tab or comma.
func Extension(delimiter rune) (string, error) {
	switch delimiter {
	case '\t':
		return ".tsv", nil
	case ',':
		return ".csv", nil
	default:
		return "", fmt.Errorf("delimiter %q must be either '\\t' (for .tsv) or ',' (for .csv)", delimiter)
	}
}

// FileName derives an output name from score metadata values, falling
// back to PlaceholderName. Dots become dashes and spaces underscores so
// the name is safe alongside the delimiter extension.
func FileName(meta []model.MetadataField) string {
	var values []string
	for _, field := range meta {
		if field.Value != "" {
			values = append(values, field.Value)
		}
	}
	if len(values) == 0 {
		return PlaceholderName
	}

	name := strings.Join(values, "_")
	for _, ext := range []string{".mxl", ".midi", ".mid", ".xml"} {
		name = strings.ReplaceAll(name, ext, "")
	}
	name = strings.ReplaceAll(name, ".", "-")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

// Write serializes the slice sequence to w.
func Write(w io.Writer, data []model.Slice, delimiter rune) error {
	if _, err := Extension(delimiter); err != nil {
		return err
	}

	out := csv.NewWriter(w)
	out.Comma = delimiter
	for _, entry := range data {
		record := []string{
			strconv.Itoa(entry.Measure),
			formatNum(entry.Beat),
			formatNum(entry.BeatStrength),
			formatNum(entry.Length),
			formatList(nil),
			formatList(nil),
			"[]",
			"[]",
		}
		if entry.Chord != nil {
			record[4] = formatList(entry.Chord.Pitches)
			record[5] = formatList(entry.Chord.Intervals)
			record[6] = entry.Chord.PrimeForm
			record[7] = entry.Chord.NormalOrder
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// WriteFile writes the sequence under dir with the extension implied by
// the delimiter and returns the full path.
func WriteFile(data []model.Slice, dir, name string, delimiter rune) (string, error) {
	ext, err := Extension(delimiter)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = PlaceholderName
	}

	path := filepath.Join(dir, name+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating slice file: %w", err)
	}
	defer f.Close()

	if err := Write(f, data, delimiter); err != nil {
		return "", err
	}
	return path, nil
}

// Read parses a slice sequence from r. Malformed lines produce a
// *ParseError carrying the 1-based line number; no row is silently
// dropped or partially accepted.
func Read(r io.Reader, delimiter rune) ([]model.Slice, error) {
	in := csv.NewReader(r)
	in.Comma = delimiter
	in.FieldsPerRecord = -1

	var res []model.Slice
	for line := 1; ; line++ {
		record, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: line, Reason: "unreadable row", Err: err}
		}
		entry, err := parseRecord(record, line)
		if err != nil {
			return nil, err
		}
		res = append(res, entry)
	}
	return res, nil
}

// ReadFile parses a slice file, inferring the delimiter from the
// extension (.csv is comma, anything else tab).
func ReadFile(path string) ([]model.Slice, error) {
	delimiter := '\t'
	if filepath.Ext(path) == ".csv" {
		delimiter = ','
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening slice file: %w", err)
	}
	defer f.Close()

	data, err := Read(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func parseRecord(record []string, line int) (model.Slice, error) {
	var entry model.Slice
	if len(record) != NumFields {
		return entry, &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", NumFields, len(record)),
		}
	}

	measure, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return entry, &ParseError{Line: line, Reason: fmt.Sprintf("bad measure %q", record[0]), Err: err}
	}
	beat, err := parseNum(record[1])
	if err != nil {
		return entry, &ParseError{Line: line, Reason: fmt.Sprintf("bad beat %q", record[1]), Err: err}
	}
	strength, err := parseNum(record[2])
	if err != nil {
		return entry, &ParseError{Line: line, Reason: fmt.Sprintf("bad beatStrength %q", record[2]), Err: err}
	}
	length, err := parseNum(record[3])
	if err != nil {
		return entry, &ParseError{Line: line, Reason: fmt.Sprintf("bad length %q", record[3]), Err: err}
	}

	entry.Measure = measure
	entry.Beat = beat
	entry.BeatStrength = strength
	entry.Length = length

	pitches, err := parseList(record[4])
	if err != nil {
		return entry, &ParseError{Line: line, Reason: fmt.Sprintf("bad pitches %q", record[4]), Err: err}
	}
	if len(pitches) == 0 {
		return entry, nil // rest
	}

	intervals, err := parseList(record[5])
	if err != nil {
		return entry, &ParseError{Line: line, Reason: fmt.Sprintf("bad intervals %q", record[5]), Err: err}
	}
	entry.Chord = &model.Chord{
		Pitches:     pitches,
		Intervals:   intervals,
		PrimeForm:   strings.TrimSpace(record[6]),
		NormalOrder: strings.TrimSpace(record[7]),
	}
	return entry, nil
}

// formatNum renders a number the way the slice files expect: whole
// values keep one decimal ("2.0"), others print exactly ("1.33").
func formatNum(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseNum reads a plain decimal or a rational literal like "1/3",
// which is reduced to a 2-decimal approximation.
func parseNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, denom, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return 0, err
		}
		d, err := strconv.Atoi(strings.TrimSpace(denom))
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		return math.Round(float64(n)/float64(d)*100) / 100, nil
	}
	return strconv.ParseFloat(s, 64)
}

// formatList renders a string list in the bracketed quoted form, e.g.
// ['C4', 'E4']; an empty list is [].
func formatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(item)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

func parseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("list %q is not bracketed", s)
	}

	var res []string
	for _, part := range strings.Split(s[1:len(s)-1], ", ") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, "'\"")
		if part != "" {
			res = append(res, part)
		}
	}
	return res, nil
}
