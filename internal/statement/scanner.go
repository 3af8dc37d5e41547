// Package statement splits raw delimited statement text into field maps.
//
// The format is the lowest common denominator of bank CSV exports: the first
// non-empty line is the header, every following line is one record. Values
// are split positionally on commas with no quoting or escaping support;
// embedded delimiters are not handled, by contract. Callers that need full
// CSV semantics must convert upstream.
package statement

import "strings"

// Row maps a lower-cased header field name to the trimmed value of that
// column. A column missing from a short line is absent from the map.
type Row map[string]string

// Scanner iterates over the data lines of a statement, one Row per line,
// in input order. It does no validation beyond splitting; rejecting
// malformed rows is the normalizer's job.
type Scanner struct {
	fields []string
	lines  []string
	pos    int
	row    Row
}

// NewScanner prepares a scanner over raw statement text. The header is
// consumed immediately; its fields are lower-cased and trimmed and become
// the canonical field-name set for every subsequent row.
func NewScanner(raw string) *Scanner {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	// First non-empty line is the header.
	var fields []string
	pos := 0
	for pos < len(lines) {
		line := strings.TrimSpace(lines[pos])
		pos++
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		fields = make([]string, len(parts))
		for i, p := range parts {
			fields[i] = strings.ToLower(strings.TrimSpace(p))
		}
		break
	}

	return &Scanner{fields: fields, lines: lines, pos: pos}
}

// Fields returns the canonical field names taken from the header.
func (s *Scanner) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Scan advances to the next data line, skipping empty lines. It returns
// false when the input is exhausted.
func (s *Scanner) Scan() bool {
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		s.pos++
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")
		row := make(Row, len(s.fields))
		for i, field := range s.fields {
			if i >= len(values) {
				// Missing positional value: field stays absent.
				continue
			}
			row[field] = strings.TrimSpace(values[i])
		}
		s.row = row
		return true
	}
	s.row = nil
	return false
}

// Row returns the row produced by the last successful call to Scan.
func (s *Scanner) Row() Row {
	return s.row
}

// ParseAll collects every data row of raw into a slice, preserving input
// line order.
func ParseAll(raw string) []Row {
	sc := NewScanner(raw)
	var rows []Row
	for sc.Scan() {
		rows = append(rows, sc.Row())
	}
	return rows
}
