// Package telegram splits a validated P1 telegram into its
// identification line and OBIS-coded data lines.
package telegram

import (
	"fmt"
	"strings"

	"github.com/zuidwijk/dsmr/internal/obis"
)

// Line is one data line: an OBIS reference followed by its value
// groups.
type Line struct {
	ID obis.ID
	// Values is the region from the first '(' through the end of the
	// line, left as-is for the typed value parsers.
	Values string
	// Pos is the byte offset of the line within the telegram, used in
	// error reports.
	Pos int
	// ValuesPos is the byte offset of the values region.
	ValuesPos int
}

// Telegram is a tokenized P1 message.
type Telegram struct {
	// Identification is the first line without its leading '/'.
	Identification string
	Lines          []Line
}

// LineError reports a structurally invalid data line.
type LineError struct {
	Pos int
	Msg string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("telegram: malformed line at offset %d: %s", e.Pos, e.Msg)
}

// Split tokenizes raw, which must be a complete telegram from the '/'
// start marker through the checksum line. The checksum itself is not
// re-validated here. Data lines keep their value groups as substrings;
// a data line with no group or an unterminated group rejects the
// telegram.
func Split(raw []byte) (*Telegram, error) {
	s := string(raw)
	if len(s) == 0 || s[0] != '/' {
		return nil, &LineError{Pos: 0, Msg: "missing '/' start marker"}
	}

	t := &Telegram{}
	first := true
	pos := 0
	for pos < len(s) {
		end := strings.IndexByte(s[pos:], '\n')
		var line string
		if end < 0 {
			line = s[pos:]
			end = len(s)
		} else {
			line = s[pos : pos+end]
			end = pos + end + 1
		}
		line = strings.TrimSuffix(line, "\r")

		switch {
		case first:
			t.Identification = line[1:]
			first = false
		case line == "":
			// Blank separator after the identification line.
		case line[0] == '!':
			return t, nil
		default:
			parsed, err := parseLine(line, pos)
			if err != nil {
				return nil, err
			}
			t.Lines = append(t.Lines, parsed)
		}
		pos = end
	}
	return nil, &LineError{Pos: len(s), Msg: "missing '!' terminator line"}
}

func parseLine(line string, pos int) (Line, error) {
	id, next, err := obis.Parse(line)
	if err != nil {
		return Line{}, &LineError{Pos: pos, Msg: err.Error()}
	}
	if next >= len(line) || line[next] != '(' {
		return Line{}, &LineError{Pos: pos + next, Msg: "no value group"}
	}
	values := line[next:]
	if err := checkGroups(values); err != nil {
		return Line{}, &LineError{Pos: pos + next, Msg: err.Error()}
	}
	return Line{ID: id, Values: values, Pos: pos, ValuesPos: pos + next}, nil
}

// checkGroups verifies the region is one or more (...) groups with
// nothing in between.
func checkGroups(values string) error {
	i := 0
	for i < len(values) {
		if values[i] != '(' {
			return fmt.Errorf("unexpected %q between value groups", values[i])
		}
		end := strings.IndexByte(values[i:], ')')
		if end < 0 {
			return fmt.Errorf("unterminated value group")
		}
		i += end + 1
	}
	return nil
}
