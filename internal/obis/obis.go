// Package obis implements OBIS reference identifiers as used in DSMR P1
// telegram lines.
package obis

import "fmt"

// Unspecified marks an ID component that was not present in the textual
// reference. Real components never reach this value.
const Unspecified = 255

// ID is a six-component OBIS reference (A-B:C.D.E.F). Components absent
// from the textual form are Unspecified.
type ID [6]uint8

// New builds an ID from up to six components; the rest are Unspecified.
func New(parts ...uint8) ID {
	var id ID
	for i := range id {
		if i < len(parts) {
			id[i] = parts[i]
		} else {
			id[i] = Unspecified
		}
	}
	return id
}

// separators between consecutive components in the textual form.
var separators = [5]byte{'-', ':', '.', '.', '.'}

// Parse reads an OBIS reference from the start of s and returns the ID
// together with the index of the first byte not consumed. At least the
// A-B:C.D.E form must be present.
func Parse(s string) (ID, int, error) {
	var id ID
	part := 0
	sawDigit := false
	i := 0
scan:
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v := int(id[part])*10 + int(c-'0')
			if v > 255 {
				return ID{}, i, fmt.Errorf("obis: component %d exceeds 255", part)
			}
			id[part] = uint8(v)
			sawDigit = true
		case part < len(separators) && c == separators[part]:
			if !sawDigit {
				return ID{}, i, fmt.Errorf("obis: empty component %d", part)
			}
			part++
			sawDigit = false
		default:
			break scan
		}
	}
	if part < 4 || !sawDigit {
		return ID{}, i, fmt.Errorf("obis: incomplete reference %q", s[:i])
	}
	for p := part + 1; p < len(id); p++ {
		id[p] = Unspecified
	}
	return id, i, nil
}

// String renders the reference in its textual A-B:C.D.E form, appending
// .F only when specified.
func (id ID) String() string {
	s := fmt.Sprintf("%d-%d:%d.%d.%d", id[0], id[1], id[2], id[3], id[4])
	if id[5] != Unspecified {
		s += fmt.Sprintf(".%d", id[5])
	}
	return s
}
