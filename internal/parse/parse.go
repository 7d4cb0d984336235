// Package parse implements the typed value-group parsers for DSMR P1
// telegram lines. Every parser consumes one or more parenthesized
// groups from a line's values region and returns the cursor for the
// next group, so parsers compose (a timestamp immediately followed by
// a number, for example).
package parse

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind classifies a parse failure.
type Kind int

const (
	KindSyntax Kind = iota
	KindUnitMismatch
	KindLength
	KindOverflow
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindUnitMismatch:
		return "unit mismatch"
	case KindLength:
		return "length out of range"
	case KindOverflow:
		return "numeric overflow"
	default:
		return "unknown error"
	}
}

// Error is a parse failure at a byte position within the parsed region.
type Error struct {
	Kind Kind
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse: %s at offset %d: %s", e.Kind, e.Pos, e.Msg)
}

func fail(kind Kind, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Num reads a parenthesized decimal number with at most maxDecimals
// fractional digits and a mandatory unit suffix (when unit is
// non-empty). The result is the value scaled by 10^maxDecimals;
// missing fractional digits are zero-filled. Unit comparison is
// case-insensitive.
func Num(s string, i int, maxDecimals int, unit string) (uint32, int, error) {
	if i >= len(s) || s[i] != '(' {
		return 0, i, fail(KindSyntax, i, "missing (")
	}
	j := i + 1
	var value uint32
	digits := 0
	for j < len(s) && s[j] != '*' && s[j] != '.' && s[j] != ')' {
		c := s[j]
		if c < '0' || c > '9' {
			return 0, j, fail(KindSyntax, j, "invalid character %q in number", c)
		}
		var err error
		if value, err = push(value, c, j); err != nil {
			return 0, j, err
		}
		digits++
		j++
	}
	if digits == 0 {
		return 0, j, fail(KindSyntax, j, "empty number")
	}
	remaining := maxDecimals
	if remaining > 0 && j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && s[j] != '*' && s[j] != ')' && remaining > 0 {
			c := s[j]
			if c < '0' || c > '9' {
				return 0, j, fail(KindSyntax, j, "invalid character %q in fraction", c)
			}
			var err error
			if value, err = push(value, c, j); err != nil {
				return 0, j, err
			}
			remaining--
			j++
		}
	}
	for d := 0; d < remaining; d++ {
		var err error
		if value, err = push(value, '0', j); err != nil {
			return 0, j, err
		}
	}
	if unit != "" {
		if j >= len(s) || s[j] != '*' {
			return 0, j, fail(KindUnitMismatch, j, "missing unit %q", unit)
		}
		unitStart := j + 1
		j = unitStart
		for j < len(s) && s[j] != ')' {
			j++
		}
		if !strings.EqualFold(s[unitStart:j], unit) {
			return 0, unitStart, fail(KindUnitMismatch, unitStart, "expected unit %q, got %q", unit, s[unitStart:j])
		}
	}
	if j >= len(s) || s[j] != ')' {
		return 0, j, fail(KindSyntax, j, "missing )")
	}
	return value, j + 1, nil
}

func push(value uint32, digit byte, pos int) (uint32, error) {
	d := uint32(digit - '0')
	if value > (math.MaxUint32-d)/10 {
		return 0, fail(KindOverflow, pos, "value exceeds 32 bits")
	}
	return value*10 + d, nil
}

// Fixed reads a three-decimal number in unit, falling back to a whole
// number in altUnit. Some meters report 1-0:1.8.0(000441879*Wh) where
// most send 1-0:1.8.0(000441.879*kWh); both forms yield the identical
// scaled integer. On a double failure the error from the fractional
// attempt is returned.
func Fixed(s string, i int, unit, altUnit string) (uint32, int, error) {
	value, next, err := Num(s, i, 3, unit)
	if err == nil {
		return value, next, nil
	}
	if alt, altNext, altErr := Num(s, i, 0, altUnit); altErr == nil {
		return alt, altNext, nil
	}
	return 0, i, err
}

// Str reads a parenthesized string whose length must lie within
// [min, max].
func Str(s string, i, min, max int) (string, int, error) {
	if i >= len(s) || s[i] != '(' {
		return "", i, fail(KindSyntax, i, "missing (")
	}
	start := i + 1
	end := start
	for end < len(s) && s[end] != ')' {
		end++
	}
	if end == len(s) {
		return "", end, fail(KindSyntax, end, "missing )")
	}
	if n := end - start; n < min || n > max {
		return "", start, fail(KindLength, start, "string length %d outside [%d, %d]", end-start, min, max)
	}
	return s[start:end], end + 1, nil
}

// Raw captures the remainder of the region verbatim, parentheses
// included. It never fails.
func Raw(s string, i int) (string, int) {
	return s[i:], len(s)
}

// TimestampLen is the fixed length of a P1 timestamp: YYMMDDhhmmss
// plus the DST letter.
const TimestampLen = 13

// Timestamp reads a parenthesized YYMMDDhhmmssX stamp, where X is W
// (wintertime) or S (summertime). The stamp is kept as a string; see
// ToTime for conversion.
func Timestamp(s string, i int) (string, int, error) {
	return Str(s, i, TimestampLen, TimestampLen)
}

// TimestampedFixed reads a timestamp group immediately followed by a
// fixed-point number group, as in 0-1:24.2.1(150117180000W)(00473.789*m3).
func TimestampedFixed(s string, i int, unit, altUnit string) (string, uint32, int, error) {
	ts, next, err := Timestamp(s, i)
	if err != nil {
		return "", 0, i, err
	}
	value, next, err := Fixed(s, next, unit, altUnit)
	if err != nil {
		return "", 0, i, err
	}
	return ts, value, next, nil
}

var (
	winterZone = time.FixedZone("CET", 1*60*60)
	summerZone = time.FixedZone("CEST", 2*60*60)
)

// ToTime converts a 13-character P1 timestamp to a time.Time. The DST
// letter selects between CET and CEST, the zones Dutch meters report
// in.
func ToTime(ts string) (time.Time, error) {
	if len(ts) != TimestampLen {
		return time.Time{}, fail(KindLength, 0, "timestamp %q is not %d characters", ts, TimestampLen)
	}
	var zone *time.Location
	switch ts[TimestampLen-1] {
	case 'W':
		zone = winterZone
	case 'S':
		zone = summerZone
	default:
		return time.Time{}, fail(KindSyntax, TimestampLen-1, "unknown DST indicator %q", ts[TimestampLen-1])
	}
	t, err := time.ParseInLocation("060102150405", ts[:TimestampLen-1], zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	return t, nil
}
