// Package crc validates the 16-bit checksum that terminates a DSMR P1
// telegram.
package crc

import (
	"fmt"

	"github.com/sigurn/crc16"
)

// The P1 checksum is CRC16/ARC: polynomial 0x8005 reflected, zero init,
// no final XOR, least significant bit first.
var table = crc16.MakeTable(crc16.CRC16_ARC)

// MismatchError reports a checksum that does not match the telegram.
type MismatchError struct {
	Computed uint16
	Expected uint16
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("crc: checksum mismatch: computed %04X, telegram carries %04X", e.Computed, e.Expected)
}

// Sum computes the P1 checksum over span. The span runs from the '/'
// start marker through the '!' terminator inclusive.
func Sum(span []byte) uint16 {
	return crc16.Checksum(span, table)
}

// Verify compares the checksum of span against the four hex digits
// trailing the '!' terminator.
func Verify(span []byte, hexDigits []byte) error {
	expected, err := parseHex16(hexDigits)
	if err != nil {
		return err
	}
	if computed := Sum(span); computed != expected {
		return &MismatchError{Computed: computed, Expected: expected}
	}
	return nil
}

func parseHex16(digits []byte) (uint16, error) {
	if len(digits) != 4 {
		return 0, fmt.Errorf("crc: expected 4 hex digits, got %d", len(digits))
	}
	var v uint16
	for _, b := range digits {
		switch {
		case b >= '0' && b <= '9':
			v = v<<4 | uint16(b-'0')
		case b >= 'A' && b <= 'F':
			v = v<<4 | uint16(b-'A'+10)
		case b >= 'a' && b <= 'f':
			v = v<<4 | uint16(b-'a'+10)
		default:
			return 0, fmt.Errorf("crc: invalid hex digit %q", b)
		}
	}
	return v, nil
}
