package dsmr

import (
	"fmt"
	"time"

	"github.com/zuidwijk/dsmr/internal/parse"
)

// FixedValue is a decimal meter reading with at most three fractional
// digits, stored as the value times 1000. Keeping the scaled integer
// avoids floating-point drift: 1.234 kWh is held as 1234, which is the
// reading in Wh.
type FixedValue struct {
	// Scaled is the reading multiplied by 1000.
	Scaled uint32
}

// Float returns the reading in its fractional unit.
func (v FixedValue) Float() float64 {
	return float64(v.Scaled) / 1000
}

// String renders the exact decimal view, e.g. "123.456".
func (v FixedValue) String() string {
	return fmt.Sprintf("%d.%03d", v.Scaled/1000, v.Scaled%1000)
}

// TimestampedFixedValue is a reading captured at a meter-reported
// time, as the M-Bus channels (gas, water, thermal) deliver them.
type TimestampedFixedValue struct {
	// Timestamp is the raw 13-character YYMMDDhhmmssX stamp.
	Timestamp string
	FixedValue
}

// Time converts the capture timestamp.
func (v TimestampedFixedValue) Time() (time.Time, error) {
	return parse.ToTime(v.Timestamp)
}
