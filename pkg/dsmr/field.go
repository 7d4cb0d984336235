package dsmr

import "github.com/zuidwijk/dsmr/internal/obis"

// Units used by the built-in field sets. Field descriptors reference
// these shared constants rather than repeating literals.
const (
	UnitNone  = ""
	UnitKWh   = "kWh"
	UnitWh    = "Wh"
	UnitKW    = "kW"
	UnitW     = "W"
	UnitV     = "V"
	UnitMV    = "mV"
	UnitA     = "A"
	UnitMA    = "mA"
	UnitM3    = "m3"
	UnitDM3   = "dm3"
	UnitGJ    = "GJ"
	UnitMJ    = "MJ"
	UnitKvar  = "kvar"
	UnitKvarh = "kvarh"
	UnitHz    = "Hz"
)

// Kind selects the value parser for a field.
type Kind int

const (
	// KindFixed is a three-decimal number with a unit, with a
	// whole-number fallback in the alternate unit.
	KindFixed Kind = iota
	// KindInt is a whole number, optionally with a unit.
	KindInt
	// KindString is a bounded-length string.
	KindString
	// KindRaw captures the value region verbatim, parentheses
	// included.
	KindRaw
	// KindTimestamp is a 13-character YYMMDDhhmmssX stamp.
	KindTimestamp
	// KindTimestampedFixed is a timestamp group followed by a fixed
	// number group.
	KindTimestampedFixed
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindRaw:
		return "raw"
	case KindTimestamp:
		return "timestamp"
	case KindTimestampedFixed:
		return "timestamped_fixed"
	default:
		return "unknown"
	}
}

// Field describes one entry of a registry: which OBIS reference it
// answers to, under what name the value is exposed, and how the value
// region is parsed.
type Field struct {
	ID      obis.ID
	Name    string
	Kind    Kind
	Unit    string
	AltUnit string
	MinLen  int
	MaxLen  int
}

// IdentificationID is the pseudo reference under which the telegram's
// identification line is filed; it never occurs as a real line prefix.
var IdentificationID = obis.New(255, 255, 255, 255, 255, 255)

// Fixed describes a three-decimal reading in unit with a whole-number
// fallback in altUnit.
func Fixed(id obis.ID, name, unit, altUnit string) Field {
	return Field{ID: id, Name: name, Kind: KindFixed, Unit: unit, AltUnit: altUnit}
}

// Int describes a whole-number field.
func Int(id obis.ID, name, unit string) Field {
	return Field{ID: id, Name: name, Kind: KindInt, Unit: unit}
}

// Str describes a string field with length bounds.
func Str(id obis.ID, name string, min, max int) Field {
	return Field{ID: id, Name: name, Kind: KindString, MinLen: min, MaxLen: max}
}

// RawCapture describes a field kept verbatim.
func RawCapture(id obis.ID, name string) Field {
	return Field{ID: id, Name: name, Kind: KindRaw}
}

// Timestamp describes a 13-character stamp field.
func Timestamp(id obis.ID, name string) Field {
	return Field{ID: id, Name: name, Kind: KindTimestamp}
}

// TimestampedFixed describes a timestamped reading, as the M-Bus
// channels report.
func TimestampedFixed(id obis.ID, name, unit, altUnit string) Field {
	return Field{ID: id, Name: name, Kind: KindTimestampedFixed, Unit: unit, AltUnit: altUnit}
}
