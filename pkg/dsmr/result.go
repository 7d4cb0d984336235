package dsmr

import (
	"encoding/json"
	"fmt"

	"github.com/zuidwijk/dsmr/internal/parse"
)

// slot holds one field's decoded value. Which members are meaningful
// follows from the field's kind.
type slot struct {
	present   bool
	fixed     FixedValue
	num       uint32
	str       string
	timestamp string
}

// Result is the aggregate outcome of decoding one telegram: one slot
// per registry field, each with a presence flag. A Result is created
// fresh per telegram and is read-only once decoding completes.
type Result struct {
	// Identification is the first telegram line without its leading
	// '/'.
	Identification string

	registry *Registry
	slots    []slot
}

func newResult(r *Registry, identification string) *Result {
	res := &Result{
		Identification: identification,
		registry:       r,
		slots:          make([]slot, r.Len()),
	}
	if idx, ok := r.lookup(IdentificationID); ok {
		res.slots[idx] = slot{present: true, str: identification}
	}
	return res
}

// apply parses a line's values region with field f and stores the
// outcome in slot idx. A later line for the same field overwrites the
// earlier value.
func (res *Result) apply(idx int, f Field, values string) error {
	s := slot{present: true}
	next := 0
	var err error
	switch f.Kind {
	case KindFixed:
		var v uint32
		v, next, err = parse.Fixed(values, 0, f.Unit, f.AltUnit)
		s.fixed = FixedValue{Scaled: v}
	case KindInt:
		s.num, next, err = parse.Num(values, 0, 0, f.Unit)
	case KindString:
		s.str, next, err = parse.Str(values, 0, f.MinLen, f.MaxLen)
	case KindRaw:
		s.str, next = parse.Raw(values, 0)
	case KindTimestamp:
		s.str, next, err = parse.Timestamp(values, 0)
	case KindTimestampedFixed:
		var v uint32
		s.timestamp, v, next, err = parse.TimestampedFixed(values, 0, f.Unit, f.AltUnit)
		s.fixed = FixedValue{Scaled: v}
	default:
		err = fmt.Errorf("dsmr: field %q has unsupported kind %v", f.Name, f.Kind)
	}
	if err != nil {
		return err
	}
	if next != len(values) {
		return &parse.Error{Kind: parse.KindSyntax, Pos: next, Msg: "trailing data after value"}
	}
	res.slots[idx] = s
	return nil
}

// Present reports whether the named field was decoded from the
// telegram.
func (res *Result) Present(name string) bool {
	idx, ok := res.registry.index(name)
	return ok && res.slots[idx].present
}

func (res *Result) presentSlot(name string, kind Kind) (*slot, bool) {
	idx, ok := res.registry.index(name)
	if !ok || !res.slots[idx].present || res.registry.fields[idx].Kind != kind {
		return nil, false
	}
	return &res.slots[idx], true
}

// Fixed returns the named fixed-point reading.
func (res *Result) Fixed(name string) (FixedValue, bool) {
	s, ok := res.presentSlot(name, KindFixed)
	if !ok {
		return FixedValue{}, false
	}
	return s.fixed, true
}

// Int returns the named whole-number value.
func (res *Result) Int(name string) (uint32, bool) {
	s, ok := res.presentSlot(name, KindInt)
	if !ok {
		return 0, false
	}
	return s.num, true
}

// Str returns the named string value.
func (res *Result) Str(name string) (string, bool) {
	s, ok := res.presentSlot(name, KindString)
	if !ok {
		return "", false
	}
	return s.str, true
}

// Raw returns the named verbatim capture.
func (res *Result) Raw(name string) (string, bool) {
	s, ok := res.presentSlot(name, KindRaw)
	if !ok {
		return "", false
	}
	return s.str, true
}

// Timestamp returns the named 13-character stamp.
func (res *Result) Timestamp(name string) (string, bool) {
	s, ok := res.presentSlot(name, KindTimestamp)
	if !ok {
		return "", false
	}
	return s.str, true
}

// TimestampedFixed returns the named timestamped reading.
func (res *Result) TimestampedFixed(name string) (TimestampedFixedValue, bool) {
	s, ok := res.presentSlot(name, KindTimestampedFixed)
	if !ok {
		return TimestampedFixedValue{}, false
	}
	return TimestampedFixedValue{Timestamp: s.timestamp, FixedValue: s.fixed}, true
}

// Each calls fn for every present field in registry order with its
// typed value: FixedValue, uint32, string, or TimestampedFixedValue.
func (res *Result) Each(fn func(f Field, value any)) {
	for i := range res.slots {
		if !res.slots[i].present {
			continue
		}
		fn(res.registry.fields[i], res.value(i))
	}
}

func (res *Result) value(idx int) any {
	s := &res.slots[idx]
	switch res.registry.fields[idx].Kind {
	case KindFixed:
		return s.fixed
	case KindInt:
		return s.num
	case KindTimestampedFixed:
		return TimestampedFixedValue{Timestamp: s.timestamp, FixedValue: s.fixed}
	default:
		return s.str
	}
}

// MarshalJSON renders the present fields keyed by name. Fixed values
// keep their exact decimal view.
func (res *Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(res.slots))
	res.Each(func(f Field, value any) {
		switch v := value.(type) {
		case FixedValue:
			out[f.Name] = json.RawMessage(v.String())
		case TimestampedFixedValue:
			out[f.Name] = map[string]any{
				"timestamp": v.Timestamp,
				"value":     json.RawMessage(v.FixedValue.String()),
			}
		default:
			out[f.Name] = v
		}
	})
	return json.Marshal(out)
}

// String renders a human-readable representation of the result.
func (res *Result) String() string {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Sprintf("dsmr result (marshal error: %v)", err)
	}
	return string(data)
}
