// Package dsmr decodes DSMR P1 telegrams from residential smart
// meters: framing the byte stream, validating the trailing checksum,
// decrypting ciphered envelopes, and dispatching each OBIS-coded line
// to a typed field parser.
package dsmr

import (
	"bytes"
	"fmt"

	"github.com/zuidwijk/dsmr/internal/crc"
	"github.com/zuidwijk/dsmr/internal/crypto"
	"github.com/zuidwijk/dsmr/internal/frame"
	"github.com/zuidwijk/dsmr/internal/parse"
	"github.com/zuidwijk/dsmr/internal/telegram"
)

// FramingError reports a telegram that never assembled correctly.
type FramingError struct {
	Msg string
}

func (e *FramingError) Error() string {
	return "dsmr: framing: " + e.Msg
}

// FieldError reports a value that failed its field's typed parser.
// Under the strict dispatch policy it rejects the whole telegram.
type FieldError struct {
	Field string
	Pos   int // byte offset within the telegram
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("dsmr: field %q at offset %d: %v", e.Field, e.Pos, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Config configures a Decoder. The zero value selects the Dutch field
// set, the default accumulation limit, and no decryption key.
type Config struct {
	// Registry selects the field set; nil means the "nl" variant.
	Registry *Registry
	// MaxTelegramSize bounds byte accumulation; <= 0 selects
	// frame.DefaultMaxSize.
	MaxTelegramSize int
	// Key is an optional 16-byte AES key for ciphered envelopes.
	Key []byte
}

// Decoder turns a fed byte stream into aggregate results, one per
// telegram. It owns a single in-flight accumulation and must not be
// shared across concurrent feeds; the registry it reads is immutable
// and may be shared freely.
type Decoder struct {
	registry *Registry
	framer   *frame.Framer
	max      int
	key      []byte
}

// New builds a Decoder.
func New(cfg Config) (*Decoder, error) {
	reg := cfg.Registry
	if reg == nil {
		var err error
		if reg, err = Variant("nl"); err != nil {
			return nil, err
		}
	}
	max := cfg.MaxTelegramSize
	if max <= 0 {
		max = frame.DefaultMaxSize
	}
	d := &Decoder{registry: reg, framer: frame.New(max), max: max}
	if err := d.SetKey(cfg.Key); err != nil {
		return nil, err
	}
	return d, nil
}

// SetKey installs or replaces the decryption key; nil or empty
// disables decryption. The change takes effect on the next telegram.
func (d *Decoder) SetKey(key []byte) error {
	if len(key) == 0 {
		d.key = nil
		return nil
	}
	if len(key) != crypto.KeyLen {
		return fmt.Errorf("dsmr: key must be %d bytes, got %d", crypto.KeyLen, len(key))
	}
	d.key = append([]byte(nil), key...)
	return nil
}

// HasKey reports whether a decryption key is configured.
func (d *Decoder) HasKey() bool { return d.key != nil }

// Registry returns the field set the decoder dispatches against.
func (d *Decoder) Registry() *Registry { return d.registry }

// Reset discards any partially accumulated telegram.
func (d *Decoder) Reset() { d.framer.Reset() }

// Feed pushes a chunk of transport bytes into the decoder. It returns
// a non-nil Result when the chunk completed a telegram that decoded
// cleanly, (nil, nil) while the telegram is still incomplete, and an
// error when a completed telegram was rejected. After an error the
// decoder keeps accumulating from the following bytes; the caller
// just feeds on.
func (d *Decoder) Feed(chunk []byte) (*Result, error) {
	status, data := d.framer.Feed(chunk)
	switch status {
	case frame.Incomplete:
		return nil, nil
	case frame.Overflow:
		return nil, &FramingError{Msg: fmt.Sprintf("telegram exceeded %d bytes without a terminator", d.max)}
	default:
		return d.complete(data)
	}
}

// Decode decodes one complete telegram or ciphered envelope. Unlike
// Feed it rejects input that does not contain a whole telegram.
func (d *Decoder) Decode(raw []byte) (*Result, error) {
	status, data := frame.New(d.max).Feed(raw)
	switch status {
	case frame.Overflow:
		return nil, &FramingError{Msg: fmt.Sprintf("telegram exceeded %d bytes without a terminator", d.max)}
	case frame.Complete:
		return d.complete(data)
	default:
		return nil, &FramingError{Msg: "input does not contain a complete telegram"}
	}
}

// complete runs a fully accumulated telegram (or envelope) through
// decryption, checksum validation, tokenizing, and dispatch.
func (d *Decoder) complete(data []byte) (*Result, error) {
	if crypto.Encrypted(data) {
		plaintext, err := crypto.Decrypt(data, d.key)
		if err != nil {
			return nil, err
		}
		status, inner := frame.New(d.max).Feed(plaintext)
		if status != frame.Complete {
			return nil, &FramingError{Msg: "decrypted envelope does not contain a complete telegram"}
		}
		data = inner
	}
	if err := verifyChecksum(data); err != nil {
		return nil, err
	}
	tg, err := telegram.Split(data)
	if err != nil {
		return nil, err
	}
	return d.dispatch(tg)
}

// verifyChecksum locates the '!' terminator and checks the trailing
// hex digits against the checksum of everything up to and including
// the '!'.
func verifyChecksum(data []byte) error {
	bang := bytes.LastIndexByte(data, '!')
	if bang < 0 || bang+5 > len(data) {
		return &FramingError{Msg: "missing checksum terminator"}
	}
	return crc.Verify(data[:bang+1], data[bang+1:bang+5])
}

// dispatch scans the registry for each line and applies the matching
// field's parser. Lines with no registry match are expected (country
// sets deliberately overlap) and skipped; a matched line that fails
// its parser rejects the telegram.
func (d *Decoder) dispatch(tg *telegram.Telegram) (*Result, error) {
	res := newResult(d.registry, tg.Identification)
	for _, line := range tg.Lines {
		idx, ok := d.registry.lookup(line.ID)
		if !ok {
			continue
		}
		f := d.registry.fields[idx]
		if err := res.apply(idx, f, line.Values); err != nil {
			pos := line.Pos
			if perr, ok := err.(*parse.Error); ok {
				pos = line.ValuesPos + perr.Pos
			}
			return nil, &FieldError{Field: f.Name, Pos: pos, Err: err}
		}
	}
	return res, nil
}
