// Package frame accumulates a byte stream into complete P1 telegrams.
// The framer is push-driven: the caller feeds chunks as they arrive
// from the transport and the framer reports when a whole telegram
// (or an encrypted envelope) has been collected.
package frame

import "github.com/zuidwijk/dsmr/internal/crypto"

// Status is the outcome of feeding bytes to the framer.
type Status int

const (
	// Incomplete means more bytes are needed.
	Incomplete Status = iota
	// Complete means one whole telegram was collected.
	Complete
	// Overflow means the accumulation limit was hit before a
	// terminator; the partial data was discarded.
	Overflow
)

// DefaultMaxSize bounds telegram accumulation. Real telegrams stay
// well under 2 kB; the limit mainly protects against a stream that
// never produces a terminator.
const DefaultMaxSize = 4096

type mode int

const (
	modeSearch mode = iota
	modeText
	modeEnvelope
)

// Framer collects bytes between a '/' start marker and a '!' + 4 hex
// digit + newline terminator. A 0xDB byte instead starts a ciphering
// envelope, which is sized from its header and collected whole. The
// framer owns a single in-flight accumulation and must not be shared
// across concurrent feeds.
type Framer struct {
	max     int
	pending []byte
	buf     []byte
	mode    mode
	bang    int // index of '!' in buf, -1 until seen
	need    int // total envelope size, 0 until derivable
}

// New returns a framer with the given accumulation limit; limit <= 0
// selects DefaultMaxSize.
func New(limit int) *Framer {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	return &Framer{max: limit, bang: -1}
}

// Reset discards all accumulated and pending bytes.
func (f *Framer) Reset() {
	f.pending = nil
	f.reset()
}

func (f *Framer) reset() {
	f.buf = nil
	f.mode = modeSearch
	f.bang = -1
	f.need = 0
}

// Feed appends a chunk and consumes buffered bytes until a telegram
// completes, the limit overflows, or input runs out. On Complete the
// returned slice holds the whole telegram ('/' through the checksum
// line) or envelope; bytes beyond it stay buffered for the next call.
func (f *Framer) Feed(chunk []byte) (Status, []byte) {
	f.pending = append(f.pending, chunk...)
	i := 0
	for i < len(f.pending) {
		b := f.pending[i]
		i++
		switch f.mode {
		case modeSearch:
			switch {
			case b == '/':
				f.buf = append(f.buf[:0], b)
				f.mode = modeText
				f.bang = -1
			case b == 0xDB:
				f.buf = append(f.buf[:0], b)
				f.mode = modeEnvelope
				f.need = 0
			}
		case modeText:
			if b == '/' {
				// Stray start marker: lock on to the new start.
				f.buf = append(f.buf[:0], b)
				f.bang = -1
				continue
			}
			f.buf = append(f.buf, b)
			if done := f.advanceText(b); done {
				telegram := f.buf
				f.reset()
				f.pending = f.pending[i:]
				return Complete, telegram
			}
			if len(f.buf) > f.max {
				f.reset()
				f.pending = f.pending[i:]
				return Overflow, nil
			}
		case modeEnvelope:
			f.buf = append(f.buf, b)
			if f.need == 0 && len(f.buf) >= crypto.HeaderLen {
				size, err := crypto.EnvelopeSize(f.buf)
				if err != nil {
					// Not an envelope after all; rescan the
					// collected bytes minus the 0xDB.
					rest := append(f.buf[1:], f.pending[i:]...)
					f.reset()
					f.pending = rest
					i = 0
					continue
				}
				f.need = size
			}
			if f.need > 0 {
				if f.need > f.max {
					f.reset()
					f.pending = f.pending[i:]
					return Overflow, nil
				}
				if len(f.buf) == f.need {
					env := f.buf
					f.reset()
					f.pending = f.pending[i:]
					return Complete, env
				}
			} else if len(f.buf) > f.max {
				f.reset()
				f.pending = f.pending[i:]
				return Overflow, nil
			}
		}
	}
	f.pending = f.pending[:0]
	return Incomplete, nil
}

// advanceText tracks the '!' + 4 hex digits + newline terminator and
// reports whether the buffer now holds a complete telegram.
func (f *Framer) advanceText(b byte) bool {
	if f.bang < 0 {
		if b == '!' {
			f.bang = len(f.buf) - 1
		}
		return false
	}
	tail := len(f.buf) - 1 - f.bang
	switch {
	case tail <= 4:
		if !isHex(b) {
			f.restartEnd(b)
		}
	case tail == 5:
		if b == '\n' {
			return true
		}
		if b != '\r' {
			f.restartEnd(b)
		}
	default:
		if b == '\n' {
			return true
		}
		f.restartEnd(b)
	}
	return false
}

// restartEnd abandons the current end-marker candidate; the byte that
// broke it may itself start a new one.
func (f *Framer) restartEnd(b byte) {
	if b == '!' {
		f.bang = len(f.buf) - 1
	} else {
		f.bang = -1
	}
}

func isHex(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'A' && b <= 'F' || b >= 'a' && b <= 'f'
}
