// Package crypto decrypts the DLMS push envelope some meters (notably
// Luxembourg's Smarty) wrap around the P1 telegram. Detection is based
// on envelope shape, never on a configured key, so plaintext and
// encrypted telegrams can share one stream without caller-side mode
// switching.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

var (
	ErrKeyRequired = errors.New("crypto: encrypted telegram: decryption key required")
	ErrAuthFailed  = errors.New("crypto: encrypted telegram: authentication failed (wrong key or corrupted data)")
)

// Envelope layout:
//
//	0xDB | 0x08 | system title (8) | 0x82 | len hi | len lo |
//	0x30 | frame counter (4) | ciphertext | GCM tag (12)
//
// The 16-bit big-endian length counts from the security byte through
// the tag.
const (
	tagByte         = 0xDB
	securityByte    = 0x30
	systemTitleLen  = 8
	frameCounterLen = 4
	gcmTagLen       = 12

	// HeaderLen is the number of bytes needed to size a whole envelope.
	HeaderLen = 13

	// minBodyLen is the smallest valid length field: security byte,
	// frame counter and tag around an empty ciphertext.
	minBodyLen = 1 + frameCounterLen + gcmTagLen
)

// KeyLen is the required symmetric key size (AES-128).
const KeyLen = 16

// Encrypted reports whether buf starts a ciphering envelope. A
// plaintext telegram starts with '/', which can never be 0xDB.
func Encrypted(buf []byte) bool {
	return len(buf) > 0 && buf[0] == tagByte
}

// HeaderValid reports whether the first HeaderLen bytes carry the
// fixed markers of an envelope header.
func HeaderValid(header []byte) bool {
	return len(header) >= HeaderLen && header[0] == tagByte && header[1] == systemTitleLen && header[10] == 0x82
}

// EnvelopeSize derives the total envelope size from a complete header.
func EnvelopeSize(header []byte) (int, error) {
	if !HeaderValid(header) {
		return 0, fmt.Errorf("crypto: malformed envelope header")
	}
	body := int(header[11])<<8 | int(header[12])
	if body < minBodyLen {
		return 0, fmt.Errorf("crypto: envelope length %d too small", body)
	}
	return HeaderLen + body, nil
}

// Decrypt opens a complete envelope and returns the plaintext
// telegram. The nonce is the system title concatenated with the frame
// counter; the tag is 12 bytes, as the DSMR ciphering profile
// prescribes.
func Decrypt(env []byte, key []byte) ([]byte, error) {
	size, err := EnvelopeSize(env)
	if err != nil {
		return nil, err
	}
	if len(env) != size {
		return nil, fmt.Errorf("crypto: envelope size mismatch: have %d bytes, header declares %d", len(env), size)
	}
	if env[HeaderLen] != securityByte {
		return nil, fmt.Errorf("crypto: unexpected security byte 0x%02X", env[HeaderLen])
	}
	if len(key) == 0 {
		return nil, ErrKeyRequired
	}
	if len(key) != KeyLen {
		return nil, fmt.Errorf("crypto: key must be %d bytes, got %d", KeyLen, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagLen)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	nonce := make([]byte, 0, systemTitleLen+frameCounterLen)
	nonce = append(nonce, env[2:2+systemTitleLen]...)
	nonce = append(nonce, env[HeaderLen+1:HeaderLen+1+frameCounterLen]...)
	ciphertext := env[HeaderLen+1+frameCounterLen:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
