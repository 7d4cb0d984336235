// Package options holds shared option parsing helpers.
package options

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/zuidwijk/dsmr/internal/crypto"
)

// ParseKeyHex validates and decodes a 32-hex-digit AES key string. An
// empty input yields a nil key, which disables decryption.
func ParseKeyHex(input string) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	clean := stripWhitespace(input)
	if len(clean) != crypto.KeyLen*2 {
		return nil, fmt.Errorf("decryption key must be %d hex digits (%d bytes), got %d", crypto.KeyLen*2, crypto.KeyLen, len(clean))
	}
	dst := make([]byte, crypto.KeyLen)
	if _, err := hex.Decode(dst, []byte(clean)); err != nil {
		return nil, fmt.Errorf("invalid key hex: %w", err)
	}
	return dst, nil
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
