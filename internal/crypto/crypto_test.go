package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"testing"
)

var (
	testKey   = []byte("0123456789ABCDEF")
	testTitle = []byte{0x53, 0x41, 0x47, 0x35, 0x00, 0x00, 0x0E, 0x4A}
	testFC    = []byte{0x00, 0x00, 0x00, 0x10}
)

func seal(t *testing.T, key, plaintext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes: %v", err)
	}
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagLen)
	if err != nil {
		t.Fatalf("gcm: %v", err)
	}
	nonce := append(append([]byte{}, testTitle...), testFC...)
	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	body := 1 + frameCounterLen + len(sealed)
	env := []byte{tagByte, systemTitleLen}
	env = append(env, testTitle...)
	env = append(env, 0x82, byte(body>>8), byte(body))
	env = append(env, securityByte)
	env = append(env, testFC...)
	env = append(env, sealed...)
	return env
}

func TestDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("/ABC5\r\n\r\n1-0:1.8.1(000123.456*kWh)\r\n!A1B2\r\n")
	env := seal(t, testKey, plaintext)

	size, err := EnvelopeSize(env)
	if err != nil {
		t.Fatalf("EnvelopeSize: %v", err)
	}
	if size != len(env) {
		t.Fatalf("size = %d, want %d", size, len(env))
	}
	got, err := Decrypt(env, testKey)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("plaintext mismatch: %q", got)
	}
}

func TestDecryptMissingKey(t *testing.T) {
	env := seal(t, testKey, []byte("/ABC5\r\n\r\n!0000\r\n"))
	if _, err := Decrypt(env, nil); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	env := seal(t, testKey, []byte("/ABC5\r\n\r\n!0000\r\n"))
	if _, err := Decrypt(env, []byte("FEDCBA9876543210")); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	env := seal(t, testKey, []byte("/ABC5\r\n\r\n!0000\r\n"))
	env[len(env)-1] ^= 0x01
	if _, err := Decrypt(env, testKey); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptMalformedEnvelope(t *testing.T) {
	env := seal(t, testKey, []byte("/ABC5\r\n\r\n!0000\r\n"))

	short := env[:HeaderLen-1]
	if _, err := Decrypt(short, testKey); err == nil {
		t.Fatal("expected error for truncated header")
	}

	badMarker := append([]byte{}, env...)
	badMarker[10] = 0x81
	if _, err := Decrypt(badMarker, testKey); err == nil {
		t.Fatal("expected error for bad length marker")
	}

	truncated := env[:len(env)-3]
	if _, err := Decrypt(truncated, testKey); err == nil {
		t.Fatal("expected error for truncated body")
	}
}

func TestDecryptBadKeyLength(t *testing.T) {
	env := seal(t, testKey, []byte("/ABC5\r\n\r\n!0000\r\n"))
	if _, err := Decrypt(env, []byte("short")); err == nil {
		t.Fatal("expected error for wrong key length")
	}
}

func TestEncryptedDetection(t *testing.T) {
	if Encrypted([]byte("/ABC5\r\n")) {
		t.Fatal("plaintext telegram misdetected as envelope")
	}
	if !Encrypted([]byte{tagByte, systemTitleLen}) {
		t.Fatal("envelope not detected")
	}
	if Encrypted(nil) {
		t.Fatal("empty buffer misdetected")
	}
}
