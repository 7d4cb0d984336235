// Package testutil loads test fixtures shared between packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Load returns the content of a testdata file relative to the calling
// package or one of its parents.
func Load(t *testing.T, rel string) []byte {
	t.Helper()
	candidates := []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
	}
	for _, path := range candidates {
		if data, err := os.ReadFile(path); err == nil {
			return data
		}
	}
	t.Fatalf("unable to locate testdata file %s", rel)
	return nil
}

// LoadText returns a testdata file as a string with CRLF line endings
// regardless of how the fixture was checked out.
func LoadText(t *testing.T, rel string) string {
	t.Helper()
	text := string(Load(t, rel))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", "\r\n")
}
