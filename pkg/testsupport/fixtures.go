package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// ReadFixture returns the contents of a testdata file or fails the test.
func ReadFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// DecodeGolden unmarshals a JSON golden file into v or fails the test.
func DecodeGolden(tb testing.TB, path string, v any) {
	tb.Helper()
	if err := json.Unmarshal(ReadFixture(tb, path), v); err != nil {
		tb.Fatalf("decode golden %s: %v", path, err)
	}
}
