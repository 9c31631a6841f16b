package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// LoadFixture reads a fixture file verbatim.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// MustLoadFixture is LoadFixture that fails the test on error.
func MustLoadFixture(t testing.TB, path string) []byte {
	t.Helper()
	data, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", path, err)
	}
	return data
}
