package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// LoadGolden decodes the JSON golden file at path into v.
func LoadGolden(t testing.TB, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
}
