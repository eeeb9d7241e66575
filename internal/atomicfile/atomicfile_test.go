package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	if err := Write(path, []byte("one"), 0o600); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := Write(path, []byte("two"), 0o600); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("expected %q, got %q", "two", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp files to be gone, found %d entries", len(entries))
	}
}
