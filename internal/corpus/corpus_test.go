package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Karthik\nSoftware Engineer\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if text != "Karthik\nSoftware Engineer\n" {
		t.Fatalf("unexpected corpus text: %q", text)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("  \n\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for blank file")
	}
}
