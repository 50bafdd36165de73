package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"grabbot/internal/fileutil"
)

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.mp4")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	size, err := fileutil.FileSize(path)
	if err != nil {
		t.Fatalf("FileSize failed: %v", err)
	}
	if size != 10 {
		t.Fatalf("expected size 10, got %d", size)
	}
}

func TestFileSizeMissing(t *testing.T) {
	if _, err := fileutil.FileSize(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.mp3")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := fileutil.RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists failed: %v", err)
	}
	if fileutil.Exists(path) {
		t.Fatal("expected file removed")
	}
	if err := fileutil.RemoveIfExists(path); err != nil {
		t.Fatalf("second RemoveIfExists should be a no-op, got %v", err)
	}
}
