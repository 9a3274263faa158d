package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, size int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.bin")

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 256)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestContentHash_SmallFileHashesWholeFile(t *testing.T) {
	pathA := writeTempFile(t, 10*1024)
	pathB := writeTempFile(t, 10*1024)

	hashA, err := ContentHash(pathA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hashB, err := ContentHash(pathB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashA != hashB {
		t.Error("expected identical small files to hash identically")
	}
}

func TestContentHash_LargeFileSamplesWindows(t *testing.T) {
	path := writeTempFile(t, 100*1024)

	hash1, err := ContentHash(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash2, err := ContentHash(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash1 != hash2 {
		t.Error("expected repeated hashing of the same file to be consistent")
	}
}

func TestContentHash_DifferentContentDiffers(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.bin")
	pathB := filepath.Join(dir, "b.bin")

	if err := os.WriteFile(pathA, []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"), 0o644); err != nil {
		t.Fatal(err)
	}

	hashA, err := ContentHash(pathA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hashB, err := ContentHash(pathB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashA == hashB {
		t.Error("expected different content to hash differently")
	}
}
