package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "R.generated.swift")

	written, err := WriteIfChanged(path, []byte("a"), 0o644)
	if err != nil || !written {
		t.Fatalf("expected first write, got written=%v err=%v", written, err)
	}

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}
	written, err = WriteIfChanged(path, []byte("a"), 0o644)
	if err != nil || written {
		t.Fatalf("expected no write for identical bytes, got written=%v err=%v", written, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(past) {
		t.Fatalf("identical content must leave mtime untouched")
	}

	written, err = WriteIfChanged(path, []byte("b"), 0o644)
	if err != nil || !written {
		t.Fatalf("expected rewrite, got written=%v err=%v", written, err)
	}
}

func TestDigest(t *testing.T) {
	t.Parallel()
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Digest(nil); got != empty {
		t.Fatalf("unexpected digest %q", got)
	}
	if Digest([]byte("a")) == Digest([]byte("b")) {
		t.Fatal("digests must differ")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")
	if err := WriteFileAtomic(path, []byte("one"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Fatalf("unexpected content %q", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}
