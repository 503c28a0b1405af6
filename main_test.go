package main

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveMusicPicksFirstSupportedFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "b-side.ogg"))
	touch(t, filepath.Join(dir, "A-side.MP3"))

	got, err := resolveMusic(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "A-side.MP3" {
		t.Fatalf("expected A-side.MP3, got %s", got)
	}
}

func TestResolveMusicErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := resolveMusic(dir); err == nil {
		t.Fatal("expected error for directory without audio")
	}
	txt := filepath.Join(dir, "notes.txt")
	touch(t, txt)
	if _, err := resolveMusic(txt); err == nil {
		t.Fatal("expected error for unsupported file")
	}
	if _, err := resolveMusic(filepath.Join(dir, "missing.mp3")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if got, err := resolveMusic(""); got != "" || err != nil {
		t.Fatalf("expected empty result, got %q %v", got, err)
	}
}
