package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_PutAndRead(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	location, err := s.Put(KindAudio, "episode.mp3", strings.NewReader("audio bytes"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if location != "audio/episode.mp3" {
		t.Errorf("Expected location 'audio/episode.mp3', got %q", location)
	}

	if !s.Exists(location) {
		t.Error("Expected artifact to exist after Put")
	}

	size, err := s.Size(location)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != int64(len("audio bytes")) {
		t.Errorf("Expected size %d, got %d", len("audio bytes"), size)
	}

	content, err := os.ReadFile(s.AbsPath(location))
	if err != nil {
		t.Fatalf("Reading artifact back failed: %v", err)
	}
	if string(content) != "audio bytes" {
		t.Errorf("Expected 'audio bytes', got %q", content)
	}
}

func TestDiskStore_SameNameOverwrites(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	if _, err := s.Put(KindTranscripts, "talk.txt", strings.NewReader("first")); err != nil {
		t.Fatalf("First Put failed: %v", err)
	}
	location, err := s.Put(KindTranscripts, "talk.txt", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Second Put failed: %v", err)
	}

	content, err := os.ReadFile(s.AbsPath(location))
	if err != nil {
		t.Fatalf("Reading artifact back failed: %v", err)
	}
	if string(content) != "second" {
		t.Errorf("Expected last write to win, got %q", content)
	}
}

func TestDiskStore_LocateConfinesNames(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	location := s.Locate(KindAudio, "../../etc/passwd")
	if location != "audio/passwd" {
		t.Errorf("Expected escape attempt reduced to 'audio/passwd', got %q", location)
	}
}

func TestDiskStore_SizeOfMissingArtifact(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	if _, err := s.Size("audio/nope.mp3"); err == nil {
		t.Error("Expected error for missing artifact, got nil")
	}
}

func TestDiskStore_RemoveTolerant(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	location, err := s.Put(KindAudio, "gone.mp3", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := s.Remove(location); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if s.Exists(location) {
		t.Error("Expected artifact gone after Remove")
	}

	// Removing again must not fail.
	if err := s.Remove(location); err != nil {
		t.Errorf("Second Remove failed: %v", err)
	}
}

func TestDiskStore_ExistsIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	s := NewDiskStore(root)

	if err := os.MkdirAll(filepath.Join(root, "audio", "dir.mp3"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if s.Exists("audio/dir.mp3") {
		t.Error("Expected Exists to be false for a directory")
	}
}
