package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore keeps artifacts under a root directory, one subdirectory per
// Kind. Writes are append-only by distinct filenames; same-name writes
// overwrite (last write wins).
type DiskStore struct {
	root string
}

// NewDiskStore creates a store rooted at dir. Subdirectories are created
// lazily on first write.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{root: dir}
}

// Locate returns the store-relative location for kind/name. The name is
// reduced to its base so callers cannot escape the artifact area.
func (s *DiskStore) Locate(kind Kind, name string) string {
	return filepath.ToSlash(filepath.Join(string(kind), filepath.Base(name)))
}

// AbsPath resolves a location to an absolute path under the store root.
func (s *DiskStore) AbsPath(location string) string {
	return filepath.Join(s.root, filepath.FromSlash(location))
}

// Put writes the reader's bytes under kind/name, creating the area directory
// if absent.
func (s *DiskStore) Put(kind Kind, name string, r io.Reader) (string, error) {
	location := s.Locate(kind, name)
	absPath := s.AbsPath(location)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	out, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("creating artifact file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("finalising artifact: %w", err)
	}

	return location, nil
}

// Exists reports whether a regular file exists at location.
func (s *DiskStore) Exists(location string) bool {
	info, err := os.Stat(s.AbsPath(location))
	return err == nil && info.Mode().IsRegular()
}

// Size returns the byte size of the artifact at location.
func (s *DiskStore) Size(location string) (int64, error) {
	info, err := os.Stat(s.AbsPath(location))
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("artifact %s is not a regular file", location)
	}
	return info.Size(), nil
}

// Remove deletes the artifact at location, tolerating files that are already
// gone (failure paths clean up eagerly and may race with each other).
func (s *DiskStore) Remove(location string) error {
	if err := os.Remove(s.AbsPath(location)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
