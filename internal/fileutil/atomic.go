// Package fileutil provides file system utilities.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile is a file that only appears at its final path once Commit
// succeeds. Until then data goes to a temporary file in the same directory;
// Abort (or a failed Commit) removes it.
//
// The atomic rename is guaranteed by POSIX. Readers will observe:
// - No file, or the previous file (not ready)
// - Complete file (fully written and renamed)
// - Never a partial file
type AtomicFile struct {
	*os.File
	path string
	perm os.FileMode
	done bool
}

// CreateAtomic starts writing filename atomically.
func CreateAtomic(filename string, perm os.FileMode) (*AtomicFile, error) {
	// Create temp file in same directory to ensure it's on same filesystem
	// (cross-filesystem renames are not atomic)
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmpFile, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &AtomicFile{File: tmpFile, path: filename, perm: perm}, nil
}

// Path returns the final path of the file.
func (f *AtomicFile) Path() string {
	return f.path
}

// Commit syncs the temporary file and renames it over the final path.
func (f *AtomicFile) Commit() (err error) {
	if f.done {
		return fmt.Errorf("atomic file %s already closed", f.path)
	}
	f.done = true

	tmpPath := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	// Sync to ensure data is on disk
	if err := f.Sync(); err != nil {
		f.File.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	// Close before rename
	if err := f.File.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Set correct permissions
	if err := os.Chmod(tmpPath, f.perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Atomic rename (POSIX guarantees atomicity)
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Abort discards everything written so far. It is a no-op after Commit, so
// it is safe to defer.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	os.Remove(f.Name())
}

// WriteFileAtomic writes data to a file atomically by writing to a temporary file
// and then renaming it to the final path. This ensures readers never see partial
// writes - they see either no file or the complete file.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	f, err := CreateAtomic(filename, perm)
	if err != nil {
		return err
	}
	defer f.Abort()

	// Write data to temp file
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	return f.Commit()
}
