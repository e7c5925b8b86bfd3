package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tutorkit/lessonbook/pkg/manifest"
)

// Filesystem stores content files and manifest documents beneath a single
// root directory.
type Filesystem struct {
	root string
	seed *manifest.Seed
}

// NewFilesystem creates the root directory if needed and loads the optional
// seed file next to it.
func NewFilesystem(root string) (*Filesystem, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	seed, err := manifest.LoadSeed(filepath.Join(root, "seeds.yaml"))
	if err != nil {
		return nil, err
	}
	return &Filesystem{root: root, seed: seed}, nil
}

// resolve confines a manifest-relative path beneath the root. Absolute
// paths and ".." escapes are rejected before any I/O; the absolute check
// runs on the raw input, before cleaning can relativize it.
func (fs *Filesystem) resolve(path string) (string, error) {
	if strings.HasPrefix(path, "/") || filepath.IsAbs(path) {
		return "", &StorageError{Op: "resolve", Path: path, Err: errors.New("absolute path not allowed")}
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || clean == "" {
		return "", &StorageError{Op: "resolve", Path: path, Err: errors.New("empty path")}
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", &StorageError{Op: "resolve", Path: path, Err: errors.New("path escapes data directory")}
	}
	return filepath.Join(fs.root, clean), nil
}

// ReadContent returns the stored document text.
func (fs *Filesystem) ReadContent(path string) (string, error) {
	full, err := fs.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", &StorageError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

// WriteContent writes the document text, creating parent directories.
func (fs *Filesystem) WriteContent(path, text string) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(full, []byte(text), 0644); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// DeleteContent removes the document. Deleting a missing file is an error
// so callers can report it; they decide whether it is fatal.
func (fs *Filesystem) DeleteContent(path string) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return &StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// ReadManifest loads a student's manifest. A student with no manifest yet
// gets a freshly seeded default rather than an error.
func (fs *Filesystem) ReadManifest(studentID string) (*manifest.Manifest, error) {
	full, err := fs.resolve(ManifestPath(studentID))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		m := manifest.New()
		fs.seed.Apply(m)
		return m, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: ManifestPath(studentID), Err: err}
	}
	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &StorageError{Op: "read", Path: ManifestPath(studentID), Err: err}
	}
	m.EnsureBase()
	return &m, nil
}

// WriteManifest replaces a student's manifest document in full.
func (fs *Filesystem) WriteManifest(studentID string, m *manifest.Manifest) error {
	full, err := fs.resolve(ManifestPath(studentID))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: ManifestPath(studentID), Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return &StorageError{Op: "write", Path: ManifestPath(studentID), Err: err}
	}
	if err := os.WriteFile(full, append(data, '\n'), 0644); err != nil {
		return &StorageError{Op: "write", Path: ManifestPath(studentID), Err: err}
	}
	return nil
}
