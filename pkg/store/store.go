// Package store persists manifest documents and rendered content files.
// Paths handed to a ContentStore are manifest-relative identifiers, not
// absolute filesystem locations.
package store

import (
	"fmt"

	"github.com/tutorkit/lessonbook/pkg/manifest"
)

// ContentStore reads, writes and deletes content documents by their
// manifest path.
type ContentStore interface {
	ReadContent(path string) (string, error)
	WriteContent(path, text string) error
	DeleteContent(path string) error
}

// ManifestStore reads and replaces whole manifest documents per student.
// Manifests are always written in full, never patched in place.
type ManifestStore interface {
	ReadManifest(studentID string) (*manifest.Manifest, error)
	WriteManifest(studentID string, m *manifest.Manifest) error
}

// Store combines both collaborator contracts; the filesystem and memory
// drivers implement it.
type Store interface {
	ContentStore
	ManifestStore
}

// StorageError reports a failed read, write or delete.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ManifestPath returns the storage path of a student's manifest document.
func ManifestPath(studentID string) string {
	return "students/" + studentID + "/manifest.json"
}
