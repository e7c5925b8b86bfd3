package store

import (
	"errors"

	"github.com/tutorkit/lessonbook/pkg/manifest"
)

// Memory is a map-backed store used by tests and dry runs. Manifests are
// deep-copied through JSON-free cloning so callers cannot alias the stored
// state.
type Memory struct {
	Contents  map[string]string
	Manifests map[string]*manifest.Manifest

	// FailWrites and FailDeletes force StorageErrors to exercise the
	// fatal/best-effort split in callers.
	FailWrites  bool
	FailDeletes bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		Contents:  map[string]string{},
		Manifests: map[string]*manifest.Manifest{},
	}
}

func (s *Memory) ReadContent(path string) (string, error) {
	text, ok := s.Contents[path]
	if !ok {
		return "", &StorageError{Op: "read", Path: path, Err: errors.New("not found")}
	}
	return text, nil
}

func (s *Memory) WriteContent(path, text string) error {
	if s.FailWrites {
		return &StorageError{Op: "write", Path: path, Err: errors.New("write disabled")}
	}
	s.Contents[path] = text
	return nil
}

func (s *Memory) DeleteContent(path string) error {
	if s.FailDeletes {
		return &StorageError{Op: "delete", Path: path, Err: errors.New("delete disabled")}
	}
	if _, ok := s.Contents[path]; !ok {
		return &StorageError{Op: "delete", Path: path, Err: errors.New("not found")}
	}
	delete(s.Contents, path)
	return nil
}

func (s *Memory) ReadManifest(studentID string) (*manifest.Manifest, error) {
	m, ok := s.Manifests[studentID]
	if !ok {
		return manifest.New(), nil
	}
	return cloneManifest(m), nil
}

func (s *Memory) WriteManifest(studentID string, m *manifest.Manifest) error {
	if s.FailWrites {
		return &StorageError{Op: "write", Path: ManifestPath(studentID), Err: errors.New("write disabled")}
	}
	s.Manifests[studentID] = cloneManifest(m)
	return nil
}

func cloneManifest(m *manifest.Manifest) *manifest.Manifest {
	out := &manifest.Manifest{
		Version:  m.Version,
		Courses:  make(map[string]manifest.Course, len(m.Courses)),
		Types:    make(map[string]string, len(m.Types)),
		Holidays: append([]string(nil), m.Holidays...),
		Days:     make(map[string]map[string]map[string][]manifest.Entry, len(m.Days)),
	}
	for k, v := range m.Courses {
		out.Courses[k] = v
	}
	for k, v := range m.Types {
		out.Types[k] = v
	}
	for date, perDate := range m.Days {
		outDate := make(map[string]map[string][]manifest.Entry, len(perDate))
		for course, perCourse := range perDate {
			outCourse := make(map[string][]manifest.Entry, len(perCourse))
			for typ, list := range perCourse {
				outCourse[typ] = append([]manifest.Entry(nil), list...)
			}
			outDate[course] = outCourse
		}
		out.Days[date] = outDate
	}
	return out
}
