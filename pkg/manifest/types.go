package manifest

import (
	"fmt"
	"regexp"
)

// NoteType is the reserved content type whose documents carry escaped plain
// text instead of raw HTML. Its existence is guaranteed by EnsureBase; it is
// deletable like any other type when unused.
const NoteType = "note"

var typeKeyPattern = regexp.MustCompile(`^[a-z0-9_-]{2,}$`)

// ValidationError reports malformed input rejected before any mutation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// InUseError reports a type deletion blocked by a nonzero usage count.
type InUseError struct {
	Key   string
	Count int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("type %q is referenced by %d entries and cannot be deleted", e.Key, e.Count)
}

// DefineType upserts a content type definition. Keys are restricted to
// lowercase alphanumerics, underscore and hyphen, minimum length 2. An empty
// label defaults to the key.
func (m *Manifest) DefineType(key, label string) error {
	if !typeKeyPattern.MatchString(key) {
		return &ValidationError{Field: "type key", Msg: "must be lowercase alphanumerics, _ or -, at least 2 characters"}
	}
	if label == "" {
		label = key
	}
	if m.Types == nil {
		m.Types = map[string]string{}
	}
	m.Types[key] = label
	return nil
}

// DeleteType removes a content type definition. Deletion fails while any
// entry still uses the type. Stale empty leaf buckets under the key are
// dropped defensively; pruning should already have removed them, so the
// sweep is idempotent against old data.
func (m *Manifest) DeleteType(key string) error {
	if _, ok := m.Types[key]; !ok {
		return &ValidationError{Field: "type key", Msg: fmt.Sprintf("unknown type %q", key)}
	}
	if n := m.UsageCount(key); n > 0 {
		return &InUseError{Key: key, Count: n}
	}
	delete(m.Types, key)
	for date, perDate := range m.Days {
		for course, perCourse := range perDate {
			if list, ok := perCourse[key]; ok && len(list) == 0 {
				delete(perCourse, key)
				m.prune(date, course, key)
			}
		}
	}
	return nil
}
