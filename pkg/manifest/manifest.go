// Package manifest holds the in-memory model of a student's curriculum
// calendar: courses, content types, holidays, and the date-indexed
// hierarchy of content entries.
package manifest

import (
	"sort"
)

// CurrentVersion is the manifest schema version written by this tool.
const CurrentVersion = 3

// Entry is a single reference to one content document.
type Entry struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Course is a course definition keyed by its identifier.
type Course struct {
	Label string `json:"label"`
}

// Manifest is the full per-student record. Days maps
// date -> course key -> type key -> ordered entries.
type Manifest struct {
	Version  int                                      `json:"version"`
	Courses  map[string]Course                        `json:"courses"`
	Types    map[string]string                        `json:"types"`
	Holidays []string                                 `json:"holidays"`
	Days     map[string]map[string]map[string][]Entry `json:"days"`
}

// New returns an empty manifest with defaults seeded.
func New() *Manifest {
	m := &Manifest{}
	m.EnsureBase()
	return m
}

// EnsureBase seeds missing base structure: version, default courses and
// types, the reserved note type, and empty days/holidays. Existing data is
// never overwritten; the operation is idempotent.
func (m *Manifest) EnsureBase() {
	if m.Version == 0 {
		m.Version = CurrentVersion
	}
	if m.Courses == nil {
		m.Courses = map[string]Course{
			"english": {Label: "英文"},
			"math":    {Label: "數學"},
		}
	}
	if m.Types == nil {
		m.Types = map[string]string{
			"material": "教材",
			"homework": "作業",
		}
	}
	if _, ok := m.Types[NoteType]; !ok {
		m.Types[NoteType] = "提醒"
	}
	if m.Days == nil {
		m.Days = map[string]map[string]map[string][]Entry{}
	}
	if m.Holidays == nil {
		m.Holidays = []string{}
	}
}

// Bucket returns the entries at (date, course, type) without creating
// intermediate maps. A missing bucket yields a nil slice.
func (m *Manifest) Bucket(date, course, typ string) []Entry {
	return m.Days[date][course][typ]
}

// ensureBucket creates intermediate maps on the path if absent and returns
// the current leaf list. Callers must write back via the maps so that an
// empty leaf is never left behind.
func (m *Manifest) ensureBucket(date, course, typ string) []Entry {
	if m.Days == nil {
		m.Days = map[string]map[string]map[string][]Entry{}
	}
	if m.Days[date] == nil {
		m.Days[date] = map[string]map[string][]Entry{}
	}
	if m.Days[date][course] == nil {
		m.Days[date][course] = map[string][]Entry{}
	}
	return m.Days[date][course][typ]
}

// Upsert inserts the entry at (date, course, type). If an entry with the
// same path already exists in the bucket its title is replaced in place,
// preserving position; otherwise the entry is appended.
func (m *Manifest) Upsert(date, course, typ string, e Entry) {
	list := m.ensureBucket(date, course, typ)
	for i := range list {
		if list[i].Path == e.Path {
			list[i].Title = e.Title
			m.Days[date][course][typ] = list
			return
		}
	}
	m.Days[date][course][typ] = append(list, e)
}

// Remove deletes the entry with the given path from (date, course, type)
// and prunes any containers left empty. The removed entry is returned so
// the caller can cascade a content file deletion.
func (m *Manifest) Remove(date, course, typ, path string) (Entry, bool) {
	list := m.Bucket(date, course, typ)
	for i := range list {
		if list[i].Path == path {
			removed := list[i]
			m.Days[date][course][typ] = append(list[:i:i], list[i+1:]...)
			m.prune(date, course, typ)
			return removed, true
		}
	}
	return Entry{}, false
}

// prune drops an empty leaf list, then its course map if now empty, then
// the date itself. Must run after every removal.
func (m *Manifest) prune(date, course, typ string) {
	perDate := m.Days[date]
	if perDate == nil {
		return
	}
	perCourse := perDate[course]
	if perCourse != nil && len(perCourse[typ]) == 0 {
		delete(perCourse, typ)
	}
	if len(perCourse) == 0 {
		delete(perDate, course)
	}
	if len(perDate) == 0 {
		delete(m.Days, date)
	}
}

// UsageCount sums entry counts across all dates and courses for one type
// key.
func (m *Manifest) UsageCount(typeKey string) int {
	count := 0
	for _, perDate := range m.Days {
		for _, perCourse := range perDate {
			count += len(perCourse[typeKey])
		}
	}
	return count
}

// ToggleHoliday adds the date to the holiday set if absent, removes it
// otherwise, and reports whether the date is now a holiday. Holiday marking
// is independent of whether entries exist for the date.
func (m *Manifest) ToggleHoliday(date string) bool {
	for i, h := range m.Holidays {
		if h == date {
			m.Holidays = append(m.Holidays[:i:i], m.Holidays[i+1:]...)
			return false
		}
	}
	m.Holidays = append(m.Holidays, date)
	sort.Strings(m.Holidays)
	return true
}

// IsHoliday reports whether the date is marked as a holiday.
func (m *Manifest) IsHoliday(date string) bool {
	for _, h := range m.Holidays {
		if h == date {
			return true
		}
	}
	return false
}

// Dates returns all dates with entries, sorted ascending. ISO dates sort
// correctly as strings.
func (m *Manifest) Dates() []string {
	dates := make([]string, 0, len(m.Days))
	for d := range m.Days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// LatestDate returns the most recent date carrying entries.
func (m *Manifest) LatestDate() (string, bool) {
	dates := m.Dates()
	if len(dates) == 0 {
		return "", false
	}
	return dates[len(dates)-1], true
}

// Walk visits every entry in sorted date order. Course and type keys are
// visited in sorted order as well so output is deterministic.
func (m *Manifest) Walk(fn func(date, course, typ string, e Entry)) {
	for _, d := range m.Dates() {
		perDate := m.Days[d]
		courses := make([]string, 0, len(perDate))
		for c := range perDate {
			courses = append(courses, c)
		}
		sort.Strings(courses)
		for _, c := range courses {
			perCourse := perDate[c]
			types := make([]string, 0, len(perCourse))
			for t := range perCourse {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				for _, e := range perCourse[t] {
					fn(d, c, t, e)
				}
			}
		}
	}
}

// CourseLabel returns the display label for a course key, falling back to
// the key itself.
func (m *Manifest) CourseLabel(key string) string {
	if c, ok := m.Courses[key]; ok && c.Label != "" {
		return c.Label
	}
	return key
}

// TypeLabel returns the display label for a type key, falling back to the
// key itself.
func (m *Manifest) TypeLabel(key string) string {
	if label, ok := m.Types[key]; ok && label != "" {
		return label
	}
	return key
}
