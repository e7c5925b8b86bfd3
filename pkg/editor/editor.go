// Package editor drives the edit-and-relocate reconciliation for curriculum
// content: deciding whether a save is an in-place update, a fresh insertion,
// a relocation, or a fork, and issuing the manifest and content store
// operations in an order that keeps the manifest authoritative.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tutorkit/lessonbook/pkg/filter"
	"github.com/tutorkit/lessonbook/pkg/manifest"
	"github.com/tutorkit/lessonbook/pkg/render"
	"github.com/tutorkit/lessonbook/pkg/store"
)

// Disposition is the caller's answer to the move-vs-fork question. The
// decision is a user-facing confirmation, never silently inferred:
// DispositionAuto on a detected relocation yields ErrNeedsDisposition.
type Disposition string

const (
	DispositionAuto Disposition = "auto"
	DispositionMove Disposition = "move"
	DispositionFork Disposition = "fork"
)

// ErrNeedsDisposition signals that the save changed the edited entry's
// coordinates and the caller must choose between move and fork.
var ErrNeedsDisposition = errors.New("date/course/type/filename changed: choose --move (relocate, removing the original) or --fork (keep the original, add a copy)")

// Outcome describes what a completed save did.
type Outcome string

const (
	OutcomeInserted     Outcome = "inserted"
	OutcomeUpdated      Outcome = "updated"
	OutcomeMetadataOnly Outcome = "metadata-only"
	OutcomeMoved        Outcome = "moved"
	OutcomeForked       Outcome = "forked"
)

// Form carries the save input: target coordinates plus the raw body.
type Form struct {
	Date     string
	Course   string
	Type     string
	Title    string
	Filename string
	Body     string
}

// Result reports a completed save.
type Result struct {
	Outcome Outcome
	Path    string
}

// Controller owns one student's manifest and edit session. It is
// constructed per active student; the mutex serializes saves so at most one
// is in flight.
type Controller struct {
	mu      sync.Mutex
	student string
	store   store.Store
	m       *manifest.Manifest
	session *Session
	log     *logrus.Logger
}

// NewController loads the student's manifest and any persisted edit
// session.
func NewController(studentID string, st store.Store, log *logrus.Logger) (*Controller, error) {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	m, err := st.ReadManifest(studentID)
	if err != nil {
		return nil, fmt.Errorf("load manifest for %s: %w", studentID, err)
	}
	c := &Controller{student: studentID, store: st, m: m, log: log}
	c.loadSession()
	return c, nil
}

// Student returns the active student id.
func (c *Controller) Student() string { return c.student }

// Manifest exposes the in-memory manifest for read-side rendering.
func (c *Controller) Manifest() *manifest.Manifest { return c.m }

// Session returns the in-flight edit session, or nil when idle.
func (c *Controller) Session() *Session { return c.session }

// TargetPath derives the content path the form would save to, applying the
// filename rules (slug from date+title when blank, date prefix rewrite,
// default extension).
func (c *Controller) TargetPath(f Form) (string, string) {
	name := normalizeFilename(f.Filename, f.Date, f.Title)
	return contentPath(c.student, f.Course, name), name
}

// Classification is the pure part of the save decision, computed before
// any mutation so the caller can prompt for a disposition.
type Classification string

const (
	ClassifyInsert   Classification = "insert"
	ClassifyUpdate   Classification = "update"
	ClassifyRelocate Classification = "relocate"
)

// Classify compares the form's target coordinates against the edit
// session. Any single differing coordinate counts as a relocation.
func (c *Controller) Classify(f Form) (Classification, string) {
	path, _ := c.TargetPath(f)
	if c.session == nil {
		return ClassifyInsert, path
	}
	s := c.session
	if s.Date != f.Date || s.Course != f.Course || s.Type != f.Type || s.Path != path {
		return ClassifyRelocate, path
	}
	return ClassifyUpdate, path
}

func (c *Controller) validate(f Form) error {
	if _, err := filter.ParseDate(f.Date); err != nil {
		return &manifest.ValidationError{Field: "date", Msg: err.Error()}
	}
	if _, ok := c.m.Courses[f.Course]; !ok {
		return &manifest.ValidationError{Field: "course", Msg: fmt.Sprintf("unknown course %q", f.Course)}
	}
	if _, ok := c.m.Types[f.Type]; !ok {
		return &manifest.ValidationError{Field: "type", Msg: fmt.Sprintf("unknown type %q", f.Type)}
	}
	return nil
}

// Save runs the reconciliation algorithm. Ordering within one save is
// content write, then manifest write, then old-content delete: the manifest
// must never reference a path whose write has not succeeded, and a leftover
// old file is a cleanup nuisance rather than a correctness violation.
func (c *Controller) Save(f Form, d Disposition) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validate(f); err != nil {
		return nil, err
	}

	path, _ := c.TargetPath(f)
	body := strings.TrimSpace(f.Body)
	hasNewContent := body != ""
	title := strings.TrimSpace(f.Title)

	if c.session == nil {
		if !hasNewContent {
			return nil, &manifest.ValidationError{Field: "content", Msg: "nothing to persist: supply content or load an entry for editing first"}
		}
		if err := c.writeRendered(path, f, title, body); err != nil {
			return nil, err
		}
		c.m.Upsert(f.Date, f.Course, f.Type, manifest.Entry{Title: title, Path: path})
		if err := c.store.WriteManifest(c.student, c.m); err != nil {
			return nil, err
		}
		return &Result{Outcome: OutcomeInserted, Path: path}, nil
	}

	s := *c.session
	changedKeys := s.Date != f.Date || s.Course != f.Course || s.Type != f.Type || s.Path != path

	if !changedKeys {
		if hasNewContent {
			if err := c.writeRendered(path, f, title, body); err != nil {
				return nil, err
			}
		}
		c.m.Upsert(f.Date, f.Course, f.Type, manifest.Entry{Title: title, Path: path})
		if err := c.store.WriteManifest(c.student, c.m); err != nil {
			return nil, err
		}
		c.clearSession()
		if hasNewContent {
			return &Result{Outcome: OutcomeUpdated, Path: path}, nil
		}
		return &Result{Outcome: OutcomeMetadataOnly, Path: path}, nil
	}

	switch d {
	case DispositionMove:
		return c.saveMove(f, s, path, title, body, hasNewContent)
	case DispositionFork:
		return c.saveFork(f, s, path, title, body, hasNewContent)
	default:
		return nil, ErrNeedsDisposition
	}
}

// saveFork leaves the original record untouched and materializes the new
// one. When no new content was supplied the original document is duplicated
// to the target path first; a failed duplication aborts before any manifest
// mutation so no entry ever points at unwritten content.
func (c *Controller) saveFork(f Form, s Session, path, title, body string, hasNewContent bool) (*Result, error) {
	if hasNewContent {
		if err := c.writeRendered(path, f, title, body); err != nil {
			return nil, err
		}
	} else if s.Path != path {
		if err := c.duplicate(s.Path, path); err != nil {
			return nil, fmt.Errorf("fork: %w", err)
		}
	}
	c.m.Upsert(f.Date, f.Course, f.Type, manifest.Entry{Title: title, Path: path})
	if err := c.store.WriteManifest(c.student, c.m); err != nil {
		return nil, err
	}
	c.clearSession()
	return &Result{Outcome: OutcomeForked, Path: path}, nil
}

// saveMove relocates the edited entry: the body reaches the new path (new
// content, or a duplicate of the old document), the original manifest
// record is removed with pruning, and only after the manifest write is the
// stale file deleted, best-effort.
func (c *Controller) saveMove(f Form, s Session, path, title, body string, hasNewContent bool) (*Result, error) {
	if hasNewContent {
		if err := c.writeRendered(path, f, title, body); err != nil {
			return nil, err
		}
	} else if s.Path != path {
		if err := c.duplicate(s.Path, path); err != nil {
			return nil, fmt.Errorf("move: %w", err)
		}
	}
	c.m.Remove(s.Date, s.Course, s.Type, s.Path)
	c.m.Upsert(f.Date, f.Course, f.Type, manifest.Entry{Title: title, Path: path})
	if err := c.store.WriteManifest(c.student, c.m); err != nil {
		return nil, err
	}
	if s.Path != path {
		if err := c.store.DeleteContent(s.Path); err != nil {
			c.log.Warnf("delete old content %s: %v", s.Path, err)
		}
	}
	c.clearSession()
	return &Result{Outcome: OutcomeMoved, Path: path}, nil
}

func (c *Controller) writeRendered(path string, f Form, title, body string) error {
	doc := render.Render(f.Type, title, c.student, f.Date, body)
	return c.store.WriteContent(path, doc)
}

// duplicate copies the stored document from old to new path, read first so
// a missing original fails the whole save.
func (c *Controller) duplicate(oldPath, newPath string) error {
	raw, err := c.store.ReadContent(oldPath)
	if err != nil {
		return fmt.Errorf("read original content: %w", err)
	}
	if err := c.store.WriteContent(newPath, raw); err != nil {
		return fmt.Errorf("write duplicated content: %w", err)
	}
	return nil
}

// LoadForEdit reads an existing entry's document into a form and records
// the edit session. A failed content read still arms the session with the
// title and filename so metadata can be fixed, matching the admin page's
// behavior.
func (c *Controller) LoadForEdit(date, course, typ, path string) (Form, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entry *manifest.Entry
	for _, e := range c.m.Bucket(date, course, typ) {
		if e.Path == path {
			entry = &e
			break
		}
	}
	if entry == nil {
		return Form{}, &manifest.ValidationError{Field: "entry", Msg: fmt.Sprintf("no entry at %s/%s/%s with path %s", date, course, typ, path)}
	}

	form := Form{
		Date:     date,
		Course:   course,
		Type:     typ,
		Title:    entry.Title,
		Filename: baseName(path),
	}
	if doc, err := c.store.ReadContent(path); err == nil {
		form.Body = render.ExtractBody(typ, doc)
	} else {
		c.log.Warnf("read content for editing %s: %v", path, err)
	}

	c.session = &Session{Date: date, Course: course, Type: typ, Path: path}
	if err := c.persistSession(); err != nil {
		return form, err
	}
	return form, nil
}

// Reload restores the form from the original session coordinates,
// discarding any in-form changes.
func (c *Controller) Reload() (Form, error) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return Form{}, &manifest.ValidationError{Field: "session", Msg: "no edit in progress"}
	}
	return c.LoadForEdit(s.Date, s.Course, s.Type, s.Path)
}

// ExitEdit clears the edit session without saving.
func (c *Controller) ExitEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSession()
}

// DeleteEntry removes an entry from the manifest (pruning empty
// containers), persists the manifest, then deletes the content file
// best-effort. A session tracking the deleted path is cleared.
func (c *Controller) DeleteEntry(date, course, typ, path string) (manifest.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed, ok := c.m.Remove(date, course, typ, path)
	if !ok {
		return manifest.Entry{}, &manifest.ValidationError{Field: "entry", Msg: fmt.Sprintf("no entry at %s/%s/%s with path %s", date, course, typ, path)}
	}
	if err := c.store.WriteManifest(c.student, c.m); err != nil {
		return manifest.Entry{}, err
	}
	if removed.Path != "" {
		if err := c.store.DeleteContent(removed.Path); err != nil {
			c.log.Warnf("delete content %s: %v", removed.Path, err)
		}
	}
	if c.session != nil && c.session.Path == path {
		c.clearSession()
	}
	return removed, nil
}

// Item is one row of a filtered listing.
type Item struct {
	Date    string
	Course  string
	Type    string
	Entry   manifest.Entry
	Holiday bool
}

// Entries returns the entries visible through the filter, in sorted date
// order.
func (c *Controller) Entries(f filter.Filter) []Item {
	var items []Item
	c.m.Walk(func(date, course, typ string, e manifest.Entry) {
		if !f.InView(date) {
			return
		}
		items = append(items, Item{
			Date:    date,
			Course:  course,
			Type:    typ,
			Entry:   e,
			Holiday: c.m.IsHoliday(date),
		})
	})
	return items
}

// ToggleHoliday flips the holiday marking for a date and persists the
// manifest.
func (c *Controller) ToggleHoliday(date string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := filter.ParseDate(date); err != nil {
		return false, &manifest.ValidationError{Field: "date", Msg: err.Error()}
	}
	on := c.m.ToggleHoliday(date)
	if err := c.store.WriteManifest(c.student, c.m); err != nil {
		return false, err
	}
	return on, nil
}

// DefineType adds or relabels a content type and persists the manifest.
func (c *Controller) DefineType(key, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.m.DefineType(key, label); err != nil {
		return err
	}
	return c.store.WriteManifest(c.student, c.m)
}

// DeleteType removes an unused content type and persists the manifest.
func (c *Controller) DeleteType(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.m.DeleteType(key); err != nil {
		return err
	}
	return c.store.WriteManifest(c.student, c.m)
}
