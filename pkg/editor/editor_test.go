package editor

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorkit/lessonbook/pkg/filter"
	"github.com/tutorkit/lessonbook/pkg/manifest"
	"github.com/tutorkit/lessonbook/pkg/store"
)

func newTestController(t *testing.T) (*Controller, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	log := logrus.New()
	log.SetOutput(io.Discard)
	c, err := NewController("amy", mem, log)
	require.NoError(t, err)
	return c, mem
}

func seedEntry(t *testing.T, c *Controller) string {
	t.Helper()
	res, err := c.Save(Form{
		Date:   "2024-01-01",
		Course: "math",
		Type:   "homework",
		Title:  "Fractions",
		Body:   "<p>Practice</p>",
	}, DispositionAuto)
	require.NoError(t, err)
	require.Equal(t, OutcomeInserted, res.Outcome)
	return res.Path
}

func TestSaveInsertWritesContentThenManifest(t *testing.T) {
	c, mem := newTestController(t)
	path := seedEntry(t, c)

	assert.Equal(t, "materials/amy/math/2024-01-01_fractions.html", path)
	assert.Contains(t, mem.Contents[path], "<p>Practice</p>")

	persisted, err := mem.ReadManifest("amy")
	require.NoError(t, err)
	list := persisted.Bucket("2024-01-01", "math", "homework")
	require.Len(t, list, 1)
	assert.Equal(t, "Fractions", list[0].Title)
	assert.Equal(t, path, list[0].Path)
}

func TestSaveWithoutContentOrSessionRejected(t *testing.T) {
	c, _ := newTestController(t)

	_, err := c.Save(Form{Date: "2024-01-01", Course: "math", Type: "homework", Title: "t"}, DispositionAuto)
	var verr *manifest.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSaveValidation(t *testing.T) {
	c, _ := newTestController(t)

	var verr *manifest.ValidationError
	_, err := c.Save(Form{Date: "bad-date", Course: "math", Type: "homework", Body: "x"}, DispositionAuto)
	require.ErrorAs(t, err, &verr)

	_, err = c.Save(Form{Date: "2024-01-01", Course: "chemistry", Type: "homework", Body: "x"}, DispositionAuto)
	require.ErrorAs(t, err, &verr)

	_, err = c.Save(Form{Date: "2024-01-01", Course: "math", Type: "exam", Body: "x"}, DispositionAuto)
	require.ErrorAs(t, err, &verr)
}

func TestMetadataOnlyUpdateNeverRelocates(t *testing.T) {
	c, mem := newTestController(t)
	path := seedEntry(t, c)
	originalDoc := mem.Contents[path]

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", path)
	require.NoError(t, err)
	assert.Equal(t, "<p>Practice</p>", form.Body)

	form.Title = "Fractions (revised)"
	form.Body = ""
	res, err := c.Save(form, DispositionAuto)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMetadataOnly, res.Outcome)
	assert.Equal(t, path, res.Path)

	// Title changed in the manifest, content untouched, session cleared.
	list := c.Manifest().Bucket("2024-01-01", "math", "homework")
	require.Len(t, list, 1)
	assert.Equal(t, "Fractions (revised)", list[0].Title)
	assert.Equal(t, originalDoc, mem.Contents[path])
	assert.Nil(t, c.Session())
}

func TestRelocationRequiresDisposition(t *testing.T) {
	c, _ := newTestController(t)
	path := seedEntry(t, c)

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", path)
	require.NoError(t, err)

	form.Date = "2024-01-02"
	_, err = c.Save(form, DispositionAuto)
	require.ErrorIs(t, err, ErrNeedsDisposition)

	// Nothing mutated, session still armed.
	assert.NotNil(t, c.Session())
	assert.Len(t, c.Manifest().Bucket("2024-01-01", "math", "homework"), 1)
}

func TestMoveRelocatesAndDeletesOldFile(t *testing.T) {
	c, mem := newTestController(t)
	oldPath := seedEntry(t, c)

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", oldPath)
	require.NoError(t, err)

	form.Date = "2024-01-02"
	form.Filename = "" // re-derive from the new date
	form.Body = ""
	res, err := c.Save(form, DispositionMove)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, res.Outcome)

	newPath := "materials/amy/math/2024-01-02_fractions.html"
	assert.Equal(t, newPath, res.Path)

	// Old manifest record and file gone, new ones present, body preserved.
	assert.Empty(t, c.Manifest().Bucket("2024-01-01", "math", "homework"))
	require.Len(t, c.Manifest().Bucket("2024-01-02", "math", "homework"), 1)
	_, oldExists := mem.Contents[oldPath]
	assert.False(t, oldExists, "old content file should be deleted on move")
	assert.Contains(t, mem.Contents[newPath], "<p>Practice</p>")
	assert.Nil(t, c.Session())

	// I1: the drained date is pruned entirely.
	_, dateExists := c.Manifest().Days["2024-01-01"]
	assert.False(t, dateExists)
}

func TestForkKeepsOriginalAndDuplicatesContent(t *testing.T) {
	c, mem := newTestController(t)
	oldPath := seedEntry(t, c)

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", oldPath)
	require.NoError(t, err)

	form.Date = "2024-01-02"
	form.Filename = ""
	form.Body = ""
	res, err := c.Save(form, DispositionFork)
	require.NoError(t, err)
	assert.Equal(t, OutcomeForked, res.Outcome)

	newPath := "materials/amy/math/2024-01-02_fractions.html"

	// Both records and both files exist afterward.
	assert.Len(t, c.Manifest().Bucket("2024-01-01", "math", "homework"), 1)
	assert.Len(t, c.Manifest().Bucket("2024-01-02", "math", "homework"), 1)
	assert.Contains(t, mem.Contents[oldPath], "<p>Practice</p>")
	assert.Equal(t, mem.Contents[oldPath], mem.Contents[newPath])
	assert.Nil(t, c.Session())
}

func TestForkFailedDuplicationLeavesManifestUntouched(t *testing.T) {
	c, mem := newTestController(t)
	oldPath := seedEntry(t, c)

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", oldPath)
	require.NoError(t, err)

	// Original document vanished underneath us.
	delete(mem.Contents, oldPath)

	form.Date = "2024-01-02"
	form.Filename = ""
	form.Body = ""
	_, err = c.Save(form, DispositionFork)
	require.Error(t, err)

	// The manifest gained no entry pointing at unwritten content.
	assert.Empty(t, c.Manifest().Bucket("2024-01-02", "math", "homework"))
	persisted, err := mem.ReadManifest("amy")
	require.NoError(t, err)
	assert.Empty(t, persisted.Bucket("2024-01-02", "math", "homework"))
}

func TestMoveWithNewContentWritesDirectly(t *testing.T) {
	c, mem := newTestController(t)
	oldPath := seedEntry(t, c)

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", oldPath)
	require.NoError(t, err)

	form.Course = "english"
	form.Body = "<p>rewritten</p>"
	res, err := c.Save(form, DispositionMove)
	require.NoError(t, err)

	assert.Contains(t, mem.Contents[res.Path], "<p>rewritten</p>")
	assert.Contains(t, res.Path, "/english/")
	_, oldExists := mem.Contents[oldPath]
	assert.False(t, oldExists)
}

func TestMoveBestEffortDeleteFailureStillCommits(t *testing.T) {
	c, mem := newTestController(t)
	oldPath := seedEntry(t, c)

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", oldPath)
	require.NoError(t, err)

	mem.FailDeletes = true
	form.Date = "2024-01-02"
	form.Filename = ""
	form.Body = ""
	res, err := c.Save(form, DispositionMove)
	require.NoError(t, err, "stale file deletion is best-effort")
	assert.Equal(t, OutcomeMoved, res.Outcome)
	assert.Empty(t, c.Manifest().Bucket("2024-01-01", "math", "homework"))
}

func TestManifestWriteFailureAbortsSave(t *testing.T) {
	c, mem := newTestController(t)

	mem.FailWrites = true
	_, err := c.Save(Form{Date: "2024-01-01", Course: "math", Type: "homework", Title: "t", Body: "x"}, DispositionAuto)
	var serr *store.StorageError
	require.True(t, errors.As(err, &serr))
}

func TestSessionSurvivesReload(t *testing.T) {
	mem := store.NewMemory()
	log := logrus.New()
	log.SetOutput(io.Discard)

	c1, err := NewController("amy", mem, log)
	require.NoError(t, err)
	res, err := c1.Save(Form{Date: "2024-01-01", Course: "math", Type: "homework", Title: "t", Body: "x"}, DispositionAuto)
	require.NoError(t, err)
	_, err = c1.LoadForEdit("2024-01-01", "math", "homework", res.Path)
	require.NoError(t, err)

	// A new controller for the same student resumes the session.
	c2, err := NewController("amy", mem, log)
	require.NoError(t, err)
	require.NotNil(t, c2.Session())
	assert.Equal(t, res.Path, c2.Session().Path)

	c2.ExitEdit()
	assert.Nil(t, c2.Session())

	c3, err := NewController("amy", mem, log)
	require.NoError(t, err)
	assert.Nil(t, c3.Session(), "exited session must not resurrect")
}

func TestSessionScopedPerStudent(t *testing.T) {
	mem := store.NewMemory()
	log := logrus.New()
	log.SetOutput(io.Discard)

	c1, err := NewController("amy", mem, log)
	require.NoError(t, err)
	res, err := c1.Save(Form{Date: "2024-01-01", Course: "math", Type: "homework", Title: "t", Body: "x"}, DispositionAuto)
	require.NoError(t, err)
	_, err = c1.LoadForEdit("2024-01-01", "math", "homework", res.Path)
	require.NoError(t, err)

	// Switching students yields a fresh manifest and no session.
	c2, err := NewController("ben", mem, log)
	require.NoError(t, err)
	assert.Nil(t, c2.Session())
	assert.Empty(t, c2.Manifest().Days)
}

func TestDeleteEntryClearsTrackingSession(t *testing.T) {
	c, mem := newTestController(t)
	path := seedEntry(t, c)

	_, err := c.LoadForEdit("2024-01-01", "math", "homework", path)
	require.NoError(t, err)

	removed, err := c.DeleteEntry("2024-01-01", "math", "homework", path)
	require.NoError(t, err)
	assert.Equal(t, path, removed.Path)
	assert.Nil(t, c.Session())
	assert.Empty(t, c.Manifest().Days)
	_, exists := mem.Contents[path]
	assert.False(t, exists)

	_, err = c.DeleteEntry("2024-01-01", "math", "homework", path)
	require.Error(t, err, "double delete reports missing entry")
}

func TestReloadRestoresOriginal(t *testing.T) {
	c, _ := newTestController(t)
	path := seedEntry(t, c)

	form, err := c.LoadForEdit("2024-01-01", "math", "homework", path)
	require.NoError(t, err)

	// The caller mangles the form, then reloads.
	form.Title = "garbage"
	restored, err := c.Reload()
	require.NoError(t, err)
	assert.Equal(t, "Fractions", restored.Title)
	assert.Equal(t, "2024-01-01_fractions.html", restored.Filename)
	assert.Equal(t, "<p>Practice</p>", restored.Body)
}

func TestEntriesFiltering(t *testing.T) {
	c, _ := newTestController(t)
	for _, d := range []string{"2024-01-01", "2024-01-05", "2024-01-10"} {
		_, err := c.Save(Form{Date: d, Course: "math", Type: "homework", Title: d, Body: "x"}, DispositionAuto)
		require.NoError(t, err)
	}
	_, err := c.ToggleHoliday("2024-01-05")
	require.NoError(t, err)

	items := c.Entries(filter.Filter{Mode: filter.ModeRange, Start: "2024-01-01", End: "2024-01-07"})
	require.Len(t, items, 2)
	assert.Equal(t, "2024-01-01", items[0].Date)
	assert.False(t, items[0].Holiday)
	assert.True(t, items[1].Holiday)

	items = c.Entries(filter.Day("2024-01-10"))
	require.Len(t, items, 1)

	items = c.Entries(filter.Day(""))
	assert.Len(t, items, 3)
}

func TestClassify(t *testing.T) {
	c, _ := newTestController(t)
	path := seedEntry(t, c)

	form := Form{Date: "2024-01-01", Course: "math", Type: "homework", Title: "Fractions", Filename: baseName(path)}
	cls, _ := c.Classify(form)
	assert.Equal(t, ClassifyInsert, cls)

	_, err := c.LoadForEdit("2024-01-01", "math", "homework", path)
	require.NoError(t, err)

	cls, _ = c.Classify(form)
	assert.Equal(t, ClassifyUpdate, cls)

	form.Type = "material"
	cls, target := c.Classify(form)
	assert.Equal(t, ClassifyRelocate, cls)
	assert.Equal(t, path, target, "type is not part of the path")
}
