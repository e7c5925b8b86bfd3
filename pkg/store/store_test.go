package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tutorkit/lessonbook/pkg/manifest"
)

func TestFilesystemContentRoundTrip(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path := "materials/amy/math/2024-01-03_fractions.html"
	if err := fs.WriteContent(path, "<html>doc</html>"); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := fs.ReadContent(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "<html>doc</html>" {
		t.Errorf("content mismatch: %q", got)
	}

	if err := fs.DeleteContent(path); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fs.ReadContent(path); err == nil {
		t.Error("expected error reading deleted file")
	}

	var serr *StorageError
	if err := fs.DeleteContent(path); !errors.As(err, &serr) {
		t.Errorf("expected StorageError for missing delete, got %v", err)
	}
}

func TestFilesystemPathConfinement(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"../outside.html", "a/../../outside", "/etc/passwd", "//etc/passwd", "/", ""} {
		var serr *StorageError
		if err := fs.WriteContent(p, "x"); !errors.As(err, &serr) {
			t.Errorf("expected confinement error for %q, got %v", p, err)
		}
		if _, err := fs.ReadContent(p); !errors.As(err, &serr) {
			t.Errorf("expected confinement error reading %q, got %v", p, err)
		}
	}
}

func TestFilesystemDefaultManifest(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	m, err := fs.ReadManifest("newkid")
	if err != nil {
		t.Fatalf("read default manifest: %v", err)
	}
	if m.Version != manifest.CurrentVersion {
		t.Errorf("expected seeded manifest, got version %d", m.Version)
	}
	if len(m.Courses) == 0 || len(m.Types) == 0 {
		t.Error("expected default courses and types")
	}
}

func TestFilesystemSeedFileApplied(t *testing.T) {
	root := t.TempDir()
	seed := "types:\n  quiz: 小考\n"
	if err := os.WriteFile(filepath.Join(root, "seeds.yaml"), []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	fs, err := NewFilesystem(root)
	if err != nil {
		t.Fatal(err)
	}
	m, err := fs.ReadManifest("newkid")
	if err != nil {
		t.Fatal(err)
	}
	if m.Types["quiz"] != "小考" {
		t.Errorf("expected seed applied to new manifests, got %q", m.Types["quiz"])
	}
}

func TestFilesystemManifestRoundTrip(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFilesystem(root)
	if err != nil {
		t.Fatal(err)
	}

	m := manifest.New()
	m.Upsert("2024-01-03", "math", "homework", manifest.Entry{Title: "分數", Path: "materials/amy/math/f.html"})
	if err := fs.WriteManifest("amy", m); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	// The document on disk is pretty-printed JSON.
	raw, err := os.ReadFile(filepath.Join(root, "students", "amy", "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n  ") {
		t.Error("expected indented manifest document")
	}
	if !json.Valid(raw) {
		t.Error("manifest document is not valid JSON")
	}

	got, err := fs.ReadManifest("amy")
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	list := got.Bucket("2024-01-03", "math", "homework")
	if len(list) != 1 || list[0].Title != "分數" {
		t.Errorf("round trip mismatch: %+v", list)
	}
}

func TestMemoryManifestIsolation(t *testing.T) {
	mem := NewMemory()
	m := manifest.New()
	m.Upsert("2024-01-03", "math", "homework", manifest.Entry{Path: "p1"})
	if err := mem.WriteManifest("amy", m); err != nil {
		t.Fatal(err)
	}

	// Mutating the original must not leak into the store.
	m.Upsert("2024-01-03", "math", "homework", manifest.Entry{Path: "p2"})

	got, err := mem.ReadManifest("amy")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(got.Bucket("2024-01-03", "math", "homework")); n != 1 {
		t.Errorf("expected stored manifest isolated from caller, got %d entries", n)
	}
}

func TestMemoryFailureInjection(t *testing.T) {
	mem := NewMemory()
	mem.Contents["p"] = "x"
	mem.FailDeletes = true

	var serr *StorageError
	if err := mem.DeleteContent("p"); !errors.As(err, &serr) {
		t.Errorf("expected injected StorageError, got %v", err)
	}

	mem.FailWrites = true
	if err := mem.WriteContent("q", "y"); err == nil {
		t.Error("expected injected write failure")
	}
}
