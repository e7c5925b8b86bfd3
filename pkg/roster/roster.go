// Package roster manages the registry of student identifiers backed by a
// sqlite database in the data directory.
package roster

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tutorkit/lessonbook/pkg/manifest"
)

var studentIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Student is one roster record.
type Student struct {
	ID        string
	Name      string
	CreatedAt time.Time
	LastUsed  time.Time
}

// Registry manages student registration.
type Registry struct {
	db *sql.DB
}

// NewRegistry opens (creating if necessary) the roster database under the
// data directory.
func NewRegistry(dataDir string) (*Registry, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "roster.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	r := &Registry{db: db}
	if err := r.init(); err != nil {
		return nil, fmt.Errorf("initialize roster: %w", err)
	}
	return r, nil
}

func (r *Registry) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Add registers a student. IDs are restricted to lowercase alphanumerics,
// underscore and hyphen; the display name defaults to the id.
func (r *Registry) Add(id, name string) error {
	if !studentIDPattern.MatchString(id) {
		return &manifest.ValidationError{Field: "student id", Msg: "must be lowercase alphanumerics, _ or -"}
	}
	if name == "" {
		name = id
	}

	now := time.Now()
	_, err := r.db.Exec(`
	INSERT OR REPLACE INTO students (id, name, created_at, last_used)
	VALUES (?, ?, ?, ?)
	`, id, name, now, now)
	return err
}

// Get retrieves a student by id.
func (r *Registry) Get(id string) (*Student, error) {
	s := &Student{}
	err := r.db.QueryRow(`
	SELECT id, name, created_at, last_used FROM students WHERE id = ?
	`, id).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.LastUsed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("student not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns all students, most recently used first.
func (r *Registry) List() ([]*Student, error) {
	rows, err := r.db.Query(`
	SELECT id, name, created_at, last_used FROM students ORDER BY last_used DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*Student
	for rows.Next() {
		s := &Student{}
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.LastUsed); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Remove deletes a student from the roster. Manifest and content files are
// left on disk; the roster only tracks identities.
func (r *Registry) Remove(id string) error {
	_, err := r.db.Exec("DELETE FROM students WHERE id = ?", id)
	return err
}

// Touch updates the last used timestamp, keeping List ordered by activity.
func (r *Registry) Touch(id string) error {
	_, err := r.db.Exec("UPDATE students SET last_used = ? WHERE id = ?", time.Now(), id)
	return err
}

// Close closes the roster database.
func (r *Registry) Close() error {
	return r.db.Close()
}
