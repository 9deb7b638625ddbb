// Package store implements the CSV-backed note record store. The store
// exclusively owns its file: every read loads the whole set fresh, and every
// mutation rewrites the whole set through an atomic temp-file-and-rename, so
// readers never observe a partially written file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"collector/internal/models"
	"collector/internal/uuid"
)

// ErrNotFound is returned when no note matches the requested id.
var ErrNotFound = errors.New("note not found")

// Store is a note store backed by a single CSV file. Mutating operations are
// serialized by a mutex held across the whole load-modify-persist sequence;
// the atomic rename alone only protects readers, not concurrent writers.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store over the given CSV file path. The file does not need
// to exist yet; an absent file reads as an empty collection.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the path of the live CSV file.
func (s *Store) Path() string { return s.path }

// List reads the entire persisted set, normalized to the canonical field
// set. Each call re-reads the file and returns a fresh copy; nothing is
// cached. An absent file is an empty collection, not an error.
func (s *Store) List() ([]models.Note, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	notes, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return notes, nil
}

// GetByID returns the note with the given id, or ErrNotFound.
func (s *Store) GetByID(id string) (models.Note, error) {
	notes, err := s.List()
	if err != nil {
		return models.Note{}, err
	}
	for _, n := range notes {
		if n.NoteID == id {
			return n, nil
		}
	}
	return models.Note{}, ErrNotFound
}

// Upsert inserts or merge-updates a note keyed by the patch's NoteID. An
// empty id is replaced with a freshly generated UUID. When a stored note
// matches the id, the patch's present fields win field-by-field; otherwise a
// new note built from the patch is appended. Returns the resolved id.
func (s *Store) Upsert(p models.Patch) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.NoteID == "" {
		p.NoteID = uuid.New()
	}

	notes, err := s.List()
	if err != nil {
		return "", err
	}

	found := false
	for i := range notes {
		if notes[i].NoteID == p.NoteID {
			p.Apply(&notes[i])
			found = true
			break
		}
	}
	if !found {
		var n models.Note
		p.Apply(&n)
		notes = append(notes, n)
	}

	if err := s.persist(notes); err != nil {
		return "", err
	}
	return p.NoteID, nil
}

// Delete removes the note with the given id. The file is only rewritten when
// a note was actually removed; an unknown id returns ErrNotFound with no
// side effects.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.List()
	if err != nil {
		return err
	}

	kept := notes[:0]
	for _, n := range notes {
		if n.NoteID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(notes) {
		return ErrNotFound
	}
	return s.persist(kept)
}

// persist is the sole write path. The full set is written to a temporary
// file in the same directory, synced, and renamed over the live file. A
// failed write leaves the live file untouched.
func (s *Store) persist(notes []models.Note) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if err := WriteCSV(tmp, notes); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
