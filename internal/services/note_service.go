package services

import (
	"errors"
	"io"
	"time"

	apperrors "collector/internal/errors"
	"collector/internal/models"
	"collector/internal/store"
)

// noteService handles note-related business logic over the record store.
type noteService struct {
	store *store.Store
}

// NewNoteService creates a new NoteServicer.
func NewNoteService(st *store.Store) NoteServicer {
	return &noteService{store: st}
}

// ListNotes returns the notes matching the filter, in on-disk order.
func (s *noteService) ListNotes(filter store.Filter) ([]models.Note, error) {
	notes, err := s.store.List()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return filter.Apply(notes), nil
}

// GetNoteByID returns a single note by id.
func (s *noteService) GetNoteByID(id string) (*models.Note, error) {
	note, err := s.store.GetByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrNoteNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &note, nil
}

// CreateNote stores a new note. A client-supplied id that already exists is
// a conflict; an empty id is generated by the store.
func (s *noteService) CreateNote(note models.Note) (*models.Note, error) {
	if note.NoteID != "" {
		if _, err := s.store.GetByID(note.NoteID); err == nil {
			return nil, apperrors.ErrDuplicateNoteID
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
	}

	id, err := s.store.Upsert(note.AsPatch())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return s.GetNoteByID(id)
}

// UpdateNote merges the patch's present fields over an existing note.
// Unknown ids are not created; they report not-found.
func (s *noteService) UpdateNote(id string, patch models.Patch) (*models.Note, error) {
	if _, err := s.GetNoteByID(id); err != nil {
		return nil, err
	}

	patch.NoteID = id
	if _, err := s.store.Upsert(patch); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return s.GetNoteByID(id)
}

// DeleteNote removes a note permanently. There is no soft-delete state.
func (s *noteService) DeleteNote(id string) error {
	err := s.store.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.ErrNoteNotFound
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// UpdateEstimate is the narrow machine-integration update: it only ever
// touches est_value and est_updated_at. An omitted timestamp defaults to the
// current UTC time.
func (s *noteService) UpdateEstimate(id string, estValue float64, estUpdatedAt string) (*models.Note, error) {
	if _, err := s.GetNoteByID(id); err != nil {
		return nil, err
	}

	if estUpdatedAt == "" {
		estUpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	value := models.NumberOf(estValue)
	patch := models.Patch{
		NoteID:       id,
		EstValue:     &value,
		EstUpdatedAt: &estUpdatedAt,
	}
	if _, err := s.store.Upsert(patch); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return s.GetNoteByID(id)
}

// ImportCSV decodes the payload with the same normalization as the store's
// read path and upserts every row carrying a note_id. Rows without an id are
// silently skipped so a malformed file cannot mass-generate ids. Each row is
// its own upsert; a failure partway through leaves earlier rows committed.
func (s *noteService) ImportCSV(r io.Reader) (int, error) {
	notes, err := store.ReadCSV(r)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "malformed CSV payload")
	}

	imported := 0
	for _, n := range notes {
		if n.NoteID == "" {
			continue
		}
		if _, err := s.store.Upsert(n.AsPatch()); err != nil {
			return imported, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		imported++
	}
	return imported, nil
}

// ExportCSV streams the whole collection in canonical order.
func (s *noteService) ExportCSV(w io.Writer) error {
	notes, err := s.store.List()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if err := store.WriteCSV(w, notes); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}
