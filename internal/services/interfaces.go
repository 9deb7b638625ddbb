package services

import (
	"io"

	"collector/internal/models"
	"collector/internal/store"
)

// NoteServicer defines the contract for note-related business logic.
type NoteServicer interface {
	ListNotes(filter store.Filter) ([]models.Note, error)
	GetNoteByID(id string) (*models.Note, error)
	CreateNote(note models.Note) (*models.Note, error)
	UpdateNote(id string, patch models.Patch) (*models.Note, error)
	DeleteNote(id string) error
	UpdateEstimate(id string, estValue float64, estUpdatedAt string) (*models.Note, error)
	ImportCSV(r io.Reader) (int, error)
	ExportCSV(w io.Writer) error
}
