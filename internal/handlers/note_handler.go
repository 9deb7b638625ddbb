package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "collector/internal/errors"
	"collector/internal/models"
	"collector/internal/services"
	"collector/internal/store"
)

// NoteHandler handles note-related requests.
type NoteHandler struct {
	noteService services.NoteServicer
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService services.NoteServicer) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// ListNotesRequest represents the supported filter query parameters.
type ListNotesRequest struct {
	Country  string   `form:"country"`
	Pick     string   `form:"pick"`
	Search   string   `form:"search"`
	MinGrade *float64 `form:"min_grade"`
	MaxGrade *float64 `form:"max_grade"`
}

// CreateNoteRequest represents the request payload for creating a note.
type CreateNoteRequest struct {
	NoteID        string   `json:"note_id"`
	Country       string   `json:"country" binding:"required"`
	Pick          string   `json:"pick" binding:"required"`
	Grade         *float64 `json:"grade" binding:"required"`
	PurchasePrice *float64 `json:"purchase_price" binding:"required"`
	EPQ           string   `json:"epq"`
	PMGCert       string   `json:"pmg_cert"`
	Denomination  string   `json:"denomination"`
	Year          *int     `json:"year"`
	Serial        string   `json:"serial"`
	PurchaseDate  string   `json:"purchase_date" binding:"omitempty,note_date"`
	EstValue      *float64 `json:"est_value"`
	EstUpdatedAt  string   `json:"est_updated_at" binding:"omitempty,note_date"`
	Notes         string   `json:"notes"`
}

// UpdateNoteRequest represents the request payload for a partial update.
// Absent fields leave the stored value untouched.
type UpdateNoteRequest struct {
	Country       *string  `json:"country"`
	Pick          *string  `json:"pick"`
	Grade         *float64 `json:"grade"`
	PurchasePrice *float64 `json:"purchase_price"`
	EPQ           *string  `json:"epq"`
	PMGCert       *string  `json:"pmg_cert"`
	Denomination  *string  `json:"denomination"`
	Year          *int     `json:"year"`
	Serial        *string  `json:"serial"`
	PurchaseDate  *string  `json:"purchase_date" binding:"omitempty,note_date"`
	EstValue      *float64 `json:"est_value"`
	EstUpdatedAt  *string  `json:"est_updated_at" binding:"omitempty,note_date"`
	Notes         *string  `json:"notes"`
}

// UpdateEstimateRequest represents the narrow estimate update payload.
type UpdateEstimateRequest struct {
	EstValue     *float64 `json:"est_value" binding:"required"`
	EstUpdatedAt string   `json:"est_updated_at" binding:"omitempty,note_date"`
}

// ListNotes returns the collection with optional filters applied
// @Summary     List notes
// @Description List all notes, optionally filtered by country, pick, grade range, or a free-text search
// @Tags        notes
// @Produce     json
// @Param       country   query string  false "Case-insensitive substring match on country"
// @Param       pick      query string  false "Case-insensitive substring match on pick"
// @Param       min_grade query number  false "Inclusive lower grade bound"
// @Param       max_grade query number  false "Inclusive upper grade bound"
// @Param       search    query string  false "Case-insensitive substring match on any field"
// @Success     200 {array} models.Note "Matching notes in collection order"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	var req ListNotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	notes, err := h.noteService.ListNotes(store.Filter{
		Country:  req.Country,
		Pick:     req.Pick,
		Search:   req.Search,
		MinGrade: req.MinGrade,
		MaxGrade: req.MaxGrade,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// ExportNotes streams the collection as CSV
// @Summary     Export notes
// @Description Download the whole collection as a CSV file in canonical column order
// @Tags        notes
// @Produce     text/csv
// @Success     200 {string} string "CSV payload"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notes.csv [get]
func (h *NoteHandler) ExportNotes(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename=notes.csv`)
	if err := h.noteService.ExportCSV(c.Writer); err != nil {
		respondWithError(c, err)
	}
}

// CreateNote creates a new note
// @Summary     Create a note
// @Description Create a new note; the note_id is generated when not supplied
// @Tags        notes
// @Accept      json
// @Produce     json
// @Param       request body CreateNoteRequest true "Note details"
// @Success     201 {object} models.Note "Note created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Note ID already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	note := models.Note{
		NoteID:        req.NoteID,
		Country:       req.Country,
		Pick:          req.Pick,
		Grade:         models.NumberOf(*req.Grade),
		PurchasePrice: models.NumberOf(*req.PurchasePrice),
		EPQ:           req.EPQ,
		PMGCert:       req.PMGCert,
		Denomination:  req.Denomination,
		Serial:        req.Serial,
		PurchaseDate:  req.PurchaseDate,
		EstUpdatedAt:  req.EstUpdatedAt,
		Notes:         req.Notes,
	}
	if req.Year != nil {
		note.Year = models.IntegerOf(*req.Year)
	}
	if req.EstValue != nil {
		note.EstValue = models.NumberOf(*req.EstValue)
	}

	created, err := h.noteService.CreateNote(note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": created})
}

// UpdateNote applies a partial update to an existing note
// @Summary     Update a note
// @Description Merge the supplied fields over an existing note
// @Tags        notes
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Note ID"
// @Param       request body UpdateNoteRequest true "Fields to update"
// @Success     200 {object} models.Note "Updated note"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Note not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, err := noteIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := models.Patch{
		Country:      req.Country,
		Pick:         req.Pick,
		EPQ:          req.EPQ,
		PMGCert:      req.PMGCert,
		Denomination: req.Denomination,
		Serial:       req.Serial,
		PurchaseDate: req.PurchaseDate,
		EstUpdatedAt: req.EstUpdatedAt,
		Notes:        req.Notes,
	}
	if req.Grade != nil {
		v := models.NumberOf(*req.Grade)
		patch.Grade = &v
	}
	if req.PurchasePrice != nil {
		v := models.NumberOf(*req.PurchasePrice)
		patch.PurchasePrice = &v
	}
	if req.Year != nil {
		v := models.IntegerOf(*req.Year)
		patch.Year = &v
	}
	if req.EstValue != nil {
		v := models.NumberOf(*req.EstValue)
		patch.EstValue = &v
	}

	updated, err := h.noteService.UpdateNote(id, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": updated})
}

// DeleteNote removes a note
// @Summary     Delete a note
// @Description Permanently delete a note by ID
// @Tags        notes
// @Produce     json
// @Param       id path string true "Note ID"
// @Success     200 {object} map[string]string "Note deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Note not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, err := noteIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.noteService.DeleteNote(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

// ImportNotes bulk-upserts notes from an uploaded CSV file
// @Summary     Import notes
// @Description Upload a CSV file and upsert every row carrying a note_id; rows without an id are skipped
// @Tags        notes
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "CSV file"
// @Success     200 {object} map[string]int "Count of imported rows"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /import [post]
func (h *NoteHandler) ImportNotes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing CSV file upload"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "File must be a CSV"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer f.Close()

	imported, err := h.noteService.ImportCSV(f)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

// UpdateEstimate applies the narrow estimate-only update
// @Summary     Update a note's estimate
// @Description Update est_value and est_updated_at only; est_updated_at defaults to the current UTC time
// @Tags        notes
// @Accept      json
// @Produce     json
// @Param       id      path string                true "Note ID"
// @Param       request body UpdateEstimateRequest true "Estimate details"
// @Success     200 {object} models.Note "Updated note"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Note not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notes/{id}/estimate [patch]
func (h *NoteHandler) UpdateEstimate(c *gin.Context) {
	id, err := noteIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updated, err := h.noteService.UpdateEstimate(id, *req.EstValue, req.EstUpdatedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": updated})
}
