package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"collector/internal/models"
)

// ReadCSV decodes notes from CSV, normalizing every row to the canonical
// field set. The first record is treated as a header; columns are matched by
// name, so reordered or extra columns are tolerated. Ragged rows are padded
// with empty fields rather than rejected, and no row ever fails the decode.
func ReadCSV(r io.Reader) ([]models.Note, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	// Column index per canonical field, -1 when the header lacks it.
	index := make([]int, len(models.CanonicalHeaders))
	for i, name := range models.CanonicalHeaders {
		index[i] = -1
		for j, col := range header {
			if strings.TrimSpace(col) == name {
				index[i] = j
				break
			}
		}
	}

	var notes []models.Note
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		values := make([]string, len(models.CanonicalHeaders))
		for i, j := range index {
			if j >= 0 && j < len(record) {
				values[i] = record[j]
			}
		}
		notes = append(notes, models.NoteFromFields(values))
	}
	return notes, nil
}

// WriteCSV encodes notes as CSV in canonical header order. Every row carries
// all fourteen fields; unset optional fields are written as empty strings.
func WriteCSV(w io.Writer, notes []models.Note) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.CanonicalHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, n := range notes {
		if err := writer.Write(n.Fields()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
