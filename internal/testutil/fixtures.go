package testutil

import (
	"testing"

	"collector/internal/models"
	"collector/internal/store"
)

// SampleNote returns a fully populated note for use as a test fixture.
func SampleNote(id string) models.Note {
	return models.Note{
		NoteID:        id,
		Country:       "Germany",
		Pick:          "P-170",
		Grade:         models.NumberOf(64),
		PurchasePrice: models.NumberOf(120.50),
		EPQ:           "EPQ",
		PMGCert:       "8011223344",
		Denomination:  "100 Mark",
		Year:          models.IntegerOf(1908),
		Serial:        "A1234567",
		PurchaseDate:  "2023-06-15",
		EstValue:      models.NumberOf(150),
		EstUpdatedAt:  "2024-01-15T10:30:00Z",
		Notes:         "Crisp example",
	}
}

// SeedNotes upserts the given notes into the store.
func SeedNotes(t *testing.T, st *store.Store, notes ...models.Note) {
	t.Helper()
	for _, n := range notes {
		if _, err := st.Upsert(n.AsPatch()); err != nil {
			t.Fatalf("failed to seed note %s: %v", n.NoteID, err)
		}
	}
}
