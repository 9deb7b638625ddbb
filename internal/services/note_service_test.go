package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"collector/internal/models"
	"collector/internal/store"
	"collector/internal/testutil"
)

func TestCreateNote(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)

		created, err := svc.CreateNote(testutil.SampleNote("n-1"))
		testutil.AssertNoError(t, err)

		if created.NoteID != "n-1" {
			t.Errorf("expected id n-1, got %q", created.NoteID)
		}
		if created.Country != "Germany" {
			t.Errorf("expected country Germany, got %q", created.Country)
		}
	})

	t.Run("generates_id_when_absent", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)

		created, err := svc.CreateNote(testutil.SampleNote(""))
		testutil.AssertNoError(t, err)

		if created.NoteID == "" {
			t.Fatal("expected generated id")
		}
	})

	t.Run("duplicate_id_conflict", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)

		_, err := svc.CreateNote(testutil.SampleNote("n-1"))
		testutil.AssertNoError(t, err)

		_, err = svc.CreateNote(testutil.SampleNote("n-1"))
		testutil.AssertAppError(t, err, "DUPLICATE_NOTE_ID")

		notes, err := svc.ListNotes(store.Filter{})
		testutil.AssertNoError(t, err)
		if len(notes) != 1 {
			t.Errorf("expected one note after conflict, got %d", len(notes))
		}
	})
}

func TestUpdateNote(t *testing.T) {
	t.Run("partial_merge", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)
		testutil.SeedNotes(t, st, testutil.SampleNote("n-1"))

		country := "Prussia"
		updated, err := svc.UpdateNote("n-1", models.Patch{Country: &country})
		testutil.AssertNoError(t, err)

		if updated.Country != "Prussia" {
			t.Errorf("expected country updated, got %q", updated.Country)
		}
		if updated.Pick != "P-170" {
			t.Errorf("expected untouched fields preserved, got %q", updated.Pick)
		}
	})

	t.Run("unknown_id", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)

		country := "Prussia"
		_, err := svc.UpdateNote("missing", models.Patch{Country: &country})
		testutil.AssertAppError(t, err, "NOTE_NOT_FOUND")
	})
}

func TestDeleteNote(t *testing.T) {
	st := testutil.SetupTestStore(t)
	svc := NewNoteService(st)
	testutil.SeedNotes(t, st, testutil.SampleNote("n-1"))

	testutil.AssertNoError(t, svc.DeleteNote("n-1"))
	testutil.AssertAppError(t, svc.DeleteNote("n-1"), "NOTE_NOT_FOUND")

	_, err := svc.GetNoteByID("n-1")
	testutil.AssertAppError(t, err, "NOTE_NOT_FOUND")
}

func TestUpdateEstimate(t *testing.T) {
	t.Run("explicit_timestamp", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)
		testutil.SeedNotes(t, st, testutil.SampleNote("n-1"))

		updated, err := svc.UpdateEstimate("n-1", 175.25, "2024-02-01T08:00:00Z")
		testutil.AssertNoError(t, err)

		if updated.EstValue.Value != 175.25 {
			t.Errorf("expected est_value 175.25, got %v", updated.EstValue.Value)
		}
		if updated.EstUpdatedAt != "2024-02-01T08:00:00Z" {
			t.Errorf("expected explicit timestamp kept, got %q", updated.EstUpdatedAt)
		}
		// Only the estimate fields change.
		if updated.Country != "Germany" || updated.Grade.Value != 64 {
			t.Errorf("expected other fields untouched, got %+v", updated)
		}
	})

	t.Run("timestamp_defaults_to_now", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)
		testutil.SeedNotes(t, st, testutil.SampleNote("n-1"))

		updated, err := svc.UpdateEstimate("n-1", 99, "")
		testutil.AssertNoError(t, err)

		ts, err2 := time.Parse(time.RFC3339, updated.EstUpdatedAt)
		if err2 != nil {
			t.Fatalf("expected RFC3339 timestamp, got %q", updated.EstUpdatedAt)
		}
		if time.Since(ts) > time.Minute {
			t.Errorf("expected recent timestamp, got %s", ts)
		}
	})

	t.Run("unknown_id", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)

		_, err := svc.UpdateEstimate("missing", 10, "")
		testutil.AssertAppError(t, err, "NOTE_NOT_FOUND")
	})
}

func TestImportCSV(t *testing.T) {
	t.Run("skips_rows_without_id", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)

		payload := strings.Join(models.CanonicalHeaders, ",") + "\n" +
			"n-1,Germany,P-170,64,120.50,,,,,,,,,\n" +
			",France,P-71,45,80,,,,,,,,,\n"
		imported, err := svc.ImportCSV(strings.NewReader(payload))
		testutil.AssertNoError(t, err)

		if imported != 1 {
			t.Errorf("expected exactly one imported row, got %d", imported)
		}
		notes, err := svc.ListNotes(store.Filter{})
		testutil.AssertNoError(t, err)
		if len(notes) != 1 || notes[0].NoteID != "n-1" {
			t.Errorf("expected only n-1 stored, got %+v", notes)
		}
	})

	t.Run("upserts_existing_rows", func(t *testing.T) {
		st := testutil.SetupTestStore(t)
		svc := NewNoteService(st)
		testutil.SeedNotes(t, st, testutil.SampleNote("n-1"))

		payload := strings.Join(models.CanonicalHeaders, ",") + "\n" +
			"n-1,Bavaria,P-200,58,99,,,,,,,,,\n"
		imported, err := svc.ImportCSV(strings.NewReader(payload))
		testutil.AssertNoError(t, err)

		if imported != 1 {
			t.Errorf("expected one imported row, got %d", imported)
		}
		got, err := svc.GetNoteByID("n-1")
		testutil.AssertNoError(t, err)
		if got.Country != "Bavaria" || got.Pick != "P-200" {
			t.Errorf("expected import row to win, got %+v", got)
		}
	})
}

func TestExportCSV(t *testing.T) {
	st := testutil.SetupTestStore(t)
	svc := NewNoteService(st)
	testutil.SeedNotes(t, st, testutil.SampleNote("n-1"), testutil.SampleNote("n-2"))

	var buf bytes.Buffer
	testutil.AssertNoError(t, svc.ExportCSV(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(models.CanonicalHeaders, ",") {
		t.Errorf("unexpected header: %q", lines[0])
	}
}

func TestListNotesFiltered(t *testing.T) {
	st := testutil.SetupTestStore(t)
	svc := NewNoteService(st)

	a := testutil.SampleNote("n-1")
	b := testutil.SampleNote("n-2")
	b.Country = "France"
	testutil.SeedNotes(t, st, a, b)

	notes, err := svc.ListNotes(store.Filter{Country: "fran"})
	testutil.AssertNoError(t, err)
	if len(notes) != 1 || notes[0].NoteID != "n-2" {
		t.Errorf("expected filtered result n-2, got %+v", notes)
	}
}
