package models

import (
	"encoding/json"
	"testing"
)

func TestParseNumeric(t *testing.T) {
	t.Run("clean_number", func(t *testing.T) {
		n := ParseNumeric("64.5")
		if !n.IsNumber {
			t.Fatal("expected numeric value")
		}
		if n.Value != 64.5 {
			t.Errorf("expected 64.5, got %v", n.Value)
		}
		if n.String() != "64.5" {
			t.Errorf("expected raw text preserved, got %q", n.String())
		}
	})

	t.Run("non_numeric_kept_verbatim", func(t *testing.T) {
		n := ParseNumeric("VF")
		if n.IsNumber {
			t.Fatal("expected raw value")
		}
		if n.String() != "VF" {
			t.Errorf("expected VF, got %q", n.String())
		}
		if n.Float() != 0 {
			t.Errorf("expected 0 fallback, got %v", n.Float())
		}
	})

	t.Run("empty", func(t *testing.T) {
		n := ParseNumeric("")
		if !n.IsZero() {
			t.Error("expected zero value")
		}
		if n.String() != "" {
			t.Errorf("expected empty text, got %q", n.String())
		}
	})
}

func TestNumericJSON(t *testing.T) {
	t.Run("marshal_number", func(t *testing.T) {
		b, err := json.Marshal(NumberOf(120.5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(b) != "120.5" {
			t.Errorf("expected 120.5, got %s", b)
		}
	})

	t.Run("marshal_raw", func(t *testing.T) {
		b, err := json.Marshal(ParseNumeric("VF"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(b) != `"VF"` {
			t.Errorf("expected quoted VF, got %s", b)
		}
	})

	t.Run("unmarshal_number", func(t *testing.T) {
		var n Numeric
		if err := json.Unmarshal([]byte("45"), &n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !n.IsNumber || n.Value != 45 {
			t.Errorf("expected 45, got %+v", n)
		}
	})

	t.Run("unmarshal_string", func(t *testing.T) {
		var n Numeric
		if err := json.Unmarshal([]byte(`"AU"`), &n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.IsNumber || n.Raw != "AU" {
			t.Errorf("expected raw AU, got %+v", n)
		}
	})
}

func TestParseInteger(t *testing.T) {
	y := ParseInteger("1908")
	if !y.IsNumber || y.Value != 1908 {
		t.Errorf("expected 1908, got %+v", y)
	}

	raw := ParseInteger("circa 1910")
	if raw.IsNumber {
		t.Error("expected raw value")
	}
	if raw.String() != "circa 1910" {
		t.Errorf("expected text preserved, got %q", raw.String())
	}
}

func TestPatchApply(t *testing.T) {
	n := Note{NoteID: "n-1", Country: "Germany", Pick: "P-170", Grade: NumberOf(64)}

	country := "France"
	grade := NumberOf(66)
	p := Patch{Country: &country, Grade: &grade}
	p.Apply(&n)

	if n.Country != "France" {
		t.Errorf("expected country updated, got %q", n.Country)
	}
	if n.Grade.Value != 66 {
		t.Errorf("expected grade updated, got %v", n.Grade.Value)
	}
	if n.Pick != "P-170" {
		t.Errorf("expected pick untouched, got %q", n.Pick)
	}
	if n.NoteID != "n-1" {
		t.Errorf("expected id untouched, got %q", n.NoteID)
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	n := Note{
		NoteID:        "n-1",
		Country:       "Austria",
		Pick:          "P-57",
		Grade:         ParseNumeric("VF"),
		PurchasePrice: NumberOf(30),
		Year:          IntegerOf(1945),
	}

	got := NoteFromFields(n.Fields())
	if got != n {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, n)
	}
	if len(n.Fields()) != len(CanonicalHeaders) {
		t.Errorf("expected %d fields, got %d", len(CanonicalHeaders), len(n.Fields()))
	}
}
