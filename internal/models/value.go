package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Numeric is a lenient numeric value. Stored text that parses cleanly as a
// float is carried as a number; anything else is kept verbatim as its raw
// string form. The raw text is always preserved so a record round-trips
// through the CSV file byte-for-byte.
type Numeric struct {
	Value    float64
	Raw      string
	IsNumber bool
}

// ParseNumeric builds a Numeric from stored text. Empty text stays empty.
func ParseNumeric(s string) Numeric {
	if strings.TrimSpace(s) == "" {
		return Numeric{Raw: s}
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Numeric{Value: v, Raw: s, IsNumber: true}
	}
	return Numeric{Raw: s}
}

// NumberOf builds a Numeric from a known float.
func NumberOf(v float64) Numeric {
	return Numeric{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), IsNumber: true}
}

// Float returns the numeric value, or 0 when the value is empty or did not
// parse as a number.
func (n Numeric) Float() float64 {
	if n.IsNumber {
		return n.Value
	}
	return 0
}

// IsZero reports whether the value is completely unset.
func (n Numeric) IsZero() bool {
	return !n.IsNumber && n.Raw == ""
}

// String returns the on-disk textual form.
func (n Numeric) String() string { return n.Raw }

// MarshalJSON encodes the value as a JSON number when numeric and as the raw
// string otherwise.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if n.IsNumber {
		return json.Marshal(n.Value)
	}
	return json.Marshal(n.Raw)
}

// UnmarshalJSON accepts either a JSON number or a string.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*n = NumberOf(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = ParseNumeric(s)
	return nil
}

// Integer is the integral counterpart of Numeric, used for the year field.
type Integer struct {
	Value    int
	Raw      string
	IsNumber bool
}

// ParseInteger builds an Integer from stored text. Empty text stays empty.
func ParseInteger(s string) Integer {
	if strings.TrimSpace(s) == "" {
		return Integer{Raw: s}
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Integer{Value: v, Raw: s, IsNumber: true}
	}
	return Integer{Raw: s}
}

// IntegerOf builds an Integer from a known int.
func IntegerOf(v int) Integer {
	return Integer{Value: v, Raw: strconv.Itoa(v), IsNumber: true}
}

// IsZero reports whether the value is completely unset.
func (i Integer) IsZero() bool {
	return !i.IsNumber && i.Raw == ""
}

// String returns the on-disk textual form.
func (i Integer) String() string { return i.Raw }

// MarshalJSON encodes the value as a JSON number when numeric and as the raw
// string otherwise.
func (i Integer) MarshalJSON() ([]byte, error) {
	if i.IsNumber {
		return json.Marshal(i.Value)
	}
	return json.Marshal(i.Raw)
}

// UnmarshalJSON accepts either a JSON number or a string.
func (i *Integer) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err == nil {
		*i = IntegerOf(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*i = ParseInteger(s)
	return nil
}
