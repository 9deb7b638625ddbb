package store

import (
	"strings"

	"collector/internal/models"
)

// Filter holds the supported note predicates. All set predicates must match
// (logical AND); the zero value matches every note.
type Filter struct {
	Country  string
	Pick     string
	Search   string
	MinGrade *float64
	MaxGrade *float64
}

// Apply returns the notes matching the filter, preserving their order.
// Apply is pure: it never mutates the input and never touches the file.
func (f Filter) Apply(notes []models.Note) []models.Note {
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if f.matches(n) {
			out = append(out, n)
		}
	}
	return out
}

func (f Filter) matches(n models.Note) bool {
	if f.Country != "" && !containsFold(n.Country, f.Country) {
		return false
	}
	if f.Pick != "" && !containsFold(n.Pick, f.Pick) {
		return false
	}
	// A missing or non-numeric grade compares as 0 for range purposes.
	if f.MinGrade != nil && n.Grade.Float() < *f.MinGrade {
		return false
	}
	if f.MaxGrade != nil && n.Grade.Float() > *f.MaxGrade {
		return false
	}
	if f.Search != "" {
		hit := false
		for _, v := range n.Fields() {
			if containsFold(v, f.Search) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
