// Package testutil provides test helpers for setting up throwaway note
// stores, creating fixtures, and making assertions.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"collector/internal/store"
)

// SetupTestStore creates a note store backed by a CSV file in a throwaway
// temp directory. The file does not exist until the first write.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), "notes.csv"))
}

// WriteStoreFile writes raw CSV content directly to the store's file,
// bypassing the store's write path. Used to stage malformed or legacy rows.
func WriteStoreFile(t *testing.T, st *store.Store, content string) {
	t.Helper()
	if err := os.WriteFile(st.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write store file: %v", err)
	}
}
