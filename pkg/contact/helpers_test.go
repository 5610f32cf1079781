package contact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// mustSnapshot builds a snapshot from inline markup. An empty text derives
// the visible text from the markup.
func mustSnapshot(t *testing.T, html, text string) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.New(html, text, "https://example.com/")
	if err != nil {
		t.Fatalf("snapshot.New() error = %v", err)
	}
	return s
}

// readTestdata loads a fixture page from testdata as a snapshot.
func readTestdata(t *testing.T, filename string) *snapshot.Snapshot {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", filename, err)
	}
	return mustSnapshot(t, string(data), "")
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
