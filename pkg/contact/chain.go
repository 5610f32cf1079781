package contact

import (
	"strings"

	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// candidate produces one possible value for a field.
type candidate func(*snapshot.Snapshot) string

// firstOf evaluates candidates in order and returns the first non-blank
// result, trimmed.
func firstOf(snap *snapshot.Snapshot, candidates ...candidate) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c(snap)); v != "" {
			return v
		}
	}
	return ""
}

// appendUnique appends v to list unless it is empty or already present.
func appendUnique(list []string, seen map[string]bool, v string) []string {
	if v == "" || seen[v] {
		return list
	}
	seen[v] = true
	return append(list, v)
}
