package contact

import (
	"regexp"
	"strings"

	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// phonePattern: optional country code, optional (parenthesised) area code of
// 2-4 digits, then two groups of 3-4 digits. Anything shaped like this
// matches, dates and reference numbers included.
var phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?\(?\d{2,4}\)?[\s.-]?\d{3,4}[\s.-]?\d{3,4}`)

// Phones returns the distinct phone-like strings in the visible text, in the
// order they first appear.
func Phones(snap *snapshot.Snapshot) []string {
	if snap == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range phonePattern.FindAllString(snap.Text, -1) {
		out = appendUnique(out, seen, strings.TrimSpace(m))
	}
	return out
}
