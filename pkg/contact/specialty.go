package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// maxDescriptionLen is the exclusive upper bound on a meta description used
// as a specialty. Longer descriptions are page blurbs, not labels.
const maxDescriptionLen = 200

// specialtyKeywords is the closed list searched in the visible text when no
// heading or description names a specialty.
var specialtyKeywords = []string{
	"Coach",
	"Therapist",
	"Psychiatrist",
	"Doctor",
	"MD",
	"PhD",
	"Counselor",
	"Hypnotherapist",
}

var specialtyKeywordPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(specialtyKeywords, "|") + `)\b`)

// personPattern: two consecutive capitalised words, e.g. "Jane Doe",
// "Ronald McDonald" or "José García". \b is ASCII-only in RE2, so the
// leading boundary is spelled out to accept accented initials.
var personPattern = regexp.MustCompile(`(?:^|[^\p{L}])\p{Lu}\p{Ll}+[ \t]+\p{Lu}[\p{L}'-]+`)

// organisationWords mark a name as belonging to a business rather than a
// person even when it is two capitalised words ("Sunrise Clinic").
var organisationWords = map[string]bool{
	"academy": true, "associates": true, "care": true, "center": true,
	"centre": true, "clinic": true, "clinics": true, "co": true,
	"company": true, "counseling": true, "group": true, "health": true,
	"healthcare": true, "hospital": true, "inc": true, "institute": true,
	"llc": true, "llp": true, "ltd": true, "medical": true,
	"network": true, "partners": true, "pc": true, "practice": true,
	"services": true, "solutions": true, "studio": true, "therapy": true,
	"wellness": true,
}

// IsPerson reports whether name looks like an individual's name: it holds a
// "First Last" pair of capitalised words and no organisation marker.
func IsPerson(name string) bool {
	if !personPattern.MatchString(name) {
		return false
	}
	for _, w := range strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '&' || r == '-' || r == '\t'
	}) {
		if organisationWords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

// specialtyCandidates is the precedence order for a person's specialty.
var specialtyCandidates = []candidate{
	func(s *snapshot.Snapshot) string { return s.FirstText("h2") },
	shortDescription,
	keywordInText,
}

// Specialty returns the specialty for a person page. It is always "" when
// name is not classified as a person.
func Specialty(snap *snapshot.Snapshot, name string) string {
	if snap == nil || !IsPerson(name) {
		return ""
	}
	return firstOf(snap, specialtyCandidates...)
}

func shortDescription(s *snapshot.Snapshot) string {
	desc := s.FirstAttr(`meta[name="description"]`, "content")
	if utf8.RuneCountInString(desc) >= maxDescriptionLen {
		return ""
	}
	return desc
}

// keywordInText returns the canonical spelling of the earliest specialty
// keyword in the visible text.
func keywordInText(s *snapshot.Snapshot) string {
	m := specialtyKeywordPattern.FindString(s.Text)
	if m == "" {
		return ""
	}
	for _, k := range specialtyKeywords {
		if strings.EqualFold(k, m) {
			return k
		}
	}
	return m
}
