package contact

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// nameCandidates is the precedence order for the page's name.
var nameCandidates = []candidate{
	func(s *snapshot.Snapshot) string { return s.FirstText("h1") },
	func(s *snapshot.Snapshot) string { return s.FirstAttr(`meta[property="og:site_name"]`, "content") },
	func(s *snapshot.Snapshot) string { return s.Title() },
}

// Name returns the page's person or organisation name: the first <h1>, then
// the Open Graph site name, then the document title.
func Name(snap *snapshot.Snapshot) string {
	if snap == nil {
		return ""
	}
	return firstOf(snap, nameCandidates...)
}

// NameFromURL derives a display name from a URL's host: a leading "www." is
// dropped, the first label is kept and its first letter upper-cased.
// "https://www.sunriseclinic.com/about" yields "Sunriseclinic".
func NameFromURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}
