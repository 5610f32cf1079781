package contact

import (
	"regexp"
	"strings"

	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

var emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)

// Emails returns the distinct addresses on the page: mailto links first, in
// document order, then free-text matches in the order they appear.
func Emails(snap *snapshot.Snapshot) []string {
	if snap == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string

	for _, href := range snap.Attrs(`a[href]`, "href") {
		out = appendUnique(out, seen, mailtoAddress(href))
	}

	for _, m := range emailPattern.FindAllString(snap.Text, -1) {
		out = appendUnique(out, seen, m)
	}
	return out
}

// mailtoAddress returns the address part of a mailto: href, or "" when href
// is not a mailto link or carries no address.
func mailtoAddress(href string) string {
	href = strings.TrimSpace(href)
	if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
		return ""
	}
	addr := href[len("mailto:"):]
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	return strings.TrimSpace(addr)
}
