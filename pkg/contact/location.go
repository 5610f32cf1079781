package contact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// LocationStrategy names one location heuristic. An engine applies exactly
// one strategy per extraction; strategies are never blended.
type LocationStrategy string

const (
	// CityRegion looks for "City, ST" or "City, UK", preferring the page's
	// <address> element. An <address> block without that pattern is returned
	// verbatim.
	CityRegion LocationStrategy = "city-region"

	// CityStateZip looks for "City ST 12345" or "City ST 12345-6789",
	// preferring the page's <address> element.
	CityStateZip LocationStrategy = "city-state-zip"
)

// ParseLocationStrategy resolves a strategy name as used in configuration.
func ParseLocationStrategy(s string) (LocationStrategy, error) {
	switch LocationStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case CityRegion, "":
		return CityRegion, nil
	case CityStateZip:
		return CityStateZip, nil
	default:
		return "", fmt.Errorf("unknown location strategy: %s (use %s or %s)", s, CityRegion, CityStateZip)
	}
}

// Up to three capitalised words on one line, e.g. "Austin", "New York",
// "St. Louis", "Salt Lake City".
const cityWords = `[A-Z][A-Za-z.'-]*(?:[ \t]+[A-Z][A-Za-z.'-]*){0,2}`

// cityRegionPattern cannot tell a city from a person: "Jane Doe, MD" reads
// as city "Jane Doe" in region "MD". Pages where that matters should use
// CityStateZip, which needs a postal code.
var (
	cityRegionPattern   = regexp.MustCompile(`\b(` + cityWords + `),[ \t]*([A-Z]{2}|UK)\b`)
	cityStateZipPattern = regexp.MustCompile(`\b` + cityWords + `,?[ \t]+[A-Z]{2}[ \t]+\d{5}(?:-\d{4})?\b`)
)

// Location returns the best-guess location using the CityRegion strategy.
func Location(snap *snapshot.Snapshot) string {
	return LocationWith(snap, CityRegion)
}

// LocationWith returns the best-guess location using strategy.
func LocationWith(snap *snapshot.Snapshot, strategy LocationStrategy) string {
	if snap == nil {
		return ""
	}
	if strategy == CityStateZip {
		return locateCityStateZip(snap)
	}
	return locateCityRegion(snap)
}

func locateCityRegion(snap *snapshot.Snapshot) string {
	if addr, ok := addressBlock(snap); ok {
		if m := matchCityRegion(addr); m != "" {
			return m
		}
		return snapshot.CollapseSpace(addr)
	}
	return matchCityRegion(snap.Text)
}

func locateCityStateZip(snap *snapshot.Snapshot) string {
	if addr, ok := addressBlock(snap); ok {
		if m := cityStateZipPattern.FindString(addr); m != "" {
			return m
		}
	}
	return cityStateZipPattern.FindString(snap.Text)
}

// matchCityRegion returns "City, ST" for the first match in text.
func matchCityRegion(text string) string {
	m := cityRegionPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + ", " + m[2]
}

// addressBlock returns the visible text of the first <address> element.
// Line structure is kept so the city pattern cannot span lines.
func addressBlock(snap *snapshot.Snapshot) (string, bool) {
	if snap.Doc == nil {
		return "", false
	}
	sel := snap.Doc.Find("address").First()
	if sel.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(snapshot.VisibleText(sel))
	return text, text != ""
}
