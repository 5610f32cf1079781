// Package contact is the extraction engine: given a rendered page snapshot it
// infers a single best-guess contact record (name, specialty, location,
// emails, phones) using ordered heuristics.
//
// Every extractor is a pure function of the snapshot. A field that cannot be
// found is left empty; extraction never fails.
package contact

import (
	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// Record is the extracted contact information for one page.
// Empty strings and nil slices mean "not found".
type Record struct {
	Emails    []string `json:"emails" yaml:"emails"`
	Phones    []string `json:"phones" yaml:"phones"`
	Location  string   `json:"location,omitempty" yaml:"location,omitempty"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Specialty string   `json:"specialty,omitempty" yaml:"specialty,omitempty"`
}

// Email returns the first discovered email, or "".
func (r Record) Email() string {
	if len(r.Emails) == 0 {
		return ""
	}
	return r.Emails[0]
}

// Phone returns the first discovered phone, or "".
func (r Record) Phone() string {
	if len(r.Phones) == 0 {
		return ""
	}
	return r.Phones[0]
}

// Engine runs the field extractors with a fixed configuration.
// The zero value is not usable; create one with New.
type Engine struct {
	location LocationStrategy
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocationStrategy selects the single location heuristic used for every
// extraction made by the engine.
func WithLocationStrategy(s LocationStrategy) Option {
	return func(e *Engine) {
		e.location = s
	}
}

// New creates an Engine. Without options it uses the CityRegion location
// strategy.
func New(opts ...Option) *Engine {
	e := &Engine{location: CityRegion}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds a Record from snap. A nil snapshot yields an empty Record.
func (e *Engine) Extract(snap *snapshot.Snapshot) Record {
	if snap == nil {
		return Record{}
	}

	name := Name(snap)
	return Record{
		Emails:    Emails(snap),
		Phones:    Phones(snap),
		Location:  LocationWith(snap, e.location),
		Name:      name,
		Specialty: Specialty(snap, name),
	}
}

var defaultEngine = New()

// Extract runs the default engine over snap.
func Extract(snap *snapshot.Snapshot) Record {
	return defaultEngine.Extract(snap)
}
