// Package scraper turns a URL into a contact record: it acquires a rendered
// page through a fetcher, builds a snapshot and runs the extraction engine.
package scraper

import (
	"time"

	"github.com/jmylchreest/contactscrape/pkg/contact"
	"github.com/jmylchreest/contactscrape/pkg/fetcher"
)

// FetcherFactory creates a fetcher for a single request. The scraper closes
// the returned fetcher when the request finishes.
type FetcherFactory func() (fetcher.Fetcher, error)

// Config holds all Scraper configuration.
type Config struct {
	// Fetcher is shared by every request and closed by Scraper.Close.
	Fetcher fetcher.Fetcher

	// FetcherFactory, when set, takes precedence over Fetcher.
	FetcherFactory FetcherFactory

	Engine          *contact.Engine
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string
	WaitDuration    time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: fetcher.DefaultUserAgent,
		Timeout:   fetcher.DefaultTimeout,
	}
}

// Option configures a Scraper.
type Option func(*Config)

// WithFetcher sets a fetcher shared across requests.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithFetcherFactory acquires a fresh fetcher for every request.
func WithFetcherFactory(fn FetcherFactory) Option {
	return func(c *Config) {
		c.FetcherFactory = fn
	}
}

// WithEngine sets the extraction engine.
func WithEngine(e *contact.Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithLocationStrategy builds the engine with the given location heuristic.
func WithLocationStrategy(s contact.LocationStrategy) Option {
	return func(c *Config) {
		c.Engine = contact.New(contact.WithLocationStrategy(s))
	}
}

// WithUserAgent sets the user agent sent by the fetcher.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout bounds page acquisition.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithWaitForSelector makes browser fetchers wait until selector is present.
func WithWaitForSelector(selector string) Option {
	return func(c *Config) {
		c.WaitForSelector = selector
	}
}

// WithWaitDuration adds a fixed pause after the page settles, for sites that
// render contact blocks late.
func WithWaitDuration(d time.Duration) Option {
	return func(c *Config) {
		c.WaitDuration = d
	}
}
