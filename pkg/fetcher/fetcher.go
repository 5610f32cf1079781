// Package fetcher defines the page snapshot provider contract.
// Implement the Fetcher interface to plug in a different rendering strategy
// (plain HTTP, headless browser, remote rendering service).
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page acquisition strategies.
type Fetcher interface {
	// Fetch retrieves one rendered page. Any per-request browser resource is
	// acquired and released inside Fetch, on every return path.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases long-lived resources (browser processes, etc.).
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "dynamic").
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string        // CSS selector that must be present before capture (browser fetchers)
	WaitDuration    time.Duration // Additional wait after load
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Text        string // Visible text; empty when the fetcher cannot render
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrAntiBot).
var (
	// ErrAntiBot indicates the site's anti-bot protection served a challenge page.
	ErrAntiBot = errors.New("anti-bot protection detected")
	// ErrChallengeTimeout indicates the page did not finish loading in time.
	ErrChallengeTimeout = errors.New("challenge timeout")
	// ErrHTTPStatus indicates the server answered with a non-success status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// DefaultUserAgent is a desktop Chrome identity; several directory sites
// serve reduced markup to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single page load.
const DefaultTimeout = 60 * time.Second
