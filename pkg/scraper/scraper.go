package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/contactscrape/internal/logger"
	"github.com/jmylchreest/contactscrape/pkg/contact"
	"github.com/jmylchreest/contactscrape/pkg/fetcher"
	"github.com/jmylchreest/contactscrape/pkg/snapshot"
)

// ErrNoURL is returned when Scrape is called without a URL.
var ErrNoURL = errors.New("no URL provided")

// Result is the outcome of scraping one URL.
type Result struct {
	URL           string
	FetchedAt     time.Time
	FetchDuration time.Duration
	Record        contact.Record
	Error         error
}

// Scraper fetches pages and extracts contact records.
type Scraper struct {
	fetcher fetcher.Fetcher
	factory FetcherFactory
	engine  *contact.Engine
	config  Config
}

// New creates a Scraper. Without a fetcher option it uses a static fetcher.
func New(opts ...Option) *Scraper {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Scraper{
		factory: cfg.FetcherFactory,
		engine:  cfg.Engine,
		config:  cfg,
	}
	if s.engine == nil {
		s.engine = contact.New()
	}

	if s.factory == nil {
		if cfg.Fetcher != nil {
			s.fetcher = cfg.Fetcher
		} else {
			s.fetcher = fetcher.NewStatic(fetcher.StaticConfig{
				UserAgent: cfg.UserAgent,
				Timeout:   cfg.Timeout,
			})
		}
	}

	return s
}

// Scrape fetches url and extracts its contact record. No partial record is
// returned when acquisition fails.
func (s *Scraper) Scrape(ctx context.Context, url string) (*Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrNoURL
	}

	f, release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	fetchStart := time.Now()
	content, err := f.Fetch(ctx, url, fetcher.Options{
		UserAgent:       s.config.UserAgent,
		Timeout:         s.config.Timeout,
		WaitForSelector: s.config.WaitForSelector,
		WaitDuration:    s.config.WaitDuration,
	})
	fetchDuration := time.Since(fetchStart)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	snap, err := snapshot.FromContent(content)
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}

	record := s.engine.Extract(snap)
	if record.Name == "" {
		record.Name = contact.NameFromURL(url)
	}

	logger.DebugContext(ctx, "contact extracted",
		"url", url,
		"fetcher", f.Type(),
		"emails", len(record.Emails),
		"phones", len(record.Phones),
		"name", record.Name,
		"fetch_duration", fetchDuration)

	return &Result{
		URL:           url,
		FetchedAt:     content.FetchedAt,
		FetchDuration: fetchDuration,
		Record:        record,
	}, nil
}

// acquire returns the fetcher for one request and the function that releases
// it. Factory-made fetchers are closed exactly once, on every exit path.
func (s *Scraper) acquire() (fetcher.Fetcher, func(), error) {
	if s.factory == nil {
		return s.fetcher, func() {}, nil
	}

	f, err := s.factory()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start fetcher: %w", err)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close fetcher", "fetcher", f.Type(), "error", err)
			}
		})
	}
	return f, release, nil
}

// ScrapeMany scrapes urls with at most concurrency requests in flight.
// Failures are reported per URL in Result.Error. The channel is closed once
// every URL has been processed.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string, concurrency int) <-chan *Result {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(chan *Result, len(urls))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, url := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.Scrape(ctx, u)
			if err != nil {
				results <- &Result{URL: u, Error: err}
				return
			}
			results <- result
		}(url)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Close releases the shared fetcher.
func (s *Scraper) Close() error {
	if s.fetcher != nil {
		return s.fetcher.Close()
	}
	return nil
}
