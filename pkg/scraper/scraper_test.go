package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmylchreest/contactscrape/pkg/contact"
	"github.com/jmylchreest/contactscrape/pkg/fetcher"
)

const bareHTML = `<html><body><p>Call 512-555-0100 or mail <a href="mailto:info@example.com">us</a></p></body></html>`

const profileHTML = `<html><head><title>Profile</title></head><body>
<h1>Jane Doe</h1><h2>Hypnotherapist</h2>
<address>Austin, TX</address>
<a href="mailto:jane@clinic.com">Email</a>
<p>(512) 555-0199</p>
</body></html>`

// fakeFetcher serves canned HTML and records how it was used.
type fakeFetcher struct {
	html     string
	err      error
	panicMsg string
	delay    time.Duration

	calls    atomic.Int32
	closes   atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu       sync.Mutex
	lastOpts fetcher.Options
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, opts fetcher.Options) (fetcher.Content, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.lastOpts = opts
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return fetcher.Content{}, f.err
	}
	return fetcher.Content{URL: url, HTML: f.html, FetchedAt: time.Now()}, nil
}

func (f *fakeFetcher) Close() error {
	f.closes.Add(1)
	return nil
}

func (f *fakeFetcher) Type() string { return "fake" }

func TestScrape_ExtractsRecord(t *testing.T) {
	f := &fakeFetcher{html: profileHTML}
	s := New(WithFetcher(f))

	result, err := s.Scrape(context.Background(), "https://jane.example.com")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	rec := result.Record
	if rec.Name != "Jane Doe" {
		t.Errorf("Name = %q, want Jane Doe", rec.Name)
	}
	if rec.Specialty != "Hypnotherapist" {
		t.Errorf("Specialty = %q, want Hypnotherapist", rec.Specialty)
	}
	if rec.Location != "Austin, TX" {
		t.Errorf("Location = %q, want Austin, TX", rec.Location)
	}
	if rec.Email() != "jane@clinic.com" {
		t.Errorf("Email = %q, want jane@clinic.com", rec.Email())
	}
	if rec.Phone() != "(512) 555-0199" {
		t.Errorf("Phone = %q, want (512) 555-0199", rec.Phone())
	}
	if result.URL != "https://jane.example.com" || result.FetchedAt.IsZero() {
		t.Errorf("unexpected result metadata: %+v", result)
	}
}

func TestScrape_NameFallsBackToHost(t *testing.T) {
	s := New(WithFetcher(&fakeFetcher{html: bareHTML}))

	result, err := s.Scrape(context.Background(), "https://www.sunrise.com/about")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if result.Record.Name != "Sunrise" {
		t.Errorf("Name = %q, want Sunrise", result.Record.Name)
	}
	if result.Record.Specialty != "" {
		t.Errorf("Specialty = %q, want empty for a host-derived name", result.Record.Specialty)
	}
	if got := result.Record.Phones; len(got) != 1 || got[0] != "512-555-0100" {
		t.Errorf("Phones = %v", got)
	}
}

func TestScrape_NoURL(t *testing.T) {
	f := &fakeFetcher{html: bareHTML}
	s := New(WithFetcher(f))

	for _, url := range []string{"", "   "} {
		if _, err := s.Scrape(context.Background(), url); !errors.Is(err, ErrNoURL) {
			t.Errorf("Scrape(%q) error = %v, want ErrNoURL", url, err)
		}
	}
	if f.calls.Load() != 0 {
		t.Error("fetcher should not be called without a URL")
	}
}

func TestScrape_FetchErrorIsWrapped(t *testing.T) {
	s := New(WithFetcher(&fakeFetcher{err: fetcher.ErrAntiBot}))

	result, err := s.Scrape(context.Background(), "https://blocked.example")
	if !errors.Is(err, fetcher.ErrAntiBot) {
		t.Fatalf("error = %v, want ErrAntiBot", err)
	}
	if result != nil {
		t.Error("no partial result expected on fetch failure")
	}
}

func TestScrape_PassesFetchOptions(t *testing.T) {
	f := &fakeFetcher{html: bareHTML}
	s := New(
		WithFetcher(f),
		WithUserAgent("test-agent"),
		WithTimeout(5*time.Second),
		WithWaitForSelector("h1"),
		WithWaitDuration(250*time.Millisecond),
	)

	if _, err := s.Scrape(context.Background(), "https://a.example"); err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	want := fetcher.Options{
		UserAgent:       "test-agent",
		Timeout:         5 * time.Second,
		WaitForSelector: "h1",
		WaitDuration:    250 * time.Millisecond,
	}
	if f.lastOpts != want {
		t.Errorf("options = %+v, want %+v", f.lastOpts, want)
	}
}

func TestScrape_LocationStrategy(t *testing.T) {
	html := `<html><body><h1>Jane Doe</h1><p>Suite 4, Austin, TX 78701</p></body></html>`
	s := New(WithFetcher(&fakeFetcher{html: html}), WithLocationStrategy(contact.CityStateZip))

	result, err := s.Scrape(context.Background(), "https://a.example")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if result.Record.Location != "Austin, TX 78701" {
		t.Errorf("Location = %q, want Austin, TX 78701", result.Record.Location)
	}
}

func TestScrape_FactoryClosesPerRequest(t *testing.T) {
	var made []*fakeFetcher
	s := New(WithFetcherFactory(func() (fetcher.Fetcher, error) {
		f := &fakeFetcher{html: bareHTML}
		made = append(made, f)
		return f, nil
	}))

	for i := 0; i < 2; i++ {
		if _, err := s.Scrape(context.Background(), "https://a.example"); err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
	}

	if len(made) != 2 {
		t.Fatalf("factory called %d times, want 2", len(made))
	}
	for i, f := range made {
		if n := f.closes.Load(); n != 1 {
			t.Errorf("fetcher %d closed %d times, want 1", i, n)
		}
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestScrape_FactoryClosesOnFailureAndPanic(t *testing.T) {
	failing := &fakeFetcher{err: errors.New("navigation failed")}
	s := New(WithFetcherFactory(func() (fetcher.Fetcher, error) { return failing, nil }))
	if _, err := s.Scrape(context.Background(), "https://a.example"); err == nil {
		t.Fatal("expected fetch error")
	}
	if n := failing.closes.Load(); n != 1 {
		t.Errorf("failing fetcher closed %d times, want 1", n)
	}

	panicking := &fakeFetcher{panicMsg: "renderer crashed"}
	s = New(WithFetcherFactory(func() (fetcher.Fetcher, error) { return panicking, nil }))
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_, _ = s.Scrape(context.Background(), "https://a.example")
	}()
	if n := panicking.closes.Load(); n != 1 {
		t.Errorf("panicking fetcher closed %d times, want 1", n)
	}
}

func TestScrape_FactoryError(t *testing.T) {
	s := New(WithFetcherFactory(func() (fetcher.Fetcher, error) {
		return nil, errors.New("no browser")
	}))
	_, err := s.Scrape(context.Background(), "https://a.example")
	if err == nil || !strings.Contains(err.Error(), "no browser") {
		t.Fatalf("error = %v, want factory error", err)
	}
}

func TestScrapeMany(t *testing.T) {
	f := &fakeFetcher{html: bareHTML, delay: 10 * time.Millisecond}
	s := New(WithFetcher(f))

	urls := []string{"https://a.example", "", "https://b.example", "https://c.example", "https://d.example"}
	var ok, failed int
	for r := range s.ScrapeMany(context.Background(), urls, 2) {
		if r.Error != nil {
			if !errors.Is(r.Error, ErrNoURL) {
				t.Errorf("unexpected error for %q: %v", r.URL, r.Error)
			}
			failed++
			continue
		}
		ok++
	}

	if ok != 4 || failed != 1 {
		t.Errorf("ok=%d failed=%d, want 4 and 1", ok, failed)
	}
	if m := f.maxSeen.Load(); m > 2 {
		t.Errorf("saw %d concurrent fetches, want at most 2", m)
	}
}

func TestClose_SharedFetcher(t *testing.T) {
	f := &fakeFetcher{}
	if err := New(WithFetcher(f)).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if f.closes.Load() != 1 {
		t.Errorf("closes = %d, want 1", f.closes.Load())
	}
}

func TestContactView(t *testing.T) {
	r := &Result{
		URL: "https://a.example",
		Record: contact.Record{
			Emails: []string{"a@x.com", "b@x.com"},
			Name:   "Jane Doe",
		},
	}

	data, err := json.Marshal(r.Contact())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"url":"https://a.example","name":"Jane Doe","specialty":null,"location":null,` +
		`"email":"a@x.com","allEmails":["a@x.com","b@x.com"],"phone":null,"allPhones":[]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}

	cols := r.Contact().Columns()
	wantCols := []string{"https://a.example", "a@x.com", "Jane Doe", "", "", ""}
	if strings.Join(cols, "|") != strings.Join(wantCols, "|") {
		t.Errorf("Columns() = %q, want %q", cols, wantCols)
	}
	if len(cols) != len(TSVHeader) {
		t.Errorf("Columns() has %d fields, header has %d", len(cols), len(TSVHeader))
	}
}

func TestEmailView(t *testing.T) {
	data, err := json.Marshal((&Result{}).Emails())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"email":null,"allEmails":[]}` {
		t.Errorf("json = %s", data)
	}
}

func TestContactView_Error(t *testing.T) {
	r := &Result{URL: "https://a.example", Error: errors.New("boom")}
	if got := r.Contact().Error; got != "boom" {
		t.Errorf("Error = %q, want boom", got)
	}
}
