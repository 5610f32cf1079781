package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaticFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title> Dr. Jane Doe </title></head><body><h1>Dr. Jane Doe</h1></body></html>`))
	}))
	defer srv.Close()

	f := NewStatic(StaticConfig{})
	defer func() { _ = f.Close() }()

	content, err := f.Fetch(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if content.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", content.StatusCode)
	}
	if content.Title != "Dr. Jane Doe" {
		t.Errorf("Title = %q", content.Title)
	}
	if content.Text != "" {
		t.Errorf("static fetch should leave Text empty, got %q", content.Text)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want default", gotUA)
	}
	if content.FetchedAt.IsZero() {
		t.Error("FetchedAt should be set")
	}
}

func TestStaticFetcher_UserAgentOverride(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	f := NewStatic(StaticConfig{UserAgent: "config-agent"})
	if _, err := f.Fetch(context.Background(), srv.URL, Options{UserAgent: "request-agent"}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotUA != "request-agent" {
		t.Errorf("User-Agent = %q, want request-agent", gotUA)
	}
}

func TestStaticFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewStatic(StaticConfig{Timeout: 5 * time.Second})
	content, err := f.Fetch(context.Background(), srv.URL, Options{})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("expected ErrHTTPStatus, got %v", err)
	}
	if content.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", content.StatusCode)
	}
}

func TestStaticFetcher_ChallengePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Just a moment...</title></head><body></body></html>`))
	}))
	defer srv.Close()

	f := NewStatic(StaticConfig{})
	_, err := f.Fetch(context.Background(), srv.URL, Options{})
	if !errors.Is(err, ErrAntiBot) {
		t.Errorf("expected ErrAntiBot, got %v", err)
	}
}

func TestStaticFetcher_InvalidURL(t *testing.T) {
	f := NewStatic(StaticConfig{})
	if _, err := f.Fetch(context.Background(), "://nope", Options{}); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestNewStatic_Defaults(t *testing.T) {
	f := NewStatic(StaticConfig{})
	if f.config.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", f.config.UserAgent)
	}
	if f.config.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v", f.config.Timeout)
	}
	if f.Type() != "static" {
		t.Errorf("Type() = %q", f.Type())
	}
}

func TestDetectChallengePage(t *testing.T) {
	tests := []struct {
		name  string
		title string
		html  string
		want  string
	}{
		{"cloudflare title", "Just a moment...", "", "cloudflare"},
		{"turnstile", "", `<div class="cf-turnstile"></div>`, "cloudflare-turnstile"},
		{"hcaptcha", "", `<script src="https://hcaptcha.com/1/api.js"></script>`, "hcaptcha"},
		{"recaptcha", "", `<div class="g-recaptcha"></div>`, "recaptcha"},
		{"access denied", "Access Denied", "", "anti-bot"},
		{"ordinary page", "Dr. Jane Doe", "<h1>Dr. Jane Doe</h1>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectChallengePage(tt.title, tt.html); got != tt.want {
				t.Errorf("DetectChallengePage() = %q, want %q", got, tt.want)
			}
		})
	}
}
