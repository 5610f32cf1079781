package snapshot

import (
	"testing"

	"github.com/jmylchreest/contactscrape/pkg/fetcher"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Sample Page </title>
  <meta property="og:site_name" content=" Sample Site ">
  <style>body { color: red; }</style>
</head>
<body>
  <h1>Hello <em>World</em></h1>
  <p>First line<br>Second   line</p>
  <ul><li>One</li><li>Two</li></ul>
  <a href="mailto:a@x.com">A</a> <a href="/b">B</a> <a>C</a>
  <script>var hidden = "do not show";</script>
  <noscript>Enable JavaScript</noscript>
</body>
</html>`

func TestNew_DerivesTextWhenEmpty(t *testing.T) {
	s, err := New(samplePage, "", "https://example.com/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := "Hello World\nFirst line\nSecond line\nOne\nTwo\nA B C"
	if s.Text != want {
		t.Errorf("Text = %q, want %q", s.Text, want)
	}
	if s.URL != "https://example.com/" {
		t.Errorf("URL = %q", s.URL)
	}
}

func TestNew_KeepsProvidedText(t *testing.T) {
	s, err := New(samplePage, "rendered text", "https://example.com/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Text != "rendered text" {
		t.Errorf("Text = %q, want provided text", s.Text)
	}
}

func TestFromContent(t *testing.T) {
	s, err := FromContent(fetcher.Content{
		URL:  "https://example.com/page",
		HTML: samplePage,
		Text: "inner text",
	})
	if err != nil {
		t.Fatalf("FromContent() error = %v", err)
	}
	if s.URL != "https://example.com/page" || s.Text != "inner text" {
		t.Errorf("unexpected snapshot: url=%q text=%q", s.URL, s.Text)
	}
}

func TestSnapshot_Queries(t *testing.T) {
	s, err := New(samplePage, "", "https://example.com/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := s.Title(); got != "Sample Page" {
		t.Errorf("Title() = %q", got)
	}
	if got := s.FirstText("h1"); got != "Hello World" {
		t.Errorf("FirstText(h1) = %q", got)
	}
	if got := s.FirstText("h2"); got != "" {
		t.Errorf("FirstText(h2) = %q, want empty", got)
	}
	if got := s.FirstAttr(`meta[property="og:site_name"]`, "content"); got != "Sample Site" {
		t.Errorf("FirstAttr() = %q", got)
	}

	hrefs := s.Attrs("a", "href")
	if len(hrefs) != 2 || hrefs[0] != "mailto:a@x.com" || hrefs[1] != "/b" {
		t.Errorf("Attrs() = %v", hrefs)
	}
}

func TestSnapshot_TitleSkipsSVG(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"head title", `<head><title>Page</title></head><body></body>`, "Page"},
		{"svg only", `<body><svg><title>Icon</title></svg></body>`, ""},
		{"head title with svg icon", `<head><title>Page</title></head><body><svg><title>Icon</title></svg></body>`, "Page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.html, "", "")
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := s.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshot_NilSafe(t *testing.T) {
	var s *Snapshot
	if s.Title() != "" || s.FirstText("h1") != "" || s.FirstAttr("a", "href") != "" || s.Attrs("a", "href") != nil {
		t.Error("nil snapshot queries should return zero values")
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"  a  ":          "a",
		"a \n\t b":       "a b",
		"Dr.  Jane Doe ": "Dr. Jane Doe",
	}
	for in, want := range tests {
		if got := CollapseSpace(in); got != want {
			t.Errorf("CollapseSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
