// Package output serializes scrape results for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatTSV   Format = "tsv"
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONL, FormatYAML, FormatTSV}
}

// ParseFormat resolves a user-supplied format name. Matching is
// case-insensitive and the empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Writer serializes results. Buffered formats emit nothing until Close.
type Writer interface {
	// Write outputs a single result.
	Write(data any) error

	// Close writes anything still buffered.
	Close() error
}

// Row is implemented by results that can be rendered as a flat record.
type Row interface {
	Columns() []string
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	header []string
}

// WithPretty enables pretty-printing for JSON.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithHeader sets the header row written before the first TSV record.
func WithHeader(columns ...string) WriterOption {
	return func(c *writerConfig) {
		c.header = columns
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	case FormatTSV:
		return NewTSVWriter(w, cfg.header), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
