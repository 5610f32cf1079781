package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter collects results and writes them as one JSON document on Close.
// A single result is written as an object, several as an array.
type JSONWriter struct {
	w     *bufio.Writer
	enc   *json.Encoder
	items []any
}

const jsonIndent = "  "

// NewJSONWriter creates a JSON writer. Pretty output is indented with two
// spaces.
func NewJSONWriter(w io.Writer, pretty bool) *JSONWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", jsonIndent)
	}
	return &JSONWriter{w: bw, enc: enc}
}

func (w *JSONWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

func (w *JSONWriter) Close() error {
	var err error
	switch len(w.items) {
	case 0:
		return nil
	case 1:
		err = w.enc.Encode(w.items[0])
	default:
		err = w.enc.Encode(w.items)
	}
	w.items = nil
	if err != nil {
		return err
	}
	return w.w.Flush()
}

// JSONLWriter writes one compact JSON object per line as results arrive.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{w: bw, enc: enc}
}

func (w *JSONLWriter) Write(data any) error {
	if err := w.enc.Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
