package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TSVWriter writes one tab-separated line per result. Results must
// implement Row. Tabs and newlines inside a field are folded to spaces so
// every record stays on one line.
type TSVWriter struct {
	w           *bufio.Writer
	header      []string
	wroteHeader bool
}

// NewTSVWriter creates a TSV writer. A nil header suppresses the header line.
func NewTSVWriter(w io.Writer, header []string) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(w), header: header}
}

func (w *TSVWriter) Write(data any) error {
	row, ok := data.(Row)
	if !ok {
		return fmt.Errorf("tsv output: %T does not provide columns", data)
	}

	if !w.wroteHeader && len(w.header) > 0 {
		if err := w.writeLine(w.header); err != nil {
			return err
		}
	}
	w.wroteHeader = true

	if err := w.writeLine(row.Columns()); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *TSVWriter) Close() error {
	return w.w.Flush()
}

var tsvFieldReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func (w *TSVWriter) writeLine(fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.w.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := w.w.WriteString(tsvFieldReplacer.Replace(f)); err != nil {
			return err
		}
	}
	return w.w.WriteByte('\n')
}
