package delimconv

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	errNilWriter      = errors.New("delimconv: writer is nil")
	errWriterNoTarget = errors.New("delimconv: writer destination cannot be nil")
)

// Writer emits rows joined by Delimiter. Rows are separated by a line break;
// nothing follows the last row.
type Writer struct {
	dst *bufio.Writer

	// Delimiter is written literally between fields.
	Delimiter string
	// UseCRLF separates rows with \r\n instead of \n.
	UseCRLF bool
	// AlwaysQuote forces quoting for all fields when enabled.
	AlwaysQuote bool
	// Quote is the quote character. Zero means '"'.
	Quote byte

	started bool
	err     error
}

// NewWriter creates a Writer that buffers output for w.
func NewWriter(w io.Writer, delimiter string) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:       bufio.NewWriterSize(w, defaultBufferSize),
		Delimiter: delimiter,
	}
}

// Reset updates the underlying writer while preserving the configuration flags.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.started = false
	w.err = nil
}

// Write emits a single row, preceded by a row separator unless it is the
// first row since the writer was created or reset.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if w.Delimiter == "" {
		return ErrEmptyDelimiter
	}

	if w.started {
		sep := "\n"
		if w.UseCRLF {
			sep = "\r\n"
		}
		if _, err := w.dst.WriteString(sep); err != nil {
			w.err = err
			return err
		}
	}
	w.started = true

	for i := range record {
		if i > 0 {
			if _, err := w.dst.WriteString(w.Delimiter); err != nil {
				w.err = err
				return err
			}
		}
		if err := w.writeField(record[i]); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// WriteAll writes multiple rows, stopping at the first error.
func (w *Writer) WriteAll(records [][]string) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) writeField(field string) error {
	q := w.Quote
	if q == 0 {
		q = quote
	}
	if !w.AlwaysQuote && !fieldNeedsQuote(field, w.Delimiter) && strings.IndexByte(field, q) < 0 {
		_, err := w.dst.WriteString(field)
		return err
	}
	if err := w.dst.WriteByte(q); err != nil {
		return err
	}

	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == q {
			if _, err := w.dst.WriteString(field[start : i+1]); err != nil {
				return err
			}
			if err := w.dst.WriteByte(q); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if _, err := w.dst.WriteString(field[start:]); err != nil {
		return err
	}
	return w.dst.WriteByte(q)
}

// fieldNeedsQuote reports whether field would not survive a re-parse with
// delimiter unless quoted.
func fieldNeedsQuote(field, delimiter string) bool {
	if field == "" {
		return false
	}
	if strings.Contains(field, delimiter) || strings.ContainsAny(field, "\"\r\n") {
		return true
	}
	return strings.TrimSpace(field) != field
}

// Serialize renders grid with delimiter between fields and \n between rows.
// An empty delimiter yields "": use a Writer to observe ErrEmptyDelimiter.
func Serialize(grid Grid, delimiter string) string {
	var sb strings.Builder
	w := NewWriter(&sb, delimiter)
	_ = w.WriteAll(grid)
	_ = w.Flush()
	return sb.String()
}
