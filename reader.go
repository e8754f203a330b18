package delimconv

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	defaultBufferSize = 1 << 12

	quote = '"'
)

var (
	// ErrEmptyDelimiter is returned when a resolved delimiter is the empty string.
	ErrEmptyDelimiter = errors.New("delimconv: delimiter cannot be empty")
	// ErrEmptyInput is returned when the input text is empty or whitespace only.
	ErrEmptyInput = errors.New("delimconv: input is empty")
	// ErrNoDataFound is returned when non-empty input produced no rows.
	ErrNoDataFound = errors.New("delimconv: no data found, check the input format")
)

// Reader splits delimited text into rows. It reads physical lines and keeps
// a quoted field open across line breaks until its closing quote is seen.
//
// Parsing is permissive: a quote inside a quoted field that neither escapes
// another quote nor precedes the delimiter, a CR or the end of the line is
// kept as a literal character, and a quoted field left open at the end of
// input is flushed as is.
type Reader struct {
	src *bufio.Reader

	// Delimiter separates fields. It is matched literally and may be longer
	// than one byte.
	Delimiter string

	line     int
	more     bool
	finished bool

	inQuotes bool
	quoted   bool
	field    []byte
	record   []string
}

// NewReader creates a Reader that consumes text from r, panicking if r is nil.
func NewReader(r io.Reader, delimiter string) *Reader {
	if r == nil {
		panic("delimconv: reader source cannot be nil")
	}

	return &Reader{
		src:       bufio.NewReaderSize(r, defaultBufferSize),
		Delimiter: delimiter,
		more:      true,
		field:     make([]byte, 0, 64),
	}
}

// Read returns the fields of the next row. Blank lines outside quoted fields
// are skipped and never produce rows; io.EOF signals that no rows remain.
func (r *Reader) Read() ([]string, error) {
	if r == nil || r.src == nil {
		return nil, io.EOF
	}
	if r.Delimiter == "" {
		return nil, ErrEmptyDelimiter
	}

	for {
		line, ok, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			// Input ended inside a quoted field: keep what was collected.
			if r.inQuotes {
				r.inQuotes = false
				r.endField()
				return r.takeRecord(), nil
			}
			return nil, io.EOF
		}

		if r.inQuotes {
			r.field = append(r.field, '\n')
		} else if strings.TrimSpace(line) == "" {
			continue
		}

		r.scanLine(line)
		if !r.inQuotes {
			r.endField()
			return r.takeRecord(), nil
		}
	}
}

// ReadAll collects every remaining row. It returns nil records on error.
func (r *Reader) ReadAll() (records [][]string, err error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// Line reports how many physical lines have been consumed so far.
func (r *Reader) Line() int {
	if r == nil {
		return 0
	}
	return r.line
}

// readLine returns the next physical line without its \n or \r\n terminator.
// Input that ends with a line break is followed by one final empty line.
func (r *Reader) readLine() (string, bool, error) {
	if r.finished {
		return "", false, nil
	}

	s, err := r.src.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", false, err
		}
		r.finished = true
		if s == "" && !r.more {
			return "", false, nil
		}
	}

	r.line++
	r.more = strings.HasSuffix(s, "\n")
	if r.more {
		s = strings.TrimSuffix(s[:len(s)-1], "\r")
	}
	return s, true, nil
}

// scanLine feeds one physical line through the field state machine.
func (r *Reader) scanLine(line string) {
	delim := r.Delimiter

	for i := 0; i < len(line); i++ {
		c := line[i]

		if r.inQuotes {
			if c != quote {
				r.field = append(r.field, c)
				continue
			}
			rest := line[i+1:]
			switch {
			case len(rest) > 0 && rest[0] == quote:
				// "" inside quotes is one literal quote.
				r.field = append(r.field, quote)
				i++
			case rest == "" || strings.HasPrefix(rest, delim):
				r.inQuotes = false
			case rest[0] == '\r':
				// A lone CR after the closing quote ends the field like a line break.
				r.inQuotes = false
				i++
			default:
				r.field = append(r.field, quote)
			}
			continue
		}

		switch {
		case c == quote:
			// Padding before the opening quote is not part of the value.
			if isBlank(r.field) {
				r.field = r.field[:0]
			}
			r.inQuotes = true
			r.quoted = true
		case c == delim[0] && strings.HasPrefix(line[i:], delim):
			r.endField()
			i += len(delim) - 1
		default:
			r.field = append(r.field, c)
		}
	}
}

// endField moves the accumulated field onto the current record. Unquoted
// fields are trimmed; quoted fields keep their whitespace.
func (r *Reader) endField() {
	f := string(r.field)
	if !r.quoted {
		f = strings.TrimSpace(f)
	}
	r.record = append(r.record, f)
	r.field = r.field[:0]
	r.quoted = false
}

func (r *Reader) takeRecord() []string {
	record := r.record
	r.record = nil
	return record
}

func isBlank(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\v', '\f', '\r':
		default:
			return false
		}
	}
	return true
}

// Parse splits text into a rectangular Grid: rows shorter than the widest
// row are padded with empty fields.
func Parse(text, delimiter string) (Grid, error) {
	if delimiter == "" {
		return nil, ErrEmptyDelimiter
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	records, err := NewReader(strings.NewReader(text), delimiter).ReadAll()
	if err != nil {
		return nil, err
	}
	return Grid(records).pad(), nil
}
