package delimconv

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWriterWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records [][]string
		config  func(*Writer)
		want    string
	}{
		{
			name:    "basic",
			records: [][]string{{"a", "b", "c"}},
			want:    "a,b,c",
		},
		{
			name: "multipleRecords",
			records: [][]string{
				{"alpha", "beta"},
				{"gamma", "delta"},
			},
			want: "alpha,beta\ngamma,delta",
		},
		{
			name:    "emptyField",
			records: [][]string{{"", "b"}},
			want:    ",b",
		},
		{
			name:    "delimiterForcesQuote",
			records: [][]string{{"alpha,beta"}},
			want:    `"alpha,beta"`,
		},
		{
			name: "quoteEscaping",
			records: [][]string{
				{`he said "hello"`, "plain"},
			},
			want: `"he said ""hello""",plain`,
		},
		{
			name: "newlineForcesQuote",
			records: [][]string{
				{"multi\nline", "z"},
			},
			want: "\"multi\nline\",z",
		},
		{
			name: "carriageReturnForcesQuote",
			records: [][]string{
				{"a\rb"},
			},
			want: "\"a\rb\"",
		},
		{
			name: "edgeWhitespaceForcesQuote",
			records: [][]string{
				{" padded", "tail\t", "in side"},
			},
			want: "\" padded\",\"tail\t\",in side",
		},
		{
			name: "alwaysQuote",
			records: [][]string{
				{"alpha", ""},
			},
			config: func(w *Writer) {
				w.AlwaysQuote = true
			},
			want: `"alpha",""`,
		},
		{
			name: "singleQuoteAlways",
			records: [][]string{
				{"it's", `say "hi"`},
			},
			config: func(w *Writer) {
				w.AlwaysQuote = true
				w.Quote = '\''
			},
			want: `'it''s','say "hi"'`,
		},
		{
			name: "singleQuoteWhenNeeded",
			records: [][]string{
				{"it's", "plain", "a,b"},
			},
			config: func(w *Writer) {
				w.Quote = '\''
			},
			want: `'it''s',plain,'a,b'`,
		},
		{
			name: "multiCharDelimiter",
			records: [][]string{
				{"a:b", "c::d"},
			},
			config: func(w *Writer) {
				w.Delimiter = "::"
			},
			want: `a:b::"c::d"`,
		},
		{
			name: "pipeLeavesCommasAlone",
			records: [][]string{
				{"Smith, John", "45"},
			},
			config: func(w *Writer) {
				w.Delimiter = "|"
			},
			want: "Smith, John|45",
		},
		{
			name: "useCRLF",
			records: [][]string{
				{"a"},
				{"b"},
			},
			config: func(w *Writer) {
				w.UseCRLF = true
			},
			want: "a\r\nb",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			w := NewWriter(&buf, ",")
			if tc.config != nil {
				tc.config(w)
			}
			for _, rec := range tc.records {
				if err := w.Write(rec); err != nil {
					t.Fatalf("Write() error = %v", err)
				}
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Fatalf("unexpected output:\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestWriterWriteAll(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, ";")

	records := [][]string{
		{"alpha", "beta"},
		{"gamma", "delta"},
	}

	if err := w.WriteAll(records); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := "alpha;beta\ngamma;delta"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output got %q want %q", got, want)
	}
}

func TestWriterReset(t *testing.T) {
	t.Parallel()

	var buf1 bytes.Buffer
	var buf2 bytes.Buffer

	w := Writer{Delimiter: ","}
	w.Reset(&buf1)

	if err := w.WriteAll([][]string{{"a"}, {"b"}}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := buf1.String(); got != "a\nb" {
		t.Fatalf("unexpected buf1 contents %q", got)
	}

	w.Delimiter = ";"
	w.Reset(&buf2)
	if err := w.Write([]string{"x", "y"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := buf2.String(); got != "x;y" {
		t.Fatalf("unexpected buf2 contents %q", got)
	}
}

func TestWriterEmptyDelimiter(t *testing.T) {
	t.Parallel()

	w := NewWriter(&strings.Builder{}, "")
	if err := w.Write([]string{"a"}); !errors.Is(err, ErrEmptyDelimiter) {
		t.Fatalf("Write() error = %v, want ErrEmptyDelimiter", err)
	}
}

type flushFailWriter struct {
	fail error
}

func (f *flushFailWriter) Write([]byte) (int, error) {
	return 0, f.fail
}

func TestWriterFlushError(t *testing.T) {
	t.Parallel()

	exp := errors.New("flush failed")
	w := NewWriter(&flushFailWriter{fail: exp}, ",")

	if err := w.Write([]string{"a"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); !errors.Is(err, exp) {
		t.Fatalf("expected flush error %v, got %v", exp, err)
	}
	if err := w.Write([]string{"b"}); !errors.Is(err, exp) {
		t.Fatalf("Write() should return stored error %v, got %v", exp, err)
	}
	if err := w.Error(); !errors.Is(err, exp) {
		t.Fatalf("Error() should return %v, got %v", exp, err)
	}
}

func TestWriterNil(t *testing.T) {
	t.Parallel()

	var w *Writer
	if err := w.Write([]string{"a"}); !errors.Is(err, errNilWriter) {
		t.Fatalf("nil Write() error = %v, want errNilWriter", err)
	}
	if err := w.Flush(); !errors.Is(err, errNilWriter) {
		t.Fatalf("nil Flush() error = %v, want errNilWriter", err)
	}
	if err := w.Error(); !errors.Is(err, errNilWriter) {
		t.Fatalf("nil Error() = %v, want errNilWriter", err)
	}
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		grid      Grid
		delimiter string
		want      string
	}{
		{
			name: "csvToPipe",
			grid: Grid{
				{"name", "age"},
				{"Smith, John", "45"},
				{"Jane", "30"},
			},
			delimiter: "|",
			want:      "name|age\nSmith, John|45\nJane|30",
		},
		{
			name:      "requotesEscapedQuotes",
			grid:      Grid{{"a", `he said "hi"`, "c"}},
			delimiter: ",",
			want:      `a,"he said ""hi""",c`,
		},
		{
			name:      "tabTarget",
			grid:      Grid{{"a b", "c\td"}},
			delimiter: "\t",
			want:      "a b\t\"c\td\"",
		},
		{
			name:      "emptyGrid",
			delimiter: ",",
			want:      "",
		},
		{
			name:      "emptyDelimiter",
			grid:      Grid{{"a"}},
			delimiter: "",
			want:      "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Serialize(tc.grid, tc.delimiter); got != tc.want {
				t.Fatalf("Serialize() = %q, want %q", got, tc.want)
			}
		})
	}
}
