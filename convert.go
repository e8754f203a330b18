package delimconv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sides of a conversion, as reported by DelimiterError.
const (
	SideSource = "source"
	SideTarget = "target"
)

// DelimiterError reports which delimiter of a conversion could not be used.
type DelimiterError struct {
	Side string
	Err  error
}

// Error formats the failing side together with Err.
func (e *DelimiterError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("delimconv: %s delimiter: %v", e.Side, e.Err)
}

// Unwrap returns the underlying Err so DelimiterError participates in errors.Is.
func (e *DelimiterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Quote styles accepted by Options.Quote.
const (
	QuoteAuto   = "auto"
	QuoteNone   = "none"
	QuoteDouble = "double"
	QuoteSingle = "single"
)

// ErrInvalidOption is returned when Options holds a value outside its range.
var ErrInvalidOption = errors.New("delimconv: invalid option")

// Options are optional post-processing steps applied by ConvertSelections.
type Options struct {
	// RemoveDuplicateRows drops every row equal to an earlier row.
	RemoveDuplicateRows bool `json:"remove_duplicate_rows,omitempty" yaml:"remove_duplicate_rows"`
	// StripNewlines removes every \n and \r\n from the output.
	StripNewlines bool `json:"strip_newlines,omitempty" yaml:"strip_newlines"`
	// Quote picks how fields are quoted. Empty, QuoteAuto and QuoteNone quote
	// only fields that would not survive a re-parse; QuoteDouble and
	// QuoteSingle wrap every field in " or '.
	Quote string `json:"quote,omitempty" yaml:"quote"`
	// WrapOpen and WrapClose are added around every field before it is
	// serialized.
	WrapOpen  string `json:"wrap_open,omitempty" yaml:"wrap_open"`
	WrapClose string `json:"wrap_close,omitempty" yaml:"wrap_close"`
	// Interval inserts an empty row after every Interval rows. Zero disables it.
	Interval int `json:"interval,omitempty" yaml:"interval"`
	// CRLF separates output rows with \r\n.
	CRLF bool `json:"crlf,omitempty" yaml:"crlf"`
}

// Validate reports an ErrInvalidOption for an unknown Quote style or a
// negative Interval.
func (o Options) Validate() error {
	if _, _, err := o.quoting(); err != nil {
		return err
	}
	if o.Interval < 0 {
		return fmt.Errorf("%w: interval %d is negative", ErrInvalidOption, o.Interval)
	}
	return nil
}

// quoting maps Quote onto a quote character and whether every field is quoted.
func (o Options) quoting() (byte, bool, error) {
	switch strings.ToLower(strings.TrimSpace(o.Quote)) {
	case "", QuoteAuto, QuoteNone:
		return quote, false, nil
	case QuoteDouble:
		return quote, true, nil
	case QuoteSingle:
		return '\'', true, nil
	}
	return 0, false, fmt.Errorf("%w: unknown quote style %q", ErrInvalidOption, o.Quote)
}

// Result is the output of a conversion. Rows and Columns describe the grid
// that was serialized.
type Result struct {
	Output  string `json:"output"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

var newlineStripper = strings.NewReplacer("\r\n", "", "\n", "")

// Convert re-serializes text from the source delimiter to the target
// delimiter. Selections are resolved with ResolveDelimiter.
func Convert(text, sourceSelection, sourceCustom, targetSelection, targetCustom string) (Result, error) {
	return ConvertSelections(text,
		Selection{Value: sourceSelection, Custom: sourceCustom},
		Selection{Value: targetSelection, Custom: targetCustom},
		Options{},
	)
}

// ConvertSelections runs the full pipeline. Both delimiters are checked
// before text is looked at; an empty one yields a *DelimiterError wrapping
// ErrEmptyDelimiter. Result.Rows does not count the empty rows inserted by
// Options.Interval.
func ConvertSelections(text string, source, target Selection, opts Options) (Result, error) {
	src := source.Resolve()
	if src == "" {
		return Result{}, &DelimiterError{Side: SideSource, Err: ErrEmptyDelimiter}
	}
	dst := target.Resolve()
	if dst == "" {
		return Result{}, &DelimiterError{Side: SideTarget, Err: ErrEmptyDelimiter}
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	quoteChar, alwaysQuote, _ := opts.quoting()

	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyInput
	}

	grid, err := Parse(trimBlankLines(text), src)
	if err != nil {
		return Result{}, err
	}
	if len(grid) == 0 {
		return Result{}, ErrNoDataFound
	}

	if opts.RemoveDuplicateRows {
		grid = removeDuplicateRows(grid)
	}
	wrapFields(grid, opts.WrapOpen, opts.WrapClose)

	var sb strings.Builder
	w := NewWriter(&sb, dst)
	w.Quote = quoteChar
	w.AlwaysQuote = alwaysQuote
	w.UseCRLF = opts.CRLF
	if err := w.WriteAll(insertInterval(grid, opts.Interval)); err != nil {
		return Result{}, err
	}
	if err := w.Flush(); err != nil {
		return Result{}, err
	}

	out := sb.String()
	if opts.StripNewlines {
		out = newlineStripper.Replace(out)
	}

	return Result{
		Output:  out,
		Rows:    grid.Rows(),
		Columns: grid.Columns(),
	}, nil
}

// trimBlankLines drops whitespace-only lines at both ends of text. Leading
// whitespace of the first data line may hold empty tab or space fields and
// is kept.
func trimBlankLines(text string) string {
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 || strings.TrimSpace(text[:i]) != "" {
			break
		}
		text = text[i+1:]
	}
	for {
		i := strings.LastIndexByte(text, '\n')
		if i < 0 || strings.TrimSpace(text[i+1:]) != "" {
			break
		}
		text = strings.TrimSuffix(text[:i], "\r")
	}
	return text
}

func wrapFields(grid Grid, open, closing string) {
	if open == "" && closing == "" {
		return
	}
	for _, row := range grid {
		for i, f := range row {
			row[i] = open + f + closing
		}
	}
}

// insertInterval returns grid with an empty row after every n rows, except
// after the last one.
func insertInterval(grid Grid, n int) Grid {
	if n <= 0 || len(grid) <= n {
		return grid
	}
	out := make(Grid, 0, len(grid)+len(grid)/n)
	for i, row := range grid {
		out = append(out, row)
		if (i+1)%n == 0 && i < len(grid)-1 {
			out = append(out, nil)
		}
	}
	return out
}

func removeDuplicateRows(grid Grid) Grid {
	seen := make(map[string]struct{}, len(grid))
	out := grid[:0]
	for _, row := range grid {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

// rowKey length-prefixes each field so distinct rows never share a key.
func rowKey(row []string) string {
	var sb strings.Builder
	for _, f := range row {
		sb.WriteString(strconv.Itoa(len(f)))
		sb.WriteByte(':')
		sb.WriteString(f)
	}
	return sb.String()
}

// Session holds the state of one converter form: the input text, both
// delimiter selections and the post-processing options.
type Session struct {
	Text    string
	Source  Selection
	Target  Selection
	Options Options
}

// Convert runs the pipeline on the session state.
func (s *Session) Convert() (Result, error) {
	return ConvertSelections(s.Text, s.Source, s.Target, s.Options)
}

// Swap exchanges the source and target selections and, when the session
// holds input text, converts again. ran reports whether a conversion ran.
func (s *Session) Swap() (res Result, ran bool, err error) {
	s.Source, s.Target = Swap(s.Source, s.Target)
	if strings.TrimSpace(s.Text) == "" {
		return Result{}, false, nil
	}
	res, err = s.Convert()
	return res, true, err
}
