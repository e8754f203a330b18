// # delimconv: Delimited Text Conversion for Go
//
// delimconv parses text written with one delimiter and quoting convention into a rectangular grid of fields and re-serializes that grid with another delimiter, quoting fields only where the target format needs it.
//
// # Features
//
// - Line-oriented reader with quote continuation across physical lines, escaped quotes, and multi-character delimiters.
// - Permissive parsing: malformed quotes are kept as literal text instead of failing the conversion.
// - Jagged input is padded so every row has the width of the widest row.
// - Buffered writer that quotes fields containing the delimiter, quotes, line breaks, or edge whitespace.
// - Named delimiter selections (`comma`, `tab`, `pipe`, ...) plus custom literals, and a `Session` that swaps source and target.
// - Sentinel errors (`ErrEmptyDelimiter`, `ErrEmptyInput`, `ErrNoDataFound`) and `DelimiterError` for side-specific failures.
//
// # Getting Started
//
//	res, err := delimconv.Convert("name,age\n\"Smith, John\",45", "comma", "", "pipe", "")
//	// res.Output == "name|age\nSmith, John|45", res.Rows == 2, res.Columns == 2
package delimconv

// Grid is an ordered sequence of rows. Grids returned by Parse are rectangular.
type Grid [][]string

// Rows returns the number of rows in g.
func (g Grid) Rows() int {
	return len(g)
}

// Columns returns the width of the first row, which is the width of every
// row once the grid has been padded.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// pad extends every row with empty fields up to the widest row.
func (g Grid) pad() Grid {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range g {
		if len(row) < width {
			g[i] = append(row, make([]string, width-len(row))...)
		}
	}
	return g
}
