package delimconv

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genDelimiter picks separators that are neither whitespace nor alphanumeric.
func genDelimiter() gopter.Gen {
	return gen.OneConstOf(",", ";", "|", "::", "~#", "\x1f")
}

// genFragments builds raw input from pieces that exercise quoting, escaping
// and line breaks.
func genFragments() gopter.Gen {
	fragments := []string{
		"a", "bc", "x y", " ", ",", ";", "\"", "\"\"", "\n", "\r\n", "\t", "|",
	}
	return gen.SliceOf(gen.IntRange(0, len(fragments)-1)).Map(func(idx []int) string {
		var sb strings.Builder
		for _, i := range idx {
			sb.WriteString(fragments[i])
		}
		return sb.String()
	})
}

func buildGrid(rows, cols int, fields []string) Grid {
	grid := make(Grid, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
		for j := range grid[i] {
			grid[i][j] = fields[(i*cols+j)%len(fields)]
		}
	}
	return grid
}

// **Property: round trip of plain rectangular grids**
func TestSerializeParseRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("parse(serialize(g, d), d) == g", prop.ForAll(
		func(rows, cols int, fields []string, delimiter string) bool {
			if len(fields) == 0 {
				return true
			}
			grid := buildGrid(rows, cols, fields)

			parsed, err := Parse(Serialize(grid, delimiter), delimiter)
			if err != nil {
				t.Logf("Parse() error = %v", err)
				return false
			}
			return reflect.DeepEqual(parsed, grid)
		},
		gen.IntRange(1, 8),
		gen.IntRange(1, 6),
		gen.SliceOfN(16, gen.Identifier()),
		genDelimiter(),
	))

	properties.TestingRun(t)
}

// **Property: fields are quoted exactly when a re-parse would change them**
func TestSerializeQuoting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)

	properties.Property("quoted iff delimiter, quote, line break or edge whitespace", prop.ForAll(
		func(field string, delimiter string) bool {
			got := Serialize(Grid{{field}}, delimiter)

			needs := field != "" && (strings.Contains(field, delimiter) ||
				strings.ContainsAny(field, "\"\r\n") ||
				strings.TrimSpace(field) != field)
			if !needs {
				return got == field
			}
			return got == `"`+strings.ReplaceAll(field, `"`, `""`)+`"`
		},
		gen.OneGenOf(gen.AnyString(), genFragments()),
		genDelimiter(),
	))

	properties.TestingRun(t)
}

// **Property: parsed grids are rectangular**
func TestParsePadding(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)

	properties.Property("every row has the width of the widest row", prop.ForAll(
		func(text string, delimiter string) bool {
			if strings.TrimSpace(text) == "" {
				return true
			}
			grid, err := Parse(text, delimiter)
			if err != nil || len(grid) == 0 {
				t.Logf("Parse(%q) = %v, %v", text, grid, err)
				return false
			}
			width := grid.Columns()
			for _, row := range grid {
				if len(row) != width {
					return false
				}
			}
			return true
		},
		genFragments(),
		gen.OneConstOf(",", ";", "|", "\t"),
	))

	properties.TestingRun(t)
}

// **Property: conversion is a pure function of its arguments**
func TestConvertIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("convert twice yields identical results", prop.ForAll(
		func(text, source, target string) bool {
			first, err1 := Convert(text, source, "", target, "")
			second, err2 := Convert(text, source, "", target, "")
			if (err1 == nil) != (err2 == nil) {
				return false
			}
			return first == second
		},
		genFragments(),
		gen.OneConstOf("comma", "semicolon", "pipe", "tab"),
		gen.OneConstOf("comma", "semicolon", "pipe", "tab", "newline"),
	))

	properties.Property("swap twice restores selections", prop.ForAll(
		func(a, b, ca, cb string) bool {
			src := Selection{Value: a, Custom: ca}
			dst := Selection{Value: b, Custom: cb}
			s1, d1 := Swap(src, dst)
			s2, d2 := Swap(s1, d1)
			return s2 == src && d2 == dst
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
