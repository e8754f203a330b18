package delimconv

// SelectionCustom is the selection value that defers to the user supplied literal.
const SelectionCustom = "custom"

var namedDelimiters = map[string]string{
	"comma":     ",",
	"semicolon": ";",
	"pipe":      "|",
	"space":     " ",
	"tab":       "\t",
	`\t`:        "\t",
	"\t":        "\t",
	"newline":   "\n",
	`\n`:        "\n",
}

// ResolveDelimiter turns a selection into the literal separator it stands for.
// A custom selection yields custom verbatim, which may be empty; callers must
// reject an empty result before parsing. Unknown selections are literals.
func ResolveDelimiter(selection, custom string) string {
	if selection == SelectionCustom {
		return custom
	}
	if d, ok := namedDelimiters[selection]; ok {
		return d
	}
	return selection
}

// Selection is a delimiter choice as made in a form: a value from the
// delimiter list plus the literal typed next to it for custom choices.
type Selection struct {
	Value  string `json:"value" yaml:"value"`
	Custom string `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Resolve returns the literal delimiter for s.
func (s Selection) Resolve() string {
	return ResolveDelimiter(s.Value, s.Custom)
}

// Swap exchanges source and target, custom literals included.
func Swap(source, target Selection) (Selection, Selection) {
	return target, source
}
