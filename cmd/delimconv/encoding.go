package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var inputEncodings = map[string]*charmap.Charmap{
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-15":  charmap.ISO8859_15,
	"koi8-r":       charmap.KOI8R,
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
}

// decodeInput wraps r so that it yields UTF-8. An empty name or utf-8 leaves
// r untouched.
func decodeInput(r io.Reader, name string) (io.Reader, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "utf-8", "utf8":
		return r, nil
	}
	cm, ok := inputEncodings[name]
	if !ok {
		return nil, fmt.Errorf("unsupported input encoding %q", name)
	}
	return transform.NewReader(r, cm.NewDecoder()), nil
}
