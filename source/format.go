package source

import (
	"iter"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Format identifies the encoding of a roll document.
type Format int

// Supported document formats.
const (
	Text Format = iota
	HTML
)

var formatNames = map[Format]string{
	Text: "text",
	HTML: "html",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns the names of all supported formats.
func Formats() iter.Seq[string] {
	return slices.Values([]string{Text.String(), HTML.String()})
}

// ParseFormat returns the format named s. The name "auto" and unknown names
// report false.
func ParseFormat(s string) (Format, bool) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, true
		}
	}

	return Text, false
}

// DetectFormat returns the format implied by the extension of name.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return HTML
	default:
		return Text
	}
}
