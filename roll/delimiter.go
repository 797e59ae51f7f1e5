package roll

import (
	"regexp"
	"strings"
)

const (
	// DefaultPad is the character used by assessment rolls to frame parcel
	// markers.
	DefaultPad = '*'

	// DefaultMinRun is the shortest run of pad characters recognized as a
	// delimiter band. Printed rolls use bands of about a hundred characters;
	// anything this long is not parcel text.
	DefaultMinRun = 32

	// TextBandWidth is the band width written by [Table.FormatText].
	TextBandWidth = 103
)

// Delimiter reports whether a line is a delimiter line.
type Delimiter func(line string) bool

// RunDelimiter returns a [Delimiter] that recognizes lines containing at
// least minRun consecutive pad characters. A minRun below 1 is treated as 1.
func RunDelimiter(pad rune, minRun int) Delimiter {
	minRun = max(minRun, 1)

	return func(line string) bool {
		run := 0

		for _, r := range line {
			if r != pad {
				run = 0

				continue
			}

			if run++; run >= minRun {
				return true
			}
		}

		return false
	}
}

// PatternDelimiter returns a [Delimiter] that recognizes lines matching re.
func PatternDelimiter(re *regexp.Regexp) Delimiter {
	return re.MatchString
}

// stripPad removes every pad character from line and trims surrounding
// whitespace, leaving the embedded marker text (empty for a pure band).
func stripPad(line string, pad rune) string {
	return strings.TrimSpace(strings.ReplaceAll(line, string(pad), ""))
}
