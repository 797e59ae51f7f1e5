package roll

import (
	"iter"
	"strings"
)

// Segment is the raw text of one parcel as found between delimiter lines.
type Segment struct {
	Marker string // Delimiter line with padding removed
	Text   string // Following lines joined by "\n"
	Line   int    // 1-based line number of the delimiter line
}

// ScanStats summarizes a scan. It is complete once the segment sequence has
// been fully consumed.
type ScanStats struct {
	Lines      int // Lines read
	Delimiters int // Delimiter lines, keyed or not
	Bands      int // Delimiter lines with no marker text
	Orphans    int // Lines outside any parcel block
}

// Scanner partitions a document into segments.
type Scanner struct {
	delim Delimiter
	pad   rune
}

// NewScanner returns a Scanner configured by opts. Only the delimiter
// options apply.
func NewScanner(opts ...Option) Scanner {
	o := makeOptions(opts...)

	return Scanner{delim: o.delimiter(), pad: o.pad}
}

// IsDelimiter reports whether line is a delimiter line.
func (s Scanner) IsDelimiter(line string) bool {
	return s.delim(line)
}

// Scan returns the segments of lines in document order, and the stats of the
// scan.
//
// Every delimiter line ends the current block. A delimiter line with marker
// text starts a new block; one without (a pure band) starts none, so lines
// after it are orphaned until the next marker. Lines before the first marker
// are orphaned too.
func (s Scanner) Scan(lines iter.Seq[string]) (iter.Seq[Segment], *ScanStats) {
	stats := new(ScanStats)

	seq := func(yield func(Segment) bool) {
		*stats = ScanStats{}

		var (
			cur  *Segment
			body []string
		)

		flush := func() bool {
			if cur == nil {
				return true
			}

			cur.Text = strings.Join(body, "\n")
			seg := *cur
			cur, body = nil, body[:0]

			return yield(seg)
		}

		for line := range lines {
			stats.Lines++

			if !s.delim(line) {
				if cur == nil {
					stats.Orphans++
				} else {
					body = append(body, line)
				}

				continue
			}

			stats.Delimiters++

			if !flush() {
				return
			}

			marker := stripPad(line, s.pad)
			if marker == "" {
				stats.Bands++

				continue
			}

			cur = &Segment{Marker: marker, Line: stats.Lines}
		}

		flush()
	}

	return seq, stats
}

// Segments returns the segments of text.
func (s Scanner) Segments(text string) []Segment {
	seq, _ := s.Scan(Lines(text))

	var segs []Segment
	for seg := range seq {
		segs = append(segs, seg)
	}

	return segs
}

// Lines returns the lines of text split on "\n". A trailing "\r" is removed
// from each line, and a newline at the end of text does not start another
// line.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		text := text

		for len(text) > 0 {
			line, rest, found := strings.Cut(text, "\n")
			if !yield(strings.TrimSuffix(line, "\r")) {
				return
			}

			if !found {
				return
			}

			text = rest
		}
	}
}
