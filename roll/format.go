package roll

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Record is the serialized form of an [Entry].
type Record struct {
	PrintKeyCode string `json:"print_key_code" yaml:"print_key_code"`
	Section      string `json:"section"        yaml:"section"`
	Block        string `json:"block"          yaml:"block"`
	Lot          string `json:"lot"            yaml:"lot"`
	Text         string `json:"text"           yaml:"text"`
	Line         int    `json:"line"           yaml:"line"`
}

// Record returns the serialized form of e.
func (e Entry) Record() Record {
	return Record{
		PrintKeyCode: e.Key.String(),
		Section:      e.Key.Section,
		Block:        e.Key.Block,
		Lot:          e.Key.Lot,
		Text:         e.Text,
		Line:         e.Line,
	}
}

// Records returns the serialized form of the table in key order.
func (t *Table) Records() []Record {
	recs := make([]Record, 0, t.Len())
	for _, e := range t.Entries() {
		recs = append(recs, e.Record())
	}

	return recs
}

// FormatJSON writes the table as a JSON array of records. An indent of 0
// writes the array on a single line.
func (t *Table) FormatJSON(w io.Writer, indent int) error {
	return formatJSON(w, t.Records(), indent)
}

func formatJSON(w io.Writer, recs []Record, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode(recs)
}

// FormatYAML writes the table as a YAML sequence of records. Multi-line text
// uses literal block style. An indent of 0 writes flow style.
func (t *Table) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return formatYAML(ctx, w, t.Records(), indent)
}

func formatYAML(
	ctx context.Context,
	w io.Writer,
	recs []Record,
	indent int,
) error {
	opts := []yaml.EncodeOption{yaml.UseLiteralStyleIfMultiline(true)}

	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, recs, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatText writes the table in roll form: each entry is a delimiter line
// framing its key followed by its block text. Segmenting the output with
// the same pad and run length yields the same keys and text.
func (t *Table) FormatText(w io.Writer, opts ...Option) error {
	return formatText(w, t.Entries(), makeOptions(opts...))
}

func formatText(w io.Writer, entries []Entry, o options) error {
	bw := bufio.NewWriter(w)
	pad := string(o.pad)
	width := max(TextBandWidth, 2*o.minRun)

	for _, e := range entries {
		key := " " + e.Key.String() + " "
		fill := max(width-len(key), 2*o.minRun)
		left := fill / 2

		bw.WriteString(strings.Repeat(pad, left))
		bw.WriteString(key)
		bw.WriteString(strings.Repeat(pad, fill-left))
		bw.WriteByte('\n')

		if e.Text == "" {
			continue
		}

		for line := range strings.SplitSeq(e.Text, "\n") {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
	}

	return bw.Flush()
}
