package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/ardnew/rollseg/roll"
)

// Output formats of the split command.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

// Output selects how tables are written.
type Output struct {
	Format string `default:"json" enum:"json,yaml,text" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                          help:"Indent width of JSON and YAML output; 0 is compact." short:"i"`
}

// write writes table to w in the selected format.
func (o Output) write(
	ctx context.Context,
	w io.Writer,
	table *roll.Table,
	opts ...roll.Option,
) error {
	var err error

	switch o.Format {
	case formatYAML:
		err = table.FormatYAML(ctx, w, o.Indent)
	case formatText:
		err = table.FormatText(w, opts...)
	default:
		err = table.FormatJSON(w, o.Indent)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("format", o.Format))
	}

	return nil
}

// writeRecords writes recs to w as an indented JSON array.
func writeRecords(w io.Writer, recs []roll.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(recs); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", formatJSON))
	}

	return nil
}
