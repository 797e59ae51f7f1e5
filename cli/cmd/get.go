package cmd

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/rollseg/roll"
)

// suggestions is the number of similar keys offered for an unknown key.
const suggestions = 3

// Get prints the parcel text of one or more print-key codes.
type Get struct {
	Records bool     `help:"Write JSON records instead of parcel text." short:"r"`
	Source  string   `default:"-"                                        help:"Roll file, or '-' for stdin." short:"s"`
	Keys    []string `arg:""                                             help:"Print-key codes (section-block-lot); each may be a comma-separated list." name:"sbl"`
}

// Run executes the get command.
func (c *Get) Run(ctx context.Context) error {
	s := settingsFrom(ctx)

	table, err := s.open(ctx, c.Source)
	if err != nil {
		return err
	}

	entries, err := lookup(table, c.Keys...)
	if err != nil {
		return err
	}

	if c.Records {
		recs := make([]roll.Record, 0, len(entries))
		for _, e := range entries {
			recs = append(recs, e.Record())
		}

		return writeRecords(s.Stdout, recs)
	}

	w := bufio.NewWriter(s.Stdout)

	for i, e := range entries {
		if i > 0 {
			w.WriteByte('\n')
		}

		if e.Text != "" {
			w.WriteString(e.Text)
			w.WriteByte('\n')
		}
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// lookup returns the entries named by lists of keys, in the order given.
// An unknown key fails with suggestions of similar keys.
func lookup(table *roll.Table, lists ...string) ([]roll.Entry, error) {
	var entries []roll.Entry

	for _, list := range lists {
		for _, key := range roll.SplitKeys(list) {
			e, err := table.Lookup(key)
			if errors.Is(err, roll.ErrKeyNotFound) {
				return nil, roll.WrapError(err).
					With(slog.String("did_you_mean", didYouMean(table, key)))
			}

			if err != nil {
				return nil, err
			}

			entries = append(entries, e)
		}
	}

	return entries, nil
}

// didYouMean lists keys similar to key.
func didYouMean(table *roll.Table, key string) string {
	keys := table.Suggest(key, suggestions)

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}

	return strings.Join(names, ", ")
}
