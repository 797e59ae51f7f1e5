package cmd

import (
	"bufio"
	"context"
)

// Keys lists the print-key codes of a roll in order.
type Keys struct {
	Where  string `help:"Only list parcels matching this expr-lang expression." placeholder:"EXPR" short:"w"`
	Source string `arg:"" default:"-" help:"Roll file, or '-' for stdin." name:"source"`
}

// Run executes the keys command.
func (c *Keys) Run(ctx context.Context) error {
	s := settingsFrom(ctx)

	q, err := query(c.Where)
	if err != nil {
		return err
	}

	table, err := s.open(ctx, c.Source)
	if err != nil {
		return err
	}

	entries, err := table.Select(q)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(s.Stdout)
	for _, e := range entries {
		w.WriteString(e.Key.String())
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
