package cmd

import (
	"context"
)

// Split segments a roll and writes its parcel table.
type Split struct {
	Output

	Where  string `help:"Only write parcels matching this expr-lang expression." placeholder:"EXPR" short:"w"`
	Source string `arg:"" default:"-" help:"Roll file, or '-' for stdin." name:"source"`
}

// Run executes the split command.
func (c *Split) Run(ctx context.Context) error {
	s := settingsFrom(ctx)

	q, err := query(c.Where)
	if err != nil {
		return err
	}

	table, err := s.open(ctx, c.Source)
	if err != nil {
		return err
	}

	table, err = table.Filter(q)
	if err != nil {
		return err
	}

	return c.write(ctx, s.Stdout, table, s.Options...)
}
