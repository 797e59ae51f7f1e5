package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/rollseg/log"
)

// Check segments a roll and reports its parcel count. It fails on a
// malformed marker or a duplicate key.
type Check struct {
	Source string `arg:"" default:"-" help:"Roll file, or '-' for stdin." name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	s := settingsFrom(ctx)

	path, err := s.resolve(c.Source)
	if err != nil {
		return err
	}

	table, err := s.load(ctx, path)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "roll ok",
		slog.String("source", path),
		slog.Int("parcels", table.Len()),
	)

	_, err = fmt.Fprintf(s.Stdout, "%s: %d parcels\n", path, table.Len())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
