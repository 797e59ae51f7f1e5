package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/rollseg/cli/cmd/repl"
	"github.com/ardnew/rollseg/log"
	"github.com/ardnew/rollseg/roll"
	"github.com/ardnew/rollseg/source"
)

// Repl starts an interactive lookup session on a roll.
type Repl struct {
	NoWatch bool   `help:"Do not reload the roll when it changes." name:"no-watch"`
	Source  string `arg:""                                         help:"Roll file." name:"source"`
}

// Run executes the repl command.
func (c *Repl) Run(ctx context.Context) error {
	s := settingsFrom(ctx)

	if c.Source == source.Stdin {
		return ErrInvalidFlag.Wrap(ErrNoSource).
			With(slog.String("source", c.Source))
	}

	path, err := s.resolve(c.Source)
	if err != nil {
		return err
	}

	cfg := repl.Config{
		Load:   reloader(s, path),
		Logger: log.Default(),
	}

	if !c.NoWatch {
		cfg.Watch = path
	}

	if ktx := kongContextFrom(ctx); ktx != nil {
		cfg.CacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, cfg)
}

// reloader returns a loader for the roll at path that holds at most one
// version of the table in the settings cache.
func reloader(s *Settings, path string) repl.Loader {
	return func(ctx context.Context) (*roll.Table, error) {
		s.Cache.Clear()

		return s.load(ctx, path)
	}
}
