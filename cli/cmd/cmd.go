package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rollseg/log"
	"github.com/ardnew/rollseg/roll"
	"github.com/ardnew/rollseg/source"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// AutoFormat selects the input format from the roll's file extension.
const AutoFormat = "auto"

// Settings are the global options shared by all commands.
type Settings struct {
	Options []roll.Option // Segmentation options
	Format  string        // Input format name, or AutoFormat
	Path    []string      // Search path for relative roll names
	Cache   *roll.Cache
	Stdout  io.Writer
}

type settingsKey struct{}

// WithSettings returns a new context.Context containing s.
func WithSettings(ctx context.Context, s *Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFrom returns the settings stored in ctx, or defaults.
func settingsFrom(ctx context.Context) *Settings {
	s, ok := ctx.Value(settingsKey{}).(*Settings)
	if !ok || s == nil {
		s = new(Settings)
	}

	if s.Format == "" {
		s.Format = AutoFormat
	}

	if s.Cache == nil {
		s.Cache = new(roll.Cache)
	}

	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}

	return s
}

// inputFormat returns the format used to read the roll at name.
func (s *Settings) inputFormat(name string) source.Format {
	if f, ok := source.ParseFormat(s.Format); ok {
		return f
	}

	return source.DetectFormat(name)
}

// resolve returns the path of the roll named name.
func (s *Settings) resolve(name string) (string, error) {
	if name == "" {
		return "", ErrNoSource
	}

	return source.Resolve(name, s.Path)
}

// load reads and segments the roll at path, which must already be resolved.
func (s *Settings) load(ctx context.Context, path string) (*roll.Table, error) {
	format := s.inputFormat(path)

	text, err := source.Load(ctx, path, format, nil)
	if err != nil {
		return nil, err
	}

	table, err := s.Cache.Build(ctx, text, s.Options...)
	if err != nil {
		return nil, roll.WrapError(err).With(slog.String("source", path))
	}

	log.DebugContext(ctx, "segmented roll",
		slog.String("source", path),
		slog.String("format", format.String()),
		slog.Int("parcels", table.Len()),
	)

	return table, nil
}

// open resolves and loads the roll named name.
func (s *Settings) open(ctx context.Context, name string) (*roll.Table, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	return s.load(ctx, path)
}

// query compiles an optional --where expression.
func query(src string) (*roll.Query, error) {
	if src == "" {
		return nil, nil //nolint:nilnil
	}

	return roll.CompileQuery(src)
}
