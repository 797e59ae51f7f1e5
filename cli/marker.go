package cli

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rollseg/cli/cmd"
	"github.com/ardnew/rollseg/roll"
	"github.com/ardnew/rollseg/source"
)

// markerConfig selects how delimiter lines are recognized.
type markerConfig struct {
	Pad     string `default:"${markerPad}"    help:"Pad character framing marker text."`
	MinRun  int    `default:"${markerMinRun}" help:"Shortest run of pad characters recognized as a band."`
	Pattern string `help:"Regular expression recognizing delimiter lines; overrides --marker-min-run." placeholder:"REGEXP"`
}

func (markerConfig) vars() kong.Vars {
	return kong.Vars{
		"markerPad":    string(roll.DefaultPad),
		"markerMinRun": strconv.Itoa(roll.DefaultMinRun),
	}
}

func (markerConfig) group() kong.Group {
	return kong.Group{Key: "marker", Title: "Marker options"}
}

// options returns the segmentation options selected by the flags.
func (m markerConfig) options() ([]roll.Option, error) {
	if utf8.RuneCountInString(m.Pad) != 1 {
		return nil, cmd.ErrInvalidFlag.With(
			slog.String("flag", "marker-pad"),
			slog.String("value", m.Pad),
			slog.String("reason", "must be a single character"),
		)
	}

	if m.MinRun < 1 {
		return nil, cmd.ErrInvalidFlag.With(
			slog.String("flag", "marker-min-run"),
			slog.Int("value", m.MinRun),
			slog.String("reason", "must be positive"),
		)
	}

	pad, _ := utf8.DecodeRuneInString(m.Pad)

	opts := []roll.Option{roll.WithPad(pad), roll.WithMinRun(m.MinRun)}

	if m.Pattern != "" {
		re, err := regexp.Compile(m.Pattern)
		if err != nil {
			return nil, cmd.ErrInvalidFlag.Wrap(err).With(
				slog.String("flag", "marker-pattern"),
				slog.String("value", m.Pattern),
			)
		}

		opts = append(opts, roll.WithPattern(re))
	}

	return opts, nil
}

// inputConfig selects how rolls are read.
type inputConfig struct {
	Format string `default:"auto" enum:"${inputFormatEnum}" help:"Roll format (${enum}); auto selects by file extension."`
}

func (inputConfig) vars() kong.Vars {
	enum := []string{cmd.AutoFormat}
	for f := range source.Formats() {
		enum = append(enum, f)
	}

	return kong.Vars{"inputFormatEnum": strings.Join(enum, ",")}
}

func (inputConfig) group() kong.Group {
	return kong.Group{Key: "input", Title: "Input options"}
}
