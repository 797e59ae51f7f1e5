package cli

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/rollseg/log"
)

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files,
// such as the one written by the init command.
//
// Keys are flag names. Nested mappings are joined with hyphens, so
//
//	marker:
//	  min-run: 8
//
// sets --marker-min-run, as does "marker-min-run: 8" or "marker_min_run: 8".
// Sequences become comma-separated lists. A file that does not parse is
// ignored with a warning. Command-line flags override file values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw map[string]any

	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Warn("ignoring invalid configuration", slog.Any("error", err))

		return config{}, nil
	}

	conf := config{}
	conf.flatten("", raw)

	return conf, nil
}

// config implements [kong.Resolver] over a flat map of flag names.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}

// Keys returns the flag names defined, sorted.
func (c config) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		name := k
		if prefix != "" {
			name = prefix + "-" + k
		}

		switch v := v.(type) {
		case nil:

		case map[string]any:
			c.flatten(name, v)

		default:
			c[name] = flagString(v)
		}
	}
}

// flagString converts a decoded YAML scalar or sequence to the form kong
// parses. Booleans are kept; numbers and sequences become strings.
func flagString(v any) any {
	switch v := v.(type) {
	case bool, string:
		return v

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(flagString(item)))
		}

		return strings.Join(items, ",")

	default:
		return fmt.Sprint(v)
	}
}
