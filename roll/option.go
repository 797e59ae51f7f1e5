package roll

import (
	"regexp"

	"github.com/ardnew/rollseg/log"
)

// options holds the settings shared by the scanner, the builder, and the
// cache.
type options struct {
	logger  log.Logger
	delim   Delimiter
	pattern *regexp.Regexp
	pad     rune
	minRun  int
	workers int
}

// Option configures segmentation.
type Option func(options) options

func makeOptions(opts ...Option) options {
	o := options{
		logger:  log.Default(),
		pad:     DefaultPad,
		minRun:  DefaultMinRun,
		workers: 1,
	}

	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

// delimiter returns the effective delimiter predicate: a custom predicate,
// else a pattern, else a run of pad characters.
func (o options) delimiter() Delimiter {
	switch {
	case o.delim != nil:
		return o.delim
	case o.pattern != nil:
		return PatternDelimiter(o.pattern)
	default:
		return RunDelimiter(o.pad, o.minRun)
	}
}

// WithLogger sets the logger used for trace and debug diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(o options) options {
		o.logger = logger

		return o
	}
}

// WithPad sets the pad character that frames markers. It is used both to
// detect bands and to strip them from marker text.
func WithPad(pad rune) Option {
	return func(o options) options {
		if pad != 0 {
			o.pad = pad
		}

		return o
	}
}

// WithMinRun sets the shortest run of pad characters recognized as a band.
func WithMinRun(n int) Option {
	return func(o options) options {
		if n > 0 {
			o.minRun = n
		}

		return o
	}
}

// WithPattern recognizes delimiter lines by regular expression instead of
// pad run length. A nil pattern restores run-length detection.
func WithPattern(re *regexp.Regexp) Option {
	return func(o options) options {
		o.pattern = re

		return o
	}
}

// WithDelimiter installs a custom delimiter predicate, overriding
// [WithPattern] and [WithMinRun]. Builds using a custom predicate are never
// cached.
func WithDelimiter(d Delimiter) Option {
	return func(o options) options {
		o.delim = d

		return o
	}
}

// WithWorkers sets the number of ranges built concurrently. Values below 2
// build sequentially.
func WithWorkers(n int) Option {
	return func(o options) options {
		o.workers = max(n, 1)

		return o
	}
}
