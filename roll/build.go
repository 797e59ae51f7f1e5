package roll

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Build segments text into a [Table].
//
// Each marker is parsed with [ParseKey]; the first malformed marker or
// repeated key aborts the build with an error matching [ErrMalformedKeyCode]
// or [ErrDuplicateKeyCode], and no table is returned. A document without
// markers yields an empty table.
//
// With [WithWorkers], the document is split into ranges that each begin on a
// delimiter line; ranges are built concurrently and merged with [Merge], so
// keys stay unique across the whole document.
func Build(ctx context.Context, text string, opts ...Option) (*Table, error) {
	o := makeOptions(opts...)

	if o.workers > 1 {
		return buildParallel(ctx, text, o)
	}

	return buildRange(ctx, text, 0, o)
}

// buildRange builds the table of one range whose first line is line
// offset+1 of the document.
func buildRange(
	ctx context.Context,
	text string,
	offset int,
	o options,
) (*Table, error) {
	scanner := Scanner{delim: o.delimiter(), pad: o.pad}
	segs, stats := scanner.Scan(Lines(text))

	b := newBuilder(0)

	for seg := range segs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := seg.Line + offset

		key, err := ParseKey(seg.Marker)
		if err != nil {
			var syn *SyntaxError
			if !errors.As(err, &syn) {
				return nil, err
			}

			return nil, ErrMalformedKeyCode.
				Wrapf("line %d: %w", line, syn).
				With(
					slog.String("marker", seg.Marker),
					slog.String("reason", syn.Reason),
					slog.Int("line", line),
				)
		}

		if err := b.add(Entry{Key: key, Text: seg.Text, Line: line}); err != nil {
			return nil, err
		}
	}

	o.logger.DebugContext(ctx, "segmented range",
		slog.Int("first_line", offset+1),
		slog.Int("lines", stats.Lines),
		slog.Int("delimiters", stats.Delimiters),
		slog.Int("bands", stats.Bands),
		slog.Int("orphans", stats.Orphans),
		slog.Int("parcels", len(b.entries)),
	)

	return b.table(), nil
}

// span is a range of the document starting on a line boundary.
type span struct {
	text   string
	offset int // Lines preceding the range
}

func buildParallel(ctx context.Context, text string, o options) (*Table, error) {
	spans := partition(text, o.workers, o.delimiter())

	o.logger.TraceContext(ctx, "parallel build",
		slog.Int("workers", o.workers),
		slog.Int("ranges", len(spans)),
	)

	tables := make([]*Table, len(spans))
	errs := make([]error, len(spans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, sp := range spans {
		g.Go(func() error {
			tables[i], errs[i] = buildRange(gctx, sp.text, sp.offset, o)

			return errs[i]
		})
	}

	if err := g.Wait(); err != nil {
		return nil, firstError(errs, err)
	}

	return Merge(tables...)
}

// firstError returns the error of the earliest range that failed on its own,
// ignoring ranges cancelled because another one failed.
func firstError(errs []error, fallback error) error {
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	return fallback
}

// partition splits text into at most n ranges of similar size. Every range
// after the first begins on a delimiter line, so no parcel block spans two
// ranges.
func partition(text string, n int, isDelim Delimiter) []span {
	if n < 2 || len(text) == 0 {
		return []span{{text: text}}
	}

	var (
		spans  []span
		start  int
		offset int
		target = len(text) / n
	)

	for len(spans) < n-1 {
		cut, ok := nextDelimiter(text, start+max(target, 1), isDelim)
		if !ok {
			break
		}

		spans = append(spans, span{text: text[start:cut], offset: offset})
		offset += strings.Count(text[start:cut], "\n")
		start = cut
	}

	return append(spans, span{text: text[start:], offset: offset})
}

// nextDelimiter returns the start of the first delimiter line that begins at
// or after from. It reports false if there is none.
func nextDelimiter(text string, from int, isDelim Delimiter) (int, bool) {
	if from >= len(text) {
		return 0, false
	}

	// Advance to a line start.
	if from > 0 && text[from-1] != '\n' {
		nl := strings.IndexByte(text[from:], '\n')
		if nl < 0 {
			return 0, false
		}

		from += nl + 1
	}

	for from < len(text) {
		line := text[from:]
		end := strings.IndexByte(line, '\n')

		if end >= 0 {
			line = line[:end]
		}

		if isDelim(strings.TrimSuffix(line, "\r")) {
			return from, true
		}

		if end < 0 {
			break
		}

		from += end + 1
	}

	return 0, false
}
