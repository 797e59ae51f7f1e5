package roll

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache shares built tables between callers segmenting the same document
// with the same options. The zero Cache is ready to use.
type Cache struct {
	registry sync.Map // string -> *cacheState
}

// cacheState holds the result of building one document.
type cacheState struct {
	once  sync.Once
	table *Table
	err   error
}

// hashOptions encodes the options that affect segmentation using gob and
// hashes them with xxh3.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	pattern := ""
	if o.pattern != nil {
		pattern = o.pattern.String()
	}

	_ = enc.Encode(o.pad)
	_ = enc.Encode(o.minRun)
	_ = enc.Encode(pattern)

	return xxh3.Hash(buf.Bytes())
}

// Build returns the table of text, building it on first use. Failed builds
// are cached too, except when ctx was cancelled. Options with a custom
// [Delimiter] bypass the cache.
func (c *Cache) Build(
	ctx context.Context,
	text string,
	opts ...Option,
) (*Table, error) {
	o := makeOptions(opts...)

	if o.delim != nil {
		o.logger.TraceContext(ctx, "cache bypass",
			slog.Bool("custom_delimiter", true))

		return Build(ctx, text, opts...)
	}

	textHash := xxh3.HashString(text)
	optsHash := hashOptions(o)
	key := strconv.FormatUint(textHash^optsHash, 36)

	value, hit := c.registry.LoadOrStore(key, new(cacheState))
	state := value.(*cacheState)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("text_hash", strconv.FormatUint(textHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	state.once.Do(func() {
		state.table, state.err = Build(ctx, text, opts...)
	})

	if errors.Is(state.err, context.Canceled) ||
		errors.Is(state.err, context.DeadlineExceeded) {
		c.registry.CompareAndDelete(key, state)
	}

	return state.table, state.err
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	n := 0

	c.registry.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Clear removes every cached table.
func (c *Cache) Clear() {
	c.registry.Clear()
}
