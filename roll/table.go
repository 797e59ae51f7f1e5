package roll

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Entry is one parcel of a [Table].
type Entry struct {
	Key  Key
	Text string // Parcel block text
	Line int    // 1-based line number of the delimiter line
}

// Table maps print-key codes to parcel blocks. Keys are unique, and entries
// are ordered by key. A Table is immutable; the nil *Table is empty.
type Table struct {
	index   map[Key]int
	entries []Entry
}

// Len returns the number of parcels.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Get returns the entry for key.
func (t *Table) Get(key Key) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	i, ok := t.index[key]
	if !ok {
		return Entry{}, false
	}

	return t.entries[i], true
}

// Lookup parses text as a key, ignoring surrounding whitespace, and returns
// its entry. The error matches [ErrMalformedKeyCode] if text is not a key
// and [ErrKeyNotFound] if the table has no such key.
func (t *Table) Lookup(text string) (Entry, error) {
	key, err := ParseKey(strings.TrimSpace(text))
	if err != nil {
		return Entry{}, err
	}

	e, ok := t.Get(key)
	if !ok {
		return Entry{}, ErrKeyNotFound.
			Wrap(&notFoundError{key: key}).
			With(keyAttr(key))
	}

	return e, nil
}

// Keys returns the keys in order.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, t.Len())
	for _, e := range t.Entries() {
		keys = append(keys, e.Key)
	}

	return keys
}

// Entries returns the entries in key order. The slice is shared and must
// not be modified.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}

	return t.entries
}

// Equal reports whether t and o hold the same entries.
func (t *Table) Equal(o *Table) bool {
	return slices.Equal(t.Entries(), o.Entries())
}

// Suggest returns up to n keys that fuzzily match text, best match first.
func (t *Table) Suggest(text string, n int) []Key {
	text = strings.TrimSpace(text)
	if text == "" || n <= 0 || t.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(text, keySource(t.entries))

	keys := make([]Key, 0, min(n, len(matches)))
	for _, m := range matches[:min(n, len(matches))] {
		keys = append(keys, t.entries[m.Index].Key)
	}

	return keys
}

// keySource adapts entries to fuzzy.Source.
type keySource []Entry

func (s keySource) String(i int) string { return s[i].Key.String() }
func (s keySource) Len() int            { return len(s) }

// Merge combines tables into one. The error matches [ErrDuplicateKeyCode] if
// any key appears in more than one table.
func Merge(tables ...*Table) (*Table, error) {
	n := 0
	for _, t := range tables {
		n += t.Len()
	}

	b := newBuilder(n)

	// Visit entries in document order so a duplicate names its later line.
	all := make([]Entry, 0, n)
	for _, t := range tables {
		all = append(all, t.Entries()...)
	}

	slices.SortStableFunc(all, func(a, b Entry) int { return a.Line - b.Line })

	for _, e := range all {
		if err := b.add(e); err != nil {
			return nil, err
		}
	}

	return b.table(), nil
}

// SplitKeys splits a comma-separated list of keys, trimming each item and
// dropping empty ones. Items are not parsed.
func SplitKeys(list string) []string {
	var keys []string

	for item := range strings.SplitSeq(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			keys = append(keys, item)
		}
	}

	return keys
}

// builder accumulates entries while rejecting duplicate keys.
type builder struct {
	index   map[Key]int
	entries []Entry
}

func newBuilder(n int) *builder {
	return &builder{
		index:   make(map[Key]int, n),
		entries: make([]Entry, 0, n),
	}
}

func (b *builder) add(e Entry) error {
	if i, ok := b.index[e.Key]; ok {
		first := b.entries[i].Line

		return ErrDuplicateKeyCode.
			Wrap(&DuplicateError{Key: e.Key, First: first, Second: e.Line}).
			With(keyAttr(e.Key), lineAttr("first_line", first),
				lineAttr("line", e.Line))
	}

	b.index[e.Key] = len(b.entries)
	b.entries = append(b.entries, e)

	return nil
}

// table sorts the accumulated entries and returns them as a Table. The
// builder must not be used afterwards.
func (b *builder) table() *Table {
	slices.SortFunc(b.entries, func(x, y Entry) int {
		return x.Key.Compare(y.Key)
	})

	for i, e := range b.entries {
		b.index[e.Key] = i
	}

	return &Table{index: b.index, entries: b.entries}
}

type notFoundError struct{ key Key }

func (e *notFoundError) Error() string { return e.key.String() }
