package roll

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// queryEnv is the environment a [Query] is evaluated in.
type queryEnv struct {
	Key     string `expr:"key"`
	Section string `expr:"section"`
	Block   string `expr:"block"`
	Lot     string `expr:"lot"`
	Text    string `expr:"text"`
	Line    int    `expr:"line"`
	Lines   int    `expr:"lines"` // Lines of block text
}

func makeQueryEnv(e Entry) queryEnv {
	lines := 0
	if e.Text != "" {
		lines = strings.Count(e.Text, "\n") + 1
	}

	return queryEnv{
		Key:     e.Key.String(),
		Section: e.Key.Section,
		Block:   e.Key.Block,
		Lot:     e.Key.Lot,
		Text:    e.Text,
		Line:    e.Line,
		Lines:   lines,
	}
}

// Query is a compiled boolean filter over table entries.
type Query struct {
	src     string
	program *vm.Program
}

// CompileQuery compiles src, an expr-lang expression that must evaluate to a
// bool. The expression sees the variables key, section, block, lot, text,
// line, and lines.
//
//	section == "12" && lines > 3
//	text contains "MAIN ST"
func CompileQuery(src string) (*Query, error) {
	program, err := expr.Compile(src, expr.Env(queryEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrInvalidQuery.Wrap(err).With(queryAttr(src))
	}

	return &Query{src: src, program: program}, nil
}

// String returns the source expression.
func (q *Query) String() string { return q.src }

// Match reports whether e satisfies q.
func (q *Query) Match(e Entry) (bool, error) {
	out, err := expr.Run(q.program, makeQueryEnv(e))
	if err != nil {
		return false, ErrInvalidQuery.
			Wrap(err).
			With(queryAttr(q.src), keyAttr(e.Key))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Select returns the entries matching q in key order. A nil q matches every
// entry.
func (t *Table) Select(q *Query) ([]Entry, error) {
	if q == nil {
		return t.Entries(), nil
	}

	var sel []Entry

	for _, e := range t.Entries() {
		ok, err := q.Match(e)
		if err != nil {
			return nil, err
		}

		if ok {
			sel = append(sel, e)
		}
	}

	return sel, nil
}

// Filter returns a table of the entries matching q. A nil q returns t.
func (t *Table) Filter(q *Query) (*Table, error) {
	if q == nil {
		return t, nil
	}

	sel, err := t.Select(q)
	if err != nil {
		return nil, err
	}

	b := newBuilder(len(sel))
	for _, e := range sel {
		if err := b.add(e); err != nil {
			return nil, err
		}
	}

	return b.table(), nil
}
