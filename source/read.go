package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/klauspost/readahead"

	"github.com/ardnew/rollseg/log"
	"github.com/ardnew/rollseg/roll"
)

// Open opens the roll at name, or standard input for [Stdin].
func Open(name string) (io.ReadCloser, error) {
	if name == Stdin {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, roll.ErrReadInput.Wrap(err).With(slog.String("source", name))
	}

	return f, nil
}

// Load resolves name against path, then reads it in the given format.
func Load(
	ctx context.Context,
	name string,
	format Format,
	path []string,
) (string, error) {
	resolved, err := Resolve(name, path)
	if err != nil {
		return "", err
	}

	r, err := Open(resolved)
	if err != nil {
		return "", err
	}
	defer r.Close()

	text, err := Read(ctx, r, format)
	if err != nil {
		return "", roll.WrapError(err).With(slog.String("source", resolved))
	}

	log.TraceContext(ctx, "loaded roll",
		slog.String("source", resolved),
		slog.String("format", format.String()),
		slog.Int("bytes", len(text)),
	)

	return text, nil
}

// Read returns the document text of r.
//
// Text input is returned as read, without a leading byte order mark. HTML
// input is reduced to text: the content of <pre> elements when present,
// otherwise the body text with line breaks at <br> and block elements.
func Read(ctx context.Context, r io.Reader, format Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Prefetch the input while it is consumed.
	ra := readahead.NewReader(r)
	defer ra.Close()

	var (
		text string
		err  error
	)

	switch format {
	case HTML:
		text, err = readHTML(ra)
	default:
		text, err = readText(ra)
	}

	if err != nil {
		return "", roll.ErrReadInput.Wrap(err).
			With(slog.String("format", format.String()))
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return text, nil
}

func readText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return strings.TrimPrefix(string(data), "\uFEFF"), nil
}

func readHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	var w lineWriter

	if pre := doc.Find("pre"); pre.Length() > 0 {
		pre.Each(func(_ int, s *goquery.Selection) {
			w.verbatim(s.Text())
		})
	} else {
		w.walk(doc.Find("body").Contents())
	}

	return w.String(), nil
}

// blockElements end the current line before and after their content.
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "div": true,
	"dd": true, "dl": true, "dt": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

// lineWriter accumulates HTML text as lines.
type lineWriter struct {
	lines []string
	cur   strings.Builder
	open  bool // cur holds text not yet ended by a break
}

func (w *lineWriter) walk(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		switch name := goquery.NodeName(s); {
		case name == "#text":
			w.text(s.Text())
		case name == "br":
			w.brk()
		case name == "script" || name == "style" || name == "title":
		case blockElements[name]:
			w.end()
			w.walk(s.Contents())
			w.end()
		default:
			w.walk(s.Contents())
		}
	})
}

// text appends inline text. Source newlines are layout, not content.
func (w *lineWriter) text(s string) {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\u00a0", " ").Replace(s)
	if !w.open {
		if s = strings.TrimLeft(s, " \t"); s == "" {
			return
		}
	}

	w.cur.WriteString(s)
	w.open = true
}

// brk ends the current line, even if it is empty.
func (w *lineWriter) brk() {
	w.lines = append(w.lines, strings.TrimRight(w.cur.String(), " \t"))
	w.cur.Reset()
	w.open = false
}

// end ends the current line if it holds any text.
func (w *lineWriter) end() {
	if w.open {
		w.brk()
	}
}

// verbatim appends preformatted text as lines.
func (w *lineWriter) verbatim(s string) {
	w.end()

	s = strings.TrimSuffix(strings.ReplaceAll(s, "\u00a0", " "), "\n")
	w.lines = append(w.lines, strings.Split(s, "\n")...)
}

func (w *lineWriter) String() string {
	w.end()

	if len(w.lines) == 0 {
		return ""
	}

	return strings.Join(w.lines, "\n") + "\n"
}
