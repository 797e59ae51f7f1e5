package repl

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/rollseg/log"
)

// changedMsg reports that the watched roll file was written.
type changedMsg struct{ path string }

// watchErrMsg reports a watcher failure.
type watchErrMsg struct{ err error }

// watcher reports writes to a single file. It watches the file's directory
// so that editors replacing the file are noticed too.
type watcher struct {
	fs     *fsnotify.Watcher
	path   string
	events chan tea.Msg
}

// newWatcher starts watching path. The watcher stops when ctx is done.
func newWatcher(ctx context.Context, path string, logger log.Logger) (*watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()

		return nil, err
	}

	w := &watcher{fs: fw, path: path, events: make(chan tea.Msg, 1)}

	go w.run(ctx, logger)

	return w, nil
}

func (w *watcher) run(ctx context.Context, logger log.Logger) {
	defer close(w.events)
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != w.path ||
				!ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}

			logger.TraceContext(ctx, "roll changed",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			w.send(ctx, changedMsg{path: w.path})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}

			w.send(ctx, watchErrMsg{err: err})
		}
	}
}

// send delivers msg unless an undelivered message is already pending.
func (w *watcher) send(ctx context.Context, msg tea.Msg) {
	select {
	case w.events <- msg:
	case <-ctx.Done():
	default:
	}
}

// wait returns a command that waits for the next watcher message. After the
// watcher stops, the command yields nil.
func (w *watcher) wait() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg { return <-w.events }
}
