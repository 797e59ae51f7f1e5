package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/rollseg/log"
	"github.com/ardnew/rollseg/roll"
)

const prompt = "sbl> "

// suggestions is the number of similar keys offered for an unknown key.
const suggestions = 3

// listLimit is the default number of keys printed by the list command.
const listLimit = 20

func helpMessage() string {
	return `
Enter one or more print-key codes (section-block-lot), separated by commas,
to print their parcel text.

Commands:

  :help          Print this help
  :list [n]      List the first n keys (default 20)
  :where <expr>  List keys of parcels matching an expr-lang expression
  :reload        Re-read the roll
  :clear         Clear screen
  :quit          Exit REPL

Usage:
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	keyStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Loader reads and segments the roll.
type Loader func(ctx context.Context) (*roll.Table, error)

// Config configures a REPL session.
type Config struct {
	Load     Loader
	Watch    string // Roll file reloaded when written; empty disables
	CacheDir string // Directory of the history file; empty disables
	Logger   log.Logger
}

// loadedMsg carries the result of a (re)load.
type loadedMsg struct {
	table *roll.Table
	err   error
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	load         Loader
	input        textinput.Model
	table        *roll.Table
	keys         []string // key strings of table, in order
	logger       log.Logger
	history      *History
	watcher      *watcher
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
}

// Run loads the roll and starts an interactive lookup session.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.Load == nil {
		return ErrNoLoader
	}

	logger := cfg.Logger

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.String("watch", cfg.Watch),
	)

	table, err := cfg.Load(ctx)
	if err != nil {
		return err
	}

	historyPath := ""
	if cfg.CacheDir != "" {
		historyPath = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	m := newModel(ctx, cfg.Load, table, history, logger)

	if cfg.Watch != "" {
		m.watcher, err = newWatcher(ctx, cfg.Watch, logger)
		if err != nil {
			logger.WarnContext(ctx, "could not watch roll",
				slog.String("path", cfg.Watch),
				slog.Any("error", err),
			)
		}
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	load Loader,
	table *roll.Table,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		load:       load,
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}

	return m.setTable(table)
}

// setTable replaces the table and its completion candidates.
func (m model) setTable(table *roll.Table) model {
	m.table = table
	m.keys = make([]string, 0, table.Len())

	for _, k := range table.Keys() {
		m.keys = append(m.keys, k.String())
	}

	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.watcher.wait())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(prompt)-2, 1)

		return m, nil

	case changedMsg:
		return m, tea.Batch(m.reload(), m.watcher.wait())

	case watchErrMsg:
		return m, tea.Batch(
			tea.Println(errorStyle.Render("watch: "+msg.err.Error())),
			m.watcher.wait(),
		)

	case loadedMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("reload failed: " + msg.err.Error()))
		}

		m = m.setTable(msg.table)
		refreshMatches(&m)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("reloaded %d parcels", m.table.Len())))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len())))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(fmt.Sprintf(
			"%d parcels. Type a print-key code, or :help", m.table.Len())))

	default:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			refreshMatches(&m)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)
		}

		return m, nil
	}

	m.tabActive = false

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

// cycle moves the tab selection by step, completing the current word.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
func refreshMatches(m *model) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}
}

// historyMove steps through history; moving past the newest entry clears
// the input.
func (m model) historyMove(step int) model {
	idx := m.historyIdx + step
	if idx < 0 || idx > m.history.Len() {
		return m
	}

	m.historyIdx = idx
	m.tabActive = false

	line, err := m.history.Entry(idx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	refreshMatches(&m)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if err := m.history.Add(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m)

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(input))

	if name, ok := strings.CutPrefix(input, commandPrefix); ok {
		return m.executeCommand(echo, name)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl lookup", slog.String("input", input))

	out, err := lookupView(m.table, input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

func (m model) executeCommand(echo tea.Cmd, input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		n := listLimit
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 0 {
				return m, tea.Sequence(echo,
					tea.Println(errorStyle.Render("list: invalid count "+strconv.Quote(arg))))
			}

			n = v
		}

		return m, tea.Sequence(echo, tea.Println(listView(m.table.Entries(), n)))

	case "w", "where":
		out, err := whereView(m.table, arg)
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(out))

	case "r", "reload":
		return m, tea.Sequence(echo, m.reload())

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("unknown command: "+name+" (try :help)")))
	}
}

// reload returns a command that reloads the roll.
func (m model) reload() tea.Cmd {
	ctx, load := m.ctxFunc(), m.load

	return func() tea.Msg {
		table, err := load(ctx)

		return loadedMsg{table: table, err: err}
	}
}

// lookupView renders the parcels named by a comma-separated key list.
func lookupView(table *roll.Table, input string) (string, error) {
	var b strings.Builder

	for i, key := range roll.SplitKeys(input) {
		e, err := table.Lookup(key)
		if errors.Is(err, roll.ErrKeyNotFound) {
			if sugg := table.Suggest(key, suggestions); len(sugg) > 0 {
				return "", fmt.Errorf("%w (did you mean %s?)", err, joinKeys(sugg))
			}
		}

		if err != nil {
			return "", err
		}

		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(keyStyle.Render(e.Key.String()))
		b.WriteString(hintStyle.Render(fmt.Sprintf(" (line %d)", e.Line)))
		b.WriteString("\n")
		b.WriteString(e.Text)
	}

	return b.String(), nil
}

// listView renders up to n keys of entries, noting how many were omitted.
func listView(entries []roll.Entry, n int) string {
	if len(entries) == 0 {
		return hintStyle.Render("no parcels")
	}

	var b strings.Builder

	for _, e := range entries[:min(n, len(entries))] {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(e.Key.String()))
		b.WriteString(hintStyle.Render(" " + firstLine(e.Text)))
		b.WriteString("\n")
	}

	if n < len(entries) {
		b.WriteString(hintStyle.Render(fmt.Sprintf("  ... %d more", len(entries)-n)))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// whereView renders the keys of parcels matching src.
func whereView(table *roll.Table, src string) (string, error) {
	if src == "" {
		return "", errors.New("where: missing expression")
	}

	q, err := roll.CompileQuery(src)
	if err != nil {
		return "", err
	}

	sel, err := table.Select(q)
	if err != nil {
		return "", err
	}

	return listView(sel, len(sel)), nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")

	return line
}

func joinKeys(keys []roll.Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}

	return strings.Join(names, ", ")
}
