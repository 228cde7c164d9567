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

	"github.com/ardnew/jamal/cli/cmd"
	"github.com/ardnew/jamal/lang"
	"github.com/ardnew/jamal/log"
	"github.com/ardnew/jamal/pkg"
)

// REPL starts an interactive session.
type REPL struct {
	File string `arg:"" help:"Source file executed before the session starts" name:"file" optional:""`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := cmd.OptionsFrom(ctx)
	in := lang.New(opts.Lang()...)

	if r.File != "" {
		f, err := lang.ParseFile(ctx, opts.Find(r.File), opts.Lang()...)
		if err != nil {
			return err
		}

		if _, err := in.Execute(ctx, f); err != nil {
			return lang.WrapError(err).With(slog.String("file", r.File))
		}
	}

	return Run(ctx, in, pkg.CacheDir(), in.Logger())
}

// editFileMsg is sent when editing completes with a parsed program.
type editFileMsg struct{ file *lang.File }

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit after a parse error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const prompt = "➜ "

func helpMessage() string {
	return `
Commands:

  :help         Print this cruft
  :vars         List the bindings of the session
  :ast SOURCE   Print the parse tree of SOURCE
  :edit         Edit the session bindings in $EDITOR
  :reset        Discard every binding
  :clear        Clear screen
  :quit         Exit REPL

Usage:
  Type statements to execute them; the value of the last expression is printed
  Bindings persist for the whole session
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Keep typing to accept the current candidate
  Press Esc to abandon tab-cycling
  Use Up/Down arrows for history navigation
  Use Shift+Up/Shift+Down to navigate only commands or only statements,
    matching the current input
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	in           *lang.Interpreter
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts the REPL on the given interpreter, whose bindings are visible to
// and modified by the session. History is kept in cacheDir.
func Run(
	ctx context.Context,
	in *lang.Interpreter,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("binding_count", len(in.Scope().Names())),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, in, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	in *lang.Interpreter,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		in:         in,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil

	case editFileMsg:
		return m.replaceSession(msg.file)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var inputCmd tea.Cmd

	m.input, inputCmd = m.input.Update(msg)

	return m, inputCmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		// Show history position indicator
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a statement, or :help for commands"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyShiftUp:
		return m.historySeek(-1), nil

	case tea.KeyShiftDown:
		return m.historySeek(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		// Typing accepts the current tab candidate.
		var inputCmd tea.Cmd

		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.input, inputCmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, inputCmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var inputCmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, inputCmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, inputCmd
}

// cycle moves the tab selection by step through the current matches.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	// Single candidate: complete and confirm immediately.
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

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if _, err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echoCmd := tea.Println(formatCommand(input))

	if name, ok := strings.CutPrefix(input, commandPrefix); ok {
		m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("input", input))

		return m.executeCommand(name, echoCmd)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	out, err := m.eval(input)
	if err != nil {
		return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if out == "" {
		return m, echoCmd
	}

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(out)))
}

// eval executes src in the session and returns the rendering of its last
// expression value, or "" if it had none.
func (m model) eval(src string) (string, error) {
	result, err := m.in.ExecuteString(m.ctxFunc(), src)
	if err != nil {
		return "", err
	}

	if _, ok := m.in.Last(); !ok {
		return "", nil
	}

	return lang.FormatResult(result), nil
}

func (m model) executeCommand(input string, echoCmd tea.Cmd) (model, tea.Cmd) {
	name, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	args = strings.TrimSpace(args)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", name),
		slog.String("args", args),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echoCmd, tea.Println(m.varsView()))

	case "a", "ast":
		view, err := m.astView(args)
		if err != nil {
			return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		return m, tea.Sequence(echoCmd, tea.Println(view))

	case "r", "reset":
		m.in.Reset()

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("bindings discarded")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.editCmd())

	default:
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("Unknown command: "+name+" (try :help)"),
		))
	}
}

// varsView renders the session bindings as the declarations that would
// recreate them.
func (m model) varsView() string {
	var sb strings.Builder

	if err := lang.DumpNative(&sb, m.in.Scope()); err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	if sb.Len() == 0 {
		return hintStyle.Render("no bindings")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// astView renders the parse tree of src.
func (m model) astView(src string) (string, error) {
	f, err := lang.Parse(m.ctxFunc(), src, lang.WithLogger(m.logger))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := f.Print(m.ctxFunc(), &sb); err != nil {
		return "", err
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// editCmd opens the session bindings in the user's editor.
func (m model) editCmd() tea.Cmd {
	var sb strings.Builder

	_ = lang.DumpNative(&sb, m.in.Scope())

	c := &editCommand{
		source:  sb.String(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(c, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editCancelledMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if c.newFile == nil {
			return editCancelledMsg{}
		}

		return editFileMsg{file: c.newFile}
	})
}

// replaceSession discards every binding and executes f in their place.
func (m model) replaceSession(f *lang.File) (model, tea.Cmd) {
	m.in.Reset()

	if _, err := m.in.Execute(m.ctxFunc(), f); err != nil {
		return m, tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl edit complete",
		slog.Int("binding_count", len(m.in.Scope().Names())),
	)

	return m, tea.Println(resultStyle.Render("bindings updated"))
}

func (m model) historyPrev() model {
	if m.historyIdx > 0 {
		m.historyIdx--
		m = m.recall()
	}

	return m
}

func (m model) historyNext() model {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		return m.recall()
	}

	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

// historySeek moves through history in direction dir (-1 older, +1 newer),
// skipping entries of the other kind: commands when the current input is a
// statement, and statements when it is a command.
func (m model) historySeek(dir int) model {
	command := strings.HasPrefix(strings.TrimSpace(m.input.Value()), commandPrefix)

	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		line, err := m.history.GetLine(i)
		if err != nil {
			break
		}

		if strings.HasPrefix(line, commandPrefix) == command {
			m.historyIdx = i

			return m.recall()
		}
	}

	// Reached the end of history, clear input
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// recall loads the history entry at historyIdx into the input.
func (m model) recall() model {
	if line, err := m.history.GetLine(m.historyIdx); err == nil {
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
		refreshMatches(&m, false)
	}

	return m
}
