// Package ui provides the terminal board viewer and styled listings.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/taskboard/internal/board"
	"github.com/nibzard/taskboard/internal/store"
)

// RunTUI shows the board at path until the user quits or ctx is done. The
// view reloads whenever the file changes on disk.
func RunTUI(ctx context.Context, path string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(path, newStyles(lipgloss.DefaultRenderer()))
	if w, err := NewWatcher(path); err == nil {
		if err := w.Start(ctx); err == nil {
			defer w.Stop()
			model.changes = w.Changes()
			model.watchErrs = w.Errors()
		} else {
			w.Stop()
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	path     string
	styles   styles
	board    *board.Board
	loadErr  error
	loadedAt time.Time
	filter   string // section title; empty shows the whole board
	showHelp bool

	// changes is nil when no watcher could be started; the model then
	// polls every tickInterval.
	changes      <-chan struct{}
	watchErrs    <-chan error
	watchErr     error
	tickInterval time.Duration
	now          func() time.Time
}

type tickMsg time.Time

type boardChangedMsg struct{}

type watchErrorMsg struct{ err error }

func newTUIModel(path string, st styles) *tuiModel {
	return &tuiModel{
		path:         path,
		styles:       st,
		tickInterval: 2 * time.Second,
		now:          time.Now,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	if m.changes != nil {
		return tea.Batch(waitForChange(m.changes), waitForWatchError(m.watchErrs))
	}
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "tab", "right", "l":
			m.cycleFilter(1)
		case "shift+tab", "left":
			m.cycleFilter(-1)
		case "0":
			m.filter = ""
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			i, _ := strconv.Atoi(key)
			if tabs := m.tabs(); i <= len(tabs) {
				m.filter = tabs[i-1]
			}
		}
		return m, nil
	case boardChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	case watchErrorMsg:
		m.watchErr = msg.err
		return m, waitForWatchError(m.watchErrs)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	st := m.styles

	b.WriteString(st.title.Render(" Taskboard ") + " " + st.dim.Render(m.path) + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(st.err.Render("Error loading board:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		m.writeFooter(&b)
		return b.String()
	}
	if m.board == nil {
		b.WriteString("Loading...\n\n")
		m.writeFooter(&b)
		return b.String()
	}

	m.writeTabs(&b)
	text, err := renderBoard(st, m.board, ListOptions{Section: m.filter, Verbose: m.filter != ""})
	if err != nil {
		b.WriteString(st.err.Render(err.Error()) + "\n")
	} else {
		b.WriteString(text)
	}
	b.WriteString("\n")
	m.writeFooter(&b)
	return b.String()
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return boardChangedMsg{}
	}
}

// waitForWatchError returns nil for a nil channel, so no command runs.
func waitForWatchError(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return watchErrorMsg{err: err}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	snap, err := store.New(m.path).Load()
	m.loadedAt = m.now()
	if err != nil {
		m.loadErr = err
		m.board = nil
		return
	}
	m.loadErr = nil
	m.board = snap.Board
	if m.filter != "" && m.board.FindSection(m.filter) == nil {
		m.filter = ""
	}
}

// tabs returns the workflow and tier sections present on the board, in
// board order.
func (m *tuiModel) tabs() []string {
	if m.board == nil {
		return nil
	}
	var tabs []string
	for _, s := range m.board.Sections {
		if _, ok := s.Spec(); ok {
			tabs = append(tabs, s.Title)
		}
	}
	return tabs
}

func (m *tuiModel) cycleFilter(step int) {
	tabs := m.tabs()
	if len(tabs) == 0 {
		return
	}
	// Position 0 is "all", positions 1..n are tabs.
	pos := 0
	for i, title := range tabs {
		if title == m.filter {
			pos = i + 1
		}
	}
	pos = (pos + step + len(tabs) + 1) % (len(tabs) + 1)
	if pos == 0 {
		m.filter = ""
		return
	}
	m.filter = tabs[pos-1]
}

func (m *tuiModel) writeTabs(b *strings.Builder) {
	st := m.styles
	labels := []string{}
	render := func(label string, active bool) string {
		if active {
			return st.activeTab.Render(" " + label + " ")
		}
		return st.inactiveTab.Render(" " + label + " ")
	}
	labels = append(labels, render("0 All", m.filter == ""))
	for i, title := range m.tabs() {
		count := 0
		if s := m.board.FindSection(title); s != nil {
			count = len(s.Tasks)
		}
		labels = append(labels, render(fmt.Sprintf("%d %s (%d)", i+1, title, count), title == m.filter))
	}
	b.WriteString(strings.Join(labels, " ") + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c       Quit\n")
	b.WriteString("  r, F5           Reload the board\n")
	b.WriteString("  h, ?            Toggle this help screen\n")
	b.WriteString("  tab, right      Next section\n")
	b.WriteString("  shift+tab, left Previous section\n")
	b.WriteString("  1-9             Show one section\n")
	b.WriteString("  0               Show the whole board\n\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	st := m.styles
	mode := "watching for changes"
	if m.changes == nil {
		mode = fmt.Sprintf("refreshing every %s", m.tickInterval)
	}
	if m.watchErr != nil {
		mode = st.err.Render("watcher: " + m.watchErr.Error())
	}
	b.WriteString(st.footer.Render(fmt.Sprintf("%s help | %s quit | %s | loaded %s",
		st.footerKey.Render("h"),
		st.footerKey.Render("q"),
		mode,
		m.loadedAt.Format("15:04:05"),
	)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
