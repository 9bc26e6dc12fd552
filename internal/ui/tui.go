// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskmaster-go/internal/command"
	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/task"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithClock sets the time source used for relative timestamps. It should
// match the store's clock.
func WithClock(now func() time.Time) TUIOption {
	return func(m *tuiModel) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTickInterval sets how often relative timestamps are refreshed.
func WithTickInterval(d time.Duration) TUIOption {
	return func(m *tuiModel) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// RunTUI starts the TUI on the dispatcher's store.
func RunTUI(ctx context.Context, cfg *config.Config, d *command.Dispatcher, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(cfg, d, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type tuiModel struct {
	dispatcher    *command.Dispatcher
	confirmDelete bool
	warnAt        int
	dangerAt      int
	now           func() time.Time
	tickInterval  time.Duration

	state   appState
	input   textinput.Model
	visible []task.Task
	stats   task.Stats
}

type tickMsg time.Time

func newTUIModel(cfg *config.Config, d *command.Dispatcher, opts ...TUIOption) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 2 * task.MaxTextLength
	ti.Width = 60

	m := &tuiModel{
		dispatcher:    d,
		confirmDelete: cfg.ConfirmDelete,
		warnAt:        cfg.CounterWarnAt,
		dangerAt:      cfg.CounterDangerAt,
		now:           time.Now,
		tickInterval:  30 * time.Second,
		input:         ti,
		state: appState{
			filter: task.ParseFilter(cfg.DefaultFilter),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg.String())
		case modeConfirmClear:
			return m.updateConfirmClear(msg.String())
		default:
			return m.updateList(msg.String())
		}
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.input.Width = msg.Width - 10
		}
	case tickMsg:
		// Relative timestamps are computed in View; re-arming the tick is
		// enough to redraw them.
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "?", "h":
		m.state.showHelp = !m.state.showHelp
	case "up", "k":
		m.state.cursor = clampCursor(m.state.cursor-1, len(m.visible))
	case "down", "j":
		m.state.cursor = clampCursor(m.state.cursor+1, len(m.visible))
	case "1":
		m.setFilter(task.FilterAll)
	case "2":
		m.setFilter(task.FilterPending)
	case "3":
		m.setFilter(task.FilterCompleted)
	case "tab":
		m.setFilter(m.state.filter.Next())
	case "a", "n", "ctrl+n":
		m.state.mode = modeAdd
		m.input.SetValue("")
		m.state.setStatus("")
		return m, m.input.Focus()
	case " ", "x":
		if t, ok := m.selected(); ok {
			m.run(command.Toggle(t.ID))
		}
	case "e":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		res, err := m.dispatcher.Dispatch(command.Get(t.ID))
		if err != nil {
			m.state.setError(err)
			return m, nil
		}
		m.state.mode = modeEdit
		m.state.editID = res.Task.ID
		m.input.SetValue(res.Task.Text)
		m.input.CursorEnd()
		m.state.setStatus("")
		return m, m.input.Focus()
	case "d", "delete":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !m.confirmDelete {
			m.run(command.Delete(t.ID))
			return m, nil
		}
		m.state.mode = modeConfirmDelete
		m.state.pendingDelete = &t
		m.state.setStatus(deletePrompt(t))
	case "c":
		if m.stats.Completed == 0 {
			m.state.setStatus("No completed tasks to clear!")
			return m, nil
		}
		m.state.mode = modeConfirmClear
		m.state.pendingClear = m.stats.Completed
		m.state.setStatus(clearPrompt(m.stats.Completed))
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		m.state.setStatus("Cancelled")
		return m, nil
	case "enter":
		value := m.input.Value()
		if !canSubmit(value) {
			return m, nil
		}
		var c command.Command
		if m.state.mode == modeEdit {
			c = command.Edit(m.state.editID, value)
		} else {
			c = command.Add(value)
		}
		if !m.run(c) {
			// Keep the input open so the text can be fixed.
			return m, nil
		}
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		if t := m.state.pendingDelete; t != nil {
			m.state.reset()
			m.run(command.Delete(t.ID))
			return m, nil
		}
		m.state.reset()
	case "n", "N", "esc":
		m.state.reset()
		m.state.setStatus("Delete cancelled")
	}
	return m, nil
}

func (m *tuiModel) updateConfirmClear(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.state.reset()
		m.run(command.Clear())
	case "n", "N", "esc":
		m.state.reset()
		m.state.setStatus("Clear cancelled")
	}
	return m, nil
}

// run dispatches c, refreshes the view and reports the outcome in the
// status line. It returns false if the store rejected the command.
func (m *tuiModel) run(c command.Command) bool {
	res, err := m.dispatcher.Dispatch(c)
	if err != nil {
		m.state.setError(err)
		return false
	}
	m.refresh()

	switch c.Kind {
	case command.KindAdd:
		m.state.setStatus(fmt.Sprintf("Added %q", res.Task.Text))
		if m.state.filter.Matches(*res.Task) {
			m.state.cursor = 0
		} else {
			m.state.status += fmt.Sprintf(" (hidden by %s filter)", m.state.filter)
		}
	case command.KindToggle:
		if res.CompletionChanged && res.Task.Completed {
			m.state.setStatus(fmt.Sprintf("Completed %q. Nice work!", res.Task.Text))
		} else {
			m.state.setStatus(fmt.Sprintf("Reopened %q", res.Task.Text))
		}
	case command.KindEdit:
		m.state.setStatus(fmt.Sprintf("Saved %q", res.Task.Text))
	case command.KindDelete:
		if res.Deleted {
			m.state.setStatus("Task deleted")
		}
	case command.KindClear:
		m.state.setStatus(fmt.Sprintf("Cleared %d completed %s", res.Removed, plural(res.Removed, "task")))
	}
	return true
}

func (m *tuiModel) refresh() {
	res, err := m.dispatcher.Dispatch(command.List(m.state.filter))
	if err != nil {
		m.state.setError(err)
		return
	}
	m.visible = res.Tasks
	m.stats = res.Stats
	m.state.cursor = clampCursor(m.state.cursor, len(m.visible))
}

func (m *tuiModel) setFilter(f task.Filter) {
	if m.state.filter == f {
		return
	}
	m.state.filter = f
	m.state.cursor = 0
	m.refresh()
}

func (m *tuiModel) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.state.cursor, len(m.visible))], true
}

func (m *tuiModel) closeInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.state.reset()
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	writeStats(&b, m.stats)
	writeFilters(&b, m.state.filter)

	if m.state.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.state.mode)
		return b.String()
	}

	m.writeTasks(&b)

	if m.state.mode == modeAdd || m.state.mode == modeEdit {
		m.writeInput(&b)
	}
	writeStatus(&b, m.state)
	writeFooter(&b, m.state.mode)
	return b.String()
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.visible) == 0 {
		title, hint := emptyMessage(m.state.filter)
		b.WriteString("  " + emptyStyle.Render(title) + "\n")
		b.WriteString("  " + metaStyle.Render(hint) + "\n\n")
		return
	}

	now := m.now()
	for i, t := range m.visible {
		cursor := " "
		if i == m.state.cursor && m.state.mode == modeList {
			cursor = ">"
		}
		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}
		line := fmt.Sprintf("%s %s %s", cursor, checkbox, text)
		if cursor == ">" {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
		b.WriteString("      " + metaStyle.Render(metadataLine(t, now)) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	label := "New task"
	if m.state.mode == modeEdit {
		label = fmt.Sprintf("Edit task #%d", m.state.editID)
	}
	b.WriteString(label + "\n")
	b.WriteString(m.input.View() + "\n")

	n := inputLength(m.input.Value())
	counter := fmt.Sprintf("%d/%d", n, task.MaxTextLength)
	b.WriteString(counterStyles[levelFor(n, m.warnAt, m.dangerAt)].Render(counter))
	if !canSubmit(m.input.Value()) && n > 0 {
		b.WriteString(" " + errorStyle.Render("too long"))
	}
	b.WriteString("\n\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(b *strings.Builder) {
	title := "TaskMaster"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeStats(b *strings.Builder, s task.Stats) {
	b.WriteString(statsStyle.Render(fmt.Sprintf("Total: %d  Completed: %d  Pending: %d",
		s.Total, s.Completed, s.Pending())))
	b.WriteString("\n")
}

func writeFilters(b *strings.Builder, current task.Filter) {
	labels := map[task.Filter]string{
		task.FilterAll:       "1 All",
		task.FilterPending:   "2 Pending",
		task.FilterCompleted: "3 Completed",
	}
	tabs := make([]string, 0, len(task.Filters))
	for _, f := range task.Filters {
		if f == current {
			tabs = append(tabs, activeTab.Render(labels[f]))
		} else {
			tabs = append(tabs, inactiveTab.Render(labels[f]))
		}
	}
	b.WriteString(strings.Join(tabs, "   ") + "\n\n")
}

func writeStatus(b *strings.Builder, s appState) {
	if s.status == "" {
		return
	}
	switch {
	case s.isError:
		b.WriteString(errorStyle.Render(s.status))
	case s.mode == modeConfirmDelete || s.mode == modeConfirmClear:
		b.WriteString(promptStyle.Render(s.status))
	default:
		b.WriteString(s.status)
	}
	b.WriteString("\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a, n, ctrl+n  Add a task\n")
	b.WriteString("  space, x      Toggle completed\n")
	b.WriteString("  e             Edit selected task\n")
	b.WriteString("  d             Delete selected task\n")
	b.WriteString("  c             Clear completed tasks\n")
	b.WriteString("  up/k, down/j  Move selection\n")
	b.WriteString("  1, 2, 3       Show all, pending, completed\n")
	b.WriteString("  tab           Next filter\n")
	b.WriteString("  enter, esc    Save or cancel while typing\n")
	b.WriteString("  h, ?          Toggle this help screen\n")
	b.WriteString("  q, ctrl+c     Quit\n\n")
}

func writeFooter(b *strings.Builder, md mode) {
	var footer string
	switch md {
	case modeAdd, modeEdit:
		footer = "enter save | esc cancel"
	case modeConfirmDelete, modeConfirmClear:
		footer = "y confirm | n cancel"
	default:
		footer = "a add | space toggle | e edit | d delete | c clear done | tab filter | h help | q quit"
	}
	b.WriteString(footerStyle.Render(footer) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
