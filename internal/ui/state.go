package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nibzard/taskmaster-go/internal/task"
)

// mode is what the keyboard is currently driving.
type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
	modeConfirmClear
)

// appState is the presentation state. Tasks themselves live in the store;
// this only tracks what the user is looking at and doing.
type appState struct {
	mode   mode
	filter task.Filter
	cursor int

	editID        int        // task being edited in modeEdit
	pendingDelete *task.Task // task awaiting y/n in modeConfirmDelete
	pendingClear  int        // completed count awaiting y/n in modeConfirmClear

	showHelp bool
	status   string
	isError  bool
}

func (s *appState) setStatus(msg string) {
	s.status = msg
	s.isError = false
}

func (s *appState) setError(err error) {
	s.status = err.Error()
	s.isError = true
}

func (s *appState) reset() {
	s.mode = modeList
	s.editID = 0
	s.pendingDelete = nil
	s.pendingClear = 0
}

// clampCursor keeps the cursor inside a list of n rows.
func clampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// counterLevel grades the length of the text being typed.
type counterLevel int

const (
	counterNeutral counterLevel = iota
	counterWarn
	counterDanger
)

func levelFor(n, warnAt, dangerAt int) counterLevel {
	switch {
	case n > dangerAt:
		return counterDanger
	case n > warnAt:
		return counterWarn
	default:
		return counterNeutral
	}
}

// inputLength counts characters the way the counter shows them: raw input,
// whitespace included.
func inputLength(value string) int {
	return utf8.RuneCountInString(value)
}

// canSubmit reports whether the add or save action is enabled for value.
func canSubmit(value string) bool {
	n := inputLength(value)
	return n > 0 && n <= task.MaxTextLength
}

// emptyMessage is shown when the current filter matches nothing.
func emptyMessage(f task.Filter) (title, hint string) {
	switch f {
	case task.FilterPending:
		return "All caught up!", "You have no pending tasks. Great job staying productive!"
	case task.FilterCompleted:
		return "No completed tasks yet", "Complete some tasks to see them here and track your progress."
	default:
		return "No tasks yet!", "Press a to add your first task."
	}
}

// formatRelativeTime renders t relative to now: "just now", "N minutes ago",
// hours, days, then a plain date after a week.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	case days < 7:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}

// metadataLine describes when a task was created, edited and completed.
func metadataLine(t task.Task, now time.Time) string {
	parts := []string{"Created " + formatRelativeTime(t.CreatedAt, now)}
	if t.EditedAt != nil {
		parts = append(parts, "Edited "+formatRelativeTime(*t.EditedAt, now))
	}
	if t.CompletedAt != nil {
		parts = append(parts, "Completed "+formatRelativeTime(*t.CompletedAt, now))
	}
	return strings.Join(parts, " • ")
}

func clearPrompt(n int) string {
	return fmt.Sprintf("Delete %d completed %s? (y/n)", n, plural(n, "task"))
}

func deletePrompt(t task.Task) string {
	return fmt.Sprintf("Delete %q? (y/n)", t.Text)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
