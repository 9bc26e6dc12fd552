// Package command turns user intent into store operations.
//
// Both front ends speak the same language: the terminal UI builds Command
// values directly from key presses, while the exec command parses them from
// text, one per line:
//
//	add Buy milk
//	toggle 1
//	edit 1 Buy oat milk
//	rm 1
//	clear
//	ls pending
//	stats
//	get 2
//
// Blank lines and lines starting with # are ignored.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/nibzard/taskmaster-go/internal/task"
)

// Kind names a store operation.
type Kind string

const (
	KindAdd    Kind = "add"
	KindToggle Kind = "toggle"
	KindEdit   Kind = "edit"
	KindDelete Kind = "delete"
	KindClear  Kind = "clear"
	KindList   Kind = "list"
	KindStats  Kind = "stats"
	KindGet    Kind = "get"
)

// verbs maps accepted spellings to kinds.
var verbs = map[string]Kind{
	"add":    KindAdd,
	"toggle": KindToggle,
	"edit":   KindEdit,
	"rm":     KindDelete,
	"delete": KindDelete,
	"clear":  KindClear,
	"ls":     KindList,
	"list":   KindList,
	"stats":  KindStats,
	"get":    KindGet,
}

var (
	// ErrUnknownVerb is returned for a line whose first word is not a verb.
	ErrUnknownVerb = errors.New("unknown command")
	// ErrMissingID is returned when a command needs an id and has none.
	ErrMissingID = errors.New("missing task id")
	// ErrInvalidID is returned when the id is not a positive integer.
	ErrInvalidID = errors.New("invalid task id")
)

// Command is a single request against the store.
type Command struct {
	Kind   Kind
	ID     int         // toggle, edit, delete, get
	Text   string      // add, edit; untrimmed, the store validates it
	Filter task.Filter // list
}

// IsZero reports whether c carries no command, as for a blank line.
func (c Command) IsZero() bool {
	return c.Kind == ""
}

func (c Command) String() string {
	switch c.Kind {
	case KindAdd:
		return fmt.Sprintf("add %s", c.Text)
	case KindEdit:
		return fmt.Sprintf("edit %d %s", c.ID, c.Text)
	case KindToggle, KindDelete, KindGet:
		return fmt.Sprintf("%s %d", c.Kind, c.ID)
	case KindList:
		return fmt.Sprintf("list %s", c.Filter)
	default:
		return string(c.Kind)
	}
}

// Add creates a task with text.
func Add(text string) Command { return Command{Kind: KindAdd, Text: text} }

// Toggle flips the completion state of task id.
func Toggle(id int) Command { return Command{Kind: KindToggle, ID: id} }

// Edit replaces the text of task id.
func Edit(id int, text string) Command { return Command{Kind: KindEdit, ID: id, Text: text} }

// Delete removes task id.
func Delete(id int) Command { return Command{Kind: KindDelete, ID: id} }

// Clear removes every completed task.
func Clear() Command { return Command{Kind: KindClear} }

// List returns the tasks matching f.
func List(f task.Filter) Command { return Command{Kind: KindList, Filter: f} }

// Stats returns total and completed counts.
func Stats() Command { return Command{Kind: KindStats} }

// Get returns task id.
func Get(id int) Command { return Command{Kind: KindGet, ID: id} }

// Parse reads one command line. Blank lines and comments return a zero
// Command and no error.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, nil
	}

	word, rest := splitWord(line)
	kind, ok := verbs[strings.ToLower(word)]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownVerb, word)
	}

	switch kind {
	case KindAdd:
		return Add(rest), nil
	case KindClear:
		return Clear(), nil
	case KindStats:
		return Stats(), nil
	case KindList:
		mode, _ := splitWord(rest)
		return List(task.ParseFilter(mode)), nil
	}

	idWord, rest := splitWord(rest)
	id, err := parseID(idWord)
	if err != nil {
		return Command{}, fmt.Errorf("%s: %w", kind, err)
	}

	switch kind {
	case KindToggle:
		return Toggle(id), nil
	case KindEdit:
		return Edit(id, rest), nil
	case KindDelete:
		return Delete(id), nil
	default:
		return Get(id), nil
	}
}

func parseID(s string) (int, error) {
	if s == "" {
		return 0, ErrMissingID
	}
	s = strings.TrimPrefix(s, "#")
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// splitWord splits s at the first run of whitespace.
func splitWord(s string) (word, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}
