package command

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskmaster-go/internal/logging"
	"github.com/nibzard/taskmaster-go/internal/task"
)

// Dispatcher applies commands to a store and logs every mutation.
type Dispatcher struct {
	store  *task.Store
	logger *log.Logger
}

// NewDispatcher returns a dispatcher for store. A nil logger discards output.
func NewDispatcher(store *task.Store, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{store: store, logger: logger}
}

// Store returns the store commands are applied to.
func (d *Dispatcher) Store() *task.Store {
	return d.store
}

// Result is the outcome of a dispatched command.
type Result struct {
	Command Command

	Task    *task.Task  // add, toggle, edit, get
	Tasks   []task.Task // list
	Stats   task.Stats  // every command
	Removed int         // clear
	Deleted bool        // delete

	// CompletionChanged is set when a task moved between pending and
	// completed, so hosts can give feedback.
	CompletionChanged bool
}

// Dispatch runs c against the store. Failed commands leave the store as it
// was and return the store's error.
func (d *Dispatcher) Dispatch(c Command) (Result, error) {
	res := Result{Command: c}

	switch c.Kind {
	case KindAdd:
		t, err := d.store.Create(c.Text)
		if err != nil {
			d.logger.Warn("task rejected", "op", c.Kind, "err", err)
			return res, err
		}
		res.Task = &t
		d.logger.Info("task created", "id", t.ID, "length", utf8.RuneCountInString(t.Text))

	case KindToggle:
		t, err := d.store.Toggle(c.ID)
		if err != nil {
			d.logger.Warn("toggle failed", "id", c.ID, "err", err)
			return res, err
		}
		res.Task = &t
		res.CompletionChanged = true
		d.logger.Info("task toggled", "id", t.ID, "completed", t.Completed)

	case KindEdit:
		t, err := d.store.Edit(c.ID, c.Text)
		if err != nil {
			d.logger.Warn("edit failed", "id", c.ID, "err", err)
			return res, err
		}
		res.Task = &t
		d.logger.Info("task edited", "id", t.ID, "length", utf8.RuneCountInString(t.Text))

	case KindDelete:
		res.Deleted = d.store.Delete(c.ID)
		if res.Deleted {
			d.logger.Info("task deleted", "id", c.ID)
		} else {
			d.logger.Debug("delete ignored, no such task", "id", c.ID)
		}

	case KindClear:
		res.Removed = d.store.ClearCompleted()
		d.logger.Info("completed tasks cleared", "removed", res.Removed)

	case KindList:
		res.Tasks = d.store.Filter(c.Filter)
		d.logger.Debug("tasks listed", "filter", c.Filter, "count", len(res.Tasks))

	case KindStats:
		d.logger.Debug("stats queried")

	case KindGet:
		t, err := d.store.Get(c.ID)
		if err != nil {
			return res, err
		}
		res.Task = &t

	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownVerb, c.Kind)
	}

	res.Stats = d.store.Stats()
	return res, nil
}

// Format writes r as a human-readable line (or lines), or as a single JSON
// object when asJSON is set.
func (r Result) Format(w io.Writer, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(r.jsonValue())
	}

	var err error
	switch r.Command.Kind {
	case KindAdd:
		_, err = fmt.Fprintf(w, "Added %s\n", describe(*r.Task))
	case KindToggle:
		verb := "Reopened"
		if r.Task.Completed {
			verb = "Completed"
		}
		_, err = fmt.Fprintf(w, "%s %s\n", verb, describe(*r.Task))
	case KindEdit:
		_, err = fmt.Fprintf(w, "Edited %s\n", describe(*r.Task))
	case KindGet:
		_, err = fmt.Fprintln(w, listLine(*r.Task))
	case KindDelete:
		if r.Deleted {
			_, err = fmt.Fprintf(w, "Deleted #%d\n", r.Command.ID)
		} else {
			_, err = fmt.Fprintf(w, "No task #%d\n", r.Command.ID)
		}
	case KindClear:
		_, err = fmt.Fprintf(w, "Cleared %d completed %s\n", r.Removed, plural(r.Removed, "task"))
	case KindList:
		if len(r.Tasks) == 0 {
			_, err = fmt.Fprintf(w, "No %stasks\n", filterLabel(r.Command.Filter))
			break
		}
		for _, t := range r.Tasks {
			if _, err = fmt.Fprintln(w, listLine(t)); err != nil {
				break
			}
		}
	case KindStats:
		_, err = fmt.Fprintf(w, "Total: %d  Completed: %d  Pending: %d\n",
			r.Stats.Total, r.Stats.Completed, r.Stats.Pending())
	}
	return err
}

type jsonResult struct {
	Command           Kind         `json:"command"`
	Task              *task.Task   `json:"task,omitempty"`
	Tasks             *[]task.Task `json:"tasks,omitempty"`
	Filter            task.Filter  `json:"filter,omitempty"`
	Removed           *int         `json:"removed,omitempty"`
	Deleted           *bool        `json:"deleted,omitempty"`
	CompletionChanged bool         `json:"completion_changed,omitempty"`
	Stats             task.Stats   `json:"stats"`
}

func (r Result) jsonValue() jsonResult {
	out := jsonResult{
		Command:           r.Command.Kind,
		Task:              r.Task,
		CompletionChanged: r.CompletionChanged,
		Stats:             r.Stats,
	}
	switch r.Command.Kind {
	case KindList:
		tasks := r.Tasks
		if tasks == nil {
			tasks = []task.Task{}
		}
		out.Tasks = &tasks
		out.Filter = r.Command.Filter
	case KindClear:
		removed := r.Removed
		out.Removed = &removed
	case KindDelete:
		deleted := r.Deleted
		out.Deleted = &deleted
	}
	return out
}

func describe(t task.Task) string {
	return fmt.Sprintf("#%d: %s", t.ID, t.Text)
}

func listLine(t task.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %3d  %s", mark, t.ID, t.Text)
}

func filterLabel(f task.Filter) string {
	if f == task.FilterAll || f == "" {
		return ""
	}
	return string(f) + " "
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
