package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the maximum number of characters in a task's text.
const MaxTextLength = 100

// Task is a single to-do item.
type Task struct {
	ID          int        `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == 0
}

// clone returns a copy that shares no pointers with t.
func (t Task) clone() Task {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.EditedAt != nil {
		at := *t.EditedAt
		c.EditedAt = &at
	}
	return c
}

// Filter selects a subset of tasks by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters lists the filter modes in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

// ParseFilter maps a mode name to a Filter. Unknown or empty names map to
// FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterPending:
		return FilterPending
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches reports whether t belongs in the filtered view.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the filter after f in display order, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Stats holds aggregate counts over the whole store.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Pending returns the number of tasks not yet completed.
func (s Stats) Pending() int {
	return s.Total - s.Completed
}

var (
	// ErrEmptyText is returned when trimmed text has no characters.
	ErrEmptyText = errors.New("text is empty")
	// ErrTooLong is returned when trimmed text exceeds MaxTextLength.
	ErrTooLong = fmt.Errorf("text exceeds %d characters", MaxTextLength)
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("task not found")
)

// ValidationError reports text that violates the length bounds.
type ValidationError struct {
	Field  string // Field that failed validation
	Length int    // Length of the trimmed value, in runes
	Err    error  // ErrEmptyText or ErrTooLong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an id with no task behind it.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NormalizeText trims text and checks it against the length bounds.
// It returns the trimmed text on success.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return "", &ValidationError{Field: "text", Length: n, Err: ErrEmptyText}
	case n > MaxTextLength:
		return "", &ValidationError{Field: "text", Length: n, Err: ErrTooLong}
	}
	return trimmed, nil
}
