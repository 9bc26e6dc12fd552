package task

import (
	"fmt"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces the time source used for task timestamps.
func WithClock(clock Clock) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// Store holds the task list, newest first.
type Store struct {
	tasks  []Task
	nextID int
	now    Clock
}

// NewStore returns an empty store whose first task gets id 1.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextID returns the id the next created task will receive.
func (s *Store) NextID() int {
	return s.nextID
}

// Create validates text and prepends a new pending task.
func (s *Store) Create(text string) (Task, error) {
	normalized, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}

	t := Task{
		ID:        s.nextID,
		Text:      normalized,
		CreatedAt: s.now(),
	}
	s.nextID++

	s.tasks = append(s.tasks, Task{})
	copy(s.tasks[1:], s.tasks)
	s.tasks[0] = t

	return t.clone(), nil
}

// Toggle flips a task's completion state. Completing a task stamps
// CompletedAt; reopening it clears CompletedAt.
func (s *Store) Toggle(id int) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		now := s.now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return t.clone(), nil
}

// Edit replaces a task's text and stamps EditedAt. Completion state is left
// alone. Text is validated before the id is looked up.
func (s *Store) Edit(id int, text string) (Task, error) {
	normalized, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}

	i := s.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	t := &s.tasks[i]
	t.Text = normalized
	now := s.now()
	t.EditedAt = &now
	return t.clone(), nil
}

// Delete removes the task with id and reports whether one was removed.
func (s *Store) Delete(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// ClearCompleted removes every completed task and returns how many went.
func (s *Store) ClearCompleted() int {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	// Zero the tail so dropped tasks do not linger in the backing array.
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = Task{}
	}
	s.tasks = kept
	return removed
}

// Get returns a copy of the task with id.
func (s *Store) Get(id int) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i].clone(), nil
}

// Filter returns copies of the tasks matching f, in store order.
// The result is never nil.
func (s *Store) Filter(f Filter) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			out = append(out, t.clone())
		}
	}
	return out
}

// All is shorthand for Filter(FilterAll).
func (s *Store) All() []Task {
	return s.Filter(FilterAll)
}

// Stats counts all tasks and completed tasks.
func (s *Store) Stats() Stats {
	stats := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			stats.Completed++
		}
	}
	return stats
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Seed loads pre-built tasks into a store that has never assigned an id,
// keeping their order. The id counter moves past the highest seeded id.
// Nothing changes if any task is invalid.
func (s *Store) Seed(tasks []Task) error {
	if len(s.tasks) > 0 {
		return fmt.Errorf("seed: store already holds %d tasks", len(s.tasks))
	}
	// Deleted tasks leave no trace in s.tasks, but their ids stay spent.
	if s.nextID != 1 {
		return fmt.Errorf("seed: store has already assigned ids up to %d", s.nextID-1)
	}

	seen := make(map[int]bool, len(tasks))
	seeded := make([]Task, 0, len(tasks))
	maxID := 0
	for i, t := range tasks {
		if t.ID < 1 {
			return fmt.Errorf("seed: tasks[%d]: id must be positive, got %d", i, t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("seed: tasks[%d]: duplicate id %d", i, t.ID)
		}
		seen[t.ID] = true

		normalized, err := NormalizeText(t.Text)
		if err != nil {
			return fmt.Errorf("seed: tasks[%d]: %w", i, err)
		}
		if t.Completed != (t.CompletedAt != nil) {
			return fmt.Errorf("seed: tasks[%d]: completed_at must be set exactly when completed", i)
		}

		t.Text = normalized
		seeded = append(seeded, t.clone())
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	s.tasks = seeded
	if maxID >= s.nextID {
		s.nextID = maxID + 1
	}
	return nil
}

func (s *Store) index(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
