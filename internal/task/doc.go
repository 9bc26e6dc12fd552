// Package task owns the in-memory task list.
//
// A Store holds tasks newest-first and exposes validated mutations
// (Create, Toggle, Edit, Delete, ClearCompleted) and pure queries
// (Filter, Stats, Get). All results are copies; callers never hold a
// reference into the store's own slice.
//
// # Text Rules
//
//   - Leading and trailing whitespace is trimmed before anything else
//   - Trimmed text must be 1 to 100 characters, counted in runes
//   - Empty text fails with ErrEmptyText, long text with ErrTooLong
//
// # Identifiers
//
// Ids start at 1 and increase by one per successful Create. They are never
// reused, even after the task they named has been deleted.
//
// # Concurrency
//
// A Store is not safe for concurrent use. It is meant to be driven from a
// single event loop, such as a Bubble Tea Update method or a line-by-line
// command reader.
package task
