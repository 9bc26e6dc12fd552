package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/taskmaster-go/internal/task"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{}},
		{"   ", Command{}},
		{"# a comment", Command{}},
		{"add Buy milk", Add("Buy milk")},
		{"ADD   spaced   words  ", Add("spaced   words")},
		{"add", Add("")},
		{"toggle 3", Toggle(3)},
		{"toggle #3", Toggle(3)},
		{"edit 2 New text here", Edit(2, "New text here")},
		{"edit 2", Edit(2, "")},
		{"rm 7", Delete(7)},
		{"delete 7", Delete(7)},
		{"clear", Clear()},
		{"ls", List(task.FilterAll)},
		{"list pending", List(task.FilterPending)},
		{"ls completed", List(task.FilterCompleted)},
		{"ls bogus", List(task.FilterAll)},
		{"stats", Stats()},
		{"get 1", Get(1)},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"frobnicate 1", ErrUnknownVerb},
		{"toggle", ErrMissingID},
		{"rm", ErrMissingID},
		{"get", ErrMissingID},
		{"edit", ErrMissingID},
		{"toggle abc", ErrInvalidID},
		{"rm 0", ErrInvalidID},
		{"edit -1 text", ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	cmds := []Command{
		Add("Buy milk"),
		Toggle(4),
		Edit(4, "Buy oat milk"),
		Delete(4),
		Clear(),
		List(task.FilterPending),
		Stats(),
		Get(9),
	}
	for _, c := range cmds {
		got, err := Parse(c.String())
		require.NoError(t, err, c.String())
		assert.Equal(t, c, got)
	}
}

func newDispatcher(t *testing.T) (*Dispatcher, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	store := task.NewStore(task.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	return NewDispatcher(store, logger), &logs
}

func dispatch(t *testing.T, d *Dispatcher, line string) Result {
	t.Helper()
	c, err := Parse(line)
	require.NoError(t, err)
	res, err := d.Dispatch(c)
	require.NoError(t, err, line)
	return res
}

func TestDispatchLifecycle(t *testing.T) {
	d, logs := newDispatcher(t)

	res := dispatch(t, d, "add Buy milk")
	require.NotNil(t, res.Task)
	assert.Equal(t, 1, res.Task.ID)
	assert.Equal(t, task.Stats{Total: 1}, res.Stats)

	dispatch(t, d, "add Walk dog")

	res = dispatch(t, d, "toggle 1")
	assert.True(t, res.CompletionChanged)
	assert.True(t, res.Task.Completed)
	assert.Equal(t, task.Stats{Total: 2, Completed: 1}, res.Stats)

	res = dispatch(t, d, "edit 2 Walk the dog")
	assert.Equal(t, "Walk the dog", res.Task.Text)
	assert.NotNil(t, res.Task.EditedAt)

	res = dispatch(t, d, "ls pending")
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, 2, res.Tasks[0].ID)

	res = dispatch(t, d, "clear")
	assert.Equal(t, 1, res.Removed)

	res = dispatch(t, d, "rm 2")
	assert.True(t, res.Deleted)
	res = dispatch(t, d, "rm 2")
	assert.False(t, res.Deleted)

	res = dispatch(t, d, "stats")
	assert.Equal(t, task.Stats{}, res.Stats)

	out := logs.String()
	assert.Contains(t, out, "task created")
	assert.Contains(t, out, "task toggled")
	assert.Contains(t, out, "task edited")
	assert.Contains(t, out, "completed tasks cleared")
	assert.Contains(t, out, "task deleted")
}

func TestDispatchErrors(t *testing.T) {
	d, _ := newDispatcher(t)

	_, err := d.Dispatch(Add("   "))
	assert.True(t, errors.Is(err, task.ErrEmptyText))

	_, err = d.Dispatch(Add(strings.Repeat("x", 101)))
	assert.True(t, errors.Is(err, task.ErrTooLong))

	_, err = d.Dispatch(Toggle(5))
	assert.True(t, errors.Is(err, task.ErrNotFound))

	_, err = d.Dispatch(Edit(5, "text"))
	assert.True(t, errors.Is(err, task.ErrNotFound))

	_, err = d.Dispatch(Get(5))
	assert.True(t, errors.Is(err, task.ErrNotFound))

	_, err = d.Dispatch(Command{Kind: "explode"})
	assert.True(t, errors.Is(err, ErrUnknownVerb))

	assert.Zero(t, d.Store().Len())
	assert.Equal(t, 1, d.Store().NextID())
}

func TestNilLogger(t *testing.T) {
	d := NewDispatcher(task.NewStore(), nil)
	_, err := d.Dispatch(Add("quiet"))
	assert.NoError(t, err)
}

func TestFormatText(t *testing.T) {
	d, _ := newDispatcher(t)

	var out bytes.Buffer
	for _, line := range []string{
		"add Buy milk",
		"add Walk dog",
		"toggle 1",
		"toggle 1",
		"toggle 2",
		"edit 1 Buy oat milk",
		"ls",
		"get 2",
		"stats",
		"clear",
		"rm 1",
		"rm 1",
		"ls completed",
	} {
		res := dispatch(t, d, line)
		require.NoError(t, res.Format(&out, false))
	}

	want := strings.Join([]string{
		"Added #1: Buy milk",
		"Added #2: Walk dog",
		"Completed #1: Buy milk",
		"Reopened #1: Buy milk",
		"Completed #2: Walk dog",
		"Edited #1: Buy oat milk",
		"[x]   2  Walk dog",
		"[ ]   1  Buy oat milk",
		"[x]   2  Walk dog",
		"Total: 2  Completed: 1  Pending: 1",
		"Cleared 1 completed task",
		"Deleted #1",
		"No task #1",
		"No completed tasks",
	}, "\n") + "\n"
	assert.Equal(t, want, out.String())
}

func TestFormatJSON(t *testing.T) {
	d, _ := newDispatcher(t)

	var out bytes.Buffer
	require.NoError(t, dispatch(t, d, "add Buy milk").Format(&out, true))
	require.NoError(t, dispatch(t, d, "clear").Format(&out, true))
	require.NoError(t, dispatch(t, d, "ls completed").Format(&out, true))
	require.NoError(t, dispatch(t, d, "rm 9").Format(&out, true))

	dec := json.NewDecoder(&out)
	var objs []map[string]interface{}
	for dec.More() {
		var obj map[string]interface{}
		require.NoError(t, dec.Decode(&obj))
		objs = append(objs, obj)
	}
	require.Len(t, objs, 4)

	assert.Equal(t, "add", objs[0]["command"])
	taskObj := objs[0]["task"].(map[string]interface{})
	assert.Equal(t, float64(1), taskObj["id"])
	assert.Equal(t, "Buy milk", taskObj["text"])
	assert.NotContains(t, taskObj, "completed_at")

	assert.Equal(t, float64(0), objs[1]["removed"])

	assert.Equal(t, "completed", objs[2]["filter"])
	assert.Equal(t, []interface{}{}, objs[2]["tasks"])

	assert.Equal(t, false, objs[3]["deleted"])
	stats := objs[3]["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total"])
}
