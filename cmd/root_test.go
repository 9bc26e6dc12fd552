// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/taskmaster-go/internal/ui"
)

// isolate points HOME at a temp dir, clears TASKMASTER_* variables and
// moves into an empty work dir, so no real config is picked up.
func isolate(t *testing.T) (work, logDir string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"SEED", "DEMO", "FILTER", "CONFIRM_DELETE", "COUNTER_WARN_AT", "COUNTER_DANGER_AT",
		"LOG_DIR", "LOG_LEVEL", "LOG_FORMAT", "LOG_TIMESTAMPS", "LOG_CALLER",
	} {
		t.Setenv("TASKMASTER_"+name, "")
	}
	work = t.TempDir()
	{
		prev, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(work); err != nil {
			t.Fatal(err)
		}
		t.Setenv("PWD", work)
		t.Cleanup(func() { _ = os.Chdir(prev) })
	}
	logDir = filepath.Join(home, "logs")
	return work, logDir
}

// runCLI runs the CLI with stdin set to input and returns stdout and stderr.
func runCLI(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, streams{
		in:     strings.NewReader(input),
		out:    &out,
		errOut: &errOut,
	})
	return out.String(), errOut.String(), err
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	isolate(t)

	t.Run("shows help with --help flag", func(t *testing.T) {
		out, _, err := runCLI(t, "", "--help")
		if err != nil {
			t.Fatalf("expected no error with --help, got %v", err)
		}
		if !strings.Contains(out, "Usage:") {
			t.Errorf("expected usage output, got %q", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		out, _, err := runCLI(t, "", "help")
		if err != nil {
			t.Fatalf("expected no error with help command, got %v", err)
		}
		if !strings.Contains(out, "exec") || !strings.Contains(out, "-counter-warn-at") {
			t.Errorf("usage missing commands or flags: %q", out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, arg := range []string{"--version", "-v", "version"} {
			out, _, err := runCLI(t, "", arg)
			if err != nil {
				t.Fatalf("%s: unexpected error %v", arg, err)
			}
			if out != "taskmaster version "+Version+"\n" {
				t.Errorf("%s: got %q", arg, out)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		_, errOut, err := runCLI(t, "", "unknown-command")
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
		if !strings.Contains(errOut, "Unknown command: unknown-command") {
			t.Errorf("expected message on stderr, got %q", errOut)
		}
	})

	t.Run("invalid filter flag fails config load", func(t *testing.T) {
		_, _, err := runCLI(t, "", "--filter", "someday", "version")
		if err == nil || !strings.Contains(err.Error(), "default_filter") {
			t.Errorf("expected default_filter error, got %v", err)
		}
	})
}

func TestTUIRequiresTTY(t *testing.T) {
	if ui.IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	_, logDir := isolate(t)

	_, _, err := runCLI(t, "", "--log-dir", logDir)
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("expected TTY error, got %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	_, logDir := isolate(t)

	out, _, err := runCLI(t, "", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "counter_warn_at = 60") {
		t.Errorf("expected example config, got %q", out)
	}

	out, _, err = runCLI(t, "", "--log-dir", logDir, "--log-level", "debug", "config", "--show")
	if err != nil {
		t.Fatalf("config --show: %v", err)
	}
	for _, want := range []string{"log_level", "debug", "(flag)", "(default)"} {
		if !strings.Contains(out, want) {
			t.Errorf("config --show missing %q:\n%s", want, out)
		}
	}

	if _, _, err := runCLI(t, "", "config", "extra"); err == nil {
		t.Error("expected error for unexpected argument")
	}
}

func TestExecCommand(t *testing.T) {
	_, logDir := isolate(t)

	input := strings.Join([]string{
		"# groceries",
		"add Buy milk",
		"",
		"add Walk dog",
		"toggle 1",
		"edit 2 Walk the dog",
		"ls",
		"stats",
	}, "\n")

	out, errOut, err := runCLI(t, input, "--log-dir", logDir, "exec")
	if err != nil {
		t.Fatalf("exec: %v (stderr %q)", err, errOut)
	}

	want := strings.Join([]string{
		"Added #1: Buy milk",
		"Added #2: Walk dog",
		"Completed #1: Buy milk",
		"Edited #2: Walk the dog",
		"[ ]   2  Walk the dog",
		"[x]   1  Buy milk",
		"Total: 2  Completed: 1  Pending: 1",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("exec output mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestExecContinuesAfterErrors(t *testing.T) {
	_, logDir := isolate(t)

	input := "add   \ntoggle 9\nbogus\nadd ok\n"
	out, errOut, err := runCLI(t, input, "--log-dir", logDir, "exec")
	if err == nil {
		t.Fatal("expected error when lines fail")
	}
	if err.Error() != "3 of 4 commands failed" {
		t.Errorf("unexpected error: %v", err)
	}
	if out != "Added #1: ok\n" {
		t.Errorf("unexpected output %q", out)
	}
	for _, want := range []string{"line 1: add: text: text is empty", "line 2: toggle: task 9 not found", "line 3: unknown command"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestExecFromFileAsJSON(t *testing.T) {
	work, logDir := isolate(t)

	path := filepath.Join(work, "commands.txt")
	if err := os.WriteFile(path, []byte("add Buy milk\nclear\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "", "--log-dir", logDir, "exec", "-f", path, "--json")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}

	dec := json.NewDecoder(strings.NewReader(out))
	var first, second map[string]interface{}
	if err := dec.Decode(&first); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatal(err)
	}
	if first["command"] != "add" {
		t.Errorf("first command = %v", first["command"])
	}
	if second["removed"] != float64(0) {
		t.Errorf("removed = %v", second["removed"])
	}

	if _, _, err := runCLI(t, "", "--log-dir", logDir, "exec", "-f", filepath.Join(work, "missing.txt")); err == nil {
		t.Error("expected error for missing command file")
	}
}

func TestExecWithDemo(t *testing.T) {
	_, logDir := isolate(t)

	out, _, err := runCLI(t, "ls\nadd New one\n", "--log-dir", logDir, "--demo", "exec")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "[x]   3") {
		t.Errorf("expected completed demo task 3 last, got %q", lines[2])
	}
	if lines[3] != "Added #4: New one" {
		t.Errorf("expected next id 4, got %q", lines[3])
	}
}

func TestExecWithSeed(t *testing.T) {
	work, logDir := isolate(t)

	seedFile := filepath.Join(work, "tasks.seed.json")
	content := `{"schema_version": 1, "tasks": [
  {"id": 7, "text": "Seeded", "completed": false, "created_at": "2024-01-01T08:00:00Z"}
]}`
	if err := os.WriteFile(seedFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// Relative seed paths resolve against the working directory.
	out, _, err := runCLI(t, "add Next\n", "--log-dir", logDir, "--seed", "tasks.seed.json", "exec")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "Added #8: Next\n" {
		t.Errorf("unexpected output %q", out)
	}

	bad := filepath.Join(work, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"schema_version": 1, "tasks": [{"id": 1, "text": ""}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err = runCLI(t, "stats\n", "--log-dir", logDir, "--seed", bad, "exec")
	if err == nil || !strings.Contains(err.Error(), "invalid seed file") {
		t.Errorf("expected invalid seed error, got %v", err)
	}
}

func TestLogsCommand(t *testing.T) {
	_, logDir := isolate(t)

	out, _, err := runCLI(t, "", "--log-dir", logDir, "logs")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "No log files found.") {
		t.Errorf("expected no logs message, got %q", out)
	}

	if _, _, err := runCLI(t, "add Buy milk\n", "--log-dir", logDir, "--log-format", "logfmt", "exec"); err != nil {
		t.Fatalf("exec: %v", err)
	}

	out, _, err = runCLI(t, "", "--log-dir", logDir, "logs", "-n", "0")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	for _, want := range []string{"Tailing:", "session started", "task created", "session ended"} {
		if !strings.Contains(out, want) {
			t.Errorf("logs output missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, "", "--log-dir", logDir, "logs", "-n", "1")
	if err != nil {
		t.Fatalf("logs -n 1: %v", err)
	}
	if strings.Contains(out, "session started") || !strings.Contains(out, "session ended") {
		t.Errorf("expected only the last line, got:\n%s", out)
	}
}

func TestExecWithPaddedSeedText(t *testing.T) {
	work, logDir := isolate(t)

	text := strings.Repeat("a", 99)
	seedFile := filepath.Join(work, "padded.json")
	content := `{"schema_version": 1, "tasks": [
  {"id": 1, "text": "  ` + text + `  ", "completed": false, "created_at": "2024-01-01T08:00:00Z"}
]}`
	if err := os.WriteFile(seedFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, errOut, err := runCLI(t, "get 1\n", "--log-dir", logDir, "--seed", seedFile, "exec")
	if err != nil {
		t.Fatalf("exec: %v (stderr %q)", err, errOut)
	}
	if want := "[ ]   1  " + text + "\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out, _, err = runCLI(t, "", "--log-dir", logDir, "logs", "-n", "0")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "seed file loaded") {
		t.Errorf("expected seed log line, got:\n%s", out)
	}
}
