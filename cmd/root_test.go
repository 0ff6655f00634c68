// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/taskboard/internal/board"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/store"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// testEnv runs commands in an isolated project with captured output.
type testEnv struct {
	t       *testing.T
	project string
	home    string
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TASKBOARD_FILE", "TASKBOARD_BACKUP_FILE", "TASKBOARD_SCHEMA",
		"TASKBOARD_HISTORY_DIR", "TASKBOARD_HISTORY_LIMIT", "TASKBOARD_JOURNAL",
		"TASKBOARD_LOG_LEVEL", "TASKBOARD_LOG_FORMAT", "TASKBOARD_AGENTS",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("TASKBOARD_LOG_DIR", filepath.Join(home, "logs"))
	chdir(t, project)
	if wd, err := os.Getwd(); err == nil {
		project = wd
	}

	env := &testEnv{
		t:       t,
		project: project,
		home:    home,
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}

	oldOut, oldErr, oldNow := stdout, stderr, now
	stdout, stderr = env.out, env.errOut
	now = func() time.Time { return testNow }
	t.Cleanup(func() {
		stdout, stderr, now = oldOut, oldErr, oldNow
	})
	return env
}

// with returns a copy of e that reports failures to t.
func (e *testEnv) with(t *testing.T) *testEnv {
	c := *e
	c.t = t
	return &c
}

// run executes the CLI with fresh output buffers.
func (e *testEnv) run(args ...string) error {
	e.t.Helper()
	e.out.Reset()
	e.errOut.Reset()
	return Run(context.Background(), args)
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	if err := e.run(args...); err != nil {
		e.t.Fatalf("taskboard %s: %v\nstderr: %s", strings.Join(args, " "), err, e.errOut.String())
	}
	return e.out.String()
}

func (e *testEnv) boardPath() string {
	return filepath.Join(e.project, ".claude", "tasks", "taskboard.md")
}

func (e *testEnv) readBoard() string {
	e.t.Helper()
	data, err := os.ReadFile(e.boardPath())
	if err != nil {
		e.t.Fatalf("read board: %v", err)
	}
	return string(data)
}

func (e *testEnv) writeBoard(content string) {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.boardPath()), 0o755); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(e.boardPath(), []byte(content), 0o644); err != nil {
		e.t.Fatal(err)
	}
}

func (e *testEnv) taskSection(id string) string {
	e.t.Helper()
	b, err := board.Parse([]byte(e.readBoard()))
	if err != nil {
		e.t.Fatalf("parse board: %v", err)
	}
	task, s := b.FindTask(id)
	if task == nil {
		e.t.Fatalf("task %s not on board", id)
	}
	return s.Title
}

func TestRun(t *testing.T) {
	t.Run("no arguments is a usage error", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run()
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("expected ErrUsage, got %v", err)
		}
		if !strings.Contains(env.errOut.String(), "Usage:") {
			t.Errorf("expected usage on stderr, got %q", env.errOut.String())
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run("frobnicate")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("expected unknown command error, got %v", err)
		}
	})

	t.Run("help and version", func(t *testing.T) {
		env := newTestEnv(t)
		for _, args := range [][]string{{"help"}, {"-h"}, {"--help"}} {
			out := env.mustRun(args...)
			if !strings.Contains(out, "Commands:") {
				t.Errorf("%v: expected usage on stdout, got %q", args, out)
			}
		}
		for _, args := range [][]string{{"version"}, {"-v"}, {"--version"}} {
			out := env.mustRun(args...)
			if !strings.Contains(out, "taskboard version "+Version) {
				t.Errorf("%v: got %q", args, out)
			}
		}
	})

	t.Run("bad global flag", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("-history-limit", "-3", "ls"); err == nil {
			t.Fatal("expected error for negative history limit")
		}
	})
}

func TestInitCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("init")
	if !strings.Contains(out, "Created "+env.boardPath()) {
		t.Errorf("unexpected output: %q", out)
	}
	content := env.readBoard()
	for _, want := range []string{"## Current Sprint", "### In Progress", "### High Priority (P1)", "- @architect"} {
		if !strings.Contains(content, want) {
			t.Errorf("default board missing %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(env.project, ".claude", "taskboard.toml")); err != nil {
		t.Errorf("expected example config: %v", err)
	}

	err := env.run("init")
	if !errors.Is(err, store.ErrExists) {
		t.Fatalf("expected ErrExists on second init, got %v", err)
	}

	env.mustRun("add", "architect", "ARCH-001", "P1", "Design")
	env.mustRun("init", "-force")
	if strings.Contains(env.readBoard(), "ARCH-001") {
		t.Error("expected -force to replace the board")
	}
	backup, err := os.ReadFile(env.boardPath() + ".bak")
	if err != nil {
		t.Fatalf("expected backup: %v", err)
	}
	if !strings.Contains(string(backup), "ARCH-001") {
		t.Error("expected backup to hold the replaced board")
	}
}

func TestInitCommandAgents(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("TASKBOARD_AGENTS", "Alice, bob")
	env.mustRun("init", "-no-config")

	content := env.readBoard()
	if !strings.Contains(content, "- @alice") || !strings.Contains(content, "- @bob") {
		t.Errorf("expected configured agents on board:\n%s", content)
	}
	if strings.Contains(content, "- @architect") {
		t.Error("expected default agents to be replaced")
	}
	if _, err := os.Stat(filepath.Join(env.project, ".claude", "taskboard.toml")); !os.IsNotExist(err) {
		t.Errorf("expected no config file, stat err = %v", err)
	}
}

func TestAddCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")

	out := env.mustRun("add", "architect", "ARCH-001", "P1", "Design", "authentication")
	want := "✅ Taskboard updated successfully\n📝 Added task ARCH-001 to P1 backlog\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	content := env.readBoard()
	for _, line := range []string{
		"### [ARCH-001] Design authentication",
		"- **Priority**: P1",
		"- **Assigned**: @architect",
		"- **Created**: 2025-03-14",
		"- **Status**: Backlog",
	} {
		if !strings.Contains(content, line) {
			t.Errorf("board missing %q", line)
		}
	}
	if got := env.taskSection("ARCH-001"); got != board.SectionHighPriority {
		t.Errorf("section = %q", got)
	}

	t.Run("unknown priority falls back to P3", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("add", "tester", "TEST-001", "urgent", "Write tests")
		if !strings.Contains(out, "to P3 backlog") {
			t.Errorf("unexpected output %q", out)
		}
		if got := env.taskSection("TEST-001"); got != board.SectionLowPriority {
			t.Errorf("section = %q", got)
		}
	})

	t.Run("newest task first", func(t *testing.T) {
		env := env.with(t)
		env.mustRun("add", "developer", "DEV-001", "P1", "Build it")
		content := env.readBoard()
		if strings.Index(content, "[DEV-001]") > strings.Index(content, "[ARCH-001]") {
			t.Error("expected DEV-001 above ARCH-001")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		env := env.with(t)
		before := env.readBoard()
		err := env.run("add", "architect", "ARCH-001", "P2", "Again")
		if !errors.Is(err, board.ErrDuplicateTask) {
			t.Fatalf("expected ErrDuplicateTask, got %v", err)
		}
		if env.readBoard() != before {
			t.Error("board changed on failed add")
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		env := env.with(t)
		before := env.readBoard()
		err := env.run("add", "architect", "ARCH-002")
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("expected ErrUsage, got %v", err)
		}
		if env.readBoard() != before {
			t.Error("board changed on usage error")
		}
	})

	t.Run("unknown agent warns", func(t *testing.T) {
		env := env.with(t)
		t.Setenv("TASKBOARD_AGENTS", "architect")
		env.mustRun("add", "ghost", "GHOST-1", "P2", "Haunt")
		if !strings.Contains(env.errOut.String(), "unknown agent") {
			t.Errorf("expected warning, stderr = %q", env.errOut.String())
		}
	})
}

func TestMoveCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.mustRun("add", "developer", "DEV-001", "P2", "Build API")

	tests := []struct {
		args    []string
		section string
		status  string
	}{
		{[]string{"start", "DEV-001"}, board.SectionInProgress, "In Progress"},
		{[]string{"review", "DEV-001"}, board.SectionReview, "Review"},
		{[]string{"test", "DEV-001"}, board.SectionTesting, "Testing"},
		{[]string{"complete", "DEV-001"}, board.SectionRecentCompletions, "Done"},
		{[]string{"move", "DEV-001", "High", "Priority", "(P1)"}, board.SectionHighPriority, "Backlog"},
		{[]string{"move", "DEV-001", "in progress"}, board.SectionInProgress, "In Progress"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
		env := env.with(t)
			out := env.mustRun(tt.args...)
			want := "✅ Taskboard updated successfully\n➡️  Moved task DEV-001 to " + tt.section + "\n"
			if out != want {
				t.Errorf("output = %q, want %q", out, want)
			}
			if got := env.taskSection("DEV-001"); got != tt.section {
				t.Errorf("section = %q, want %q", got, tt.section)
			}
			if !strings.Contains(env.readBoard(), "- **Status**: "+tt.status) {
				t.Errorf("expected status %q", tt.status)
			}
		})
	}

	t.Run("move to the same section is a no-op", func(t *testing.T) {
		env := env.with(t)
		before := env.readBoard()
		env.mustRun("start", "DEV-001")
		if env.readBoard() != before {
			t.Error("expected identical board")
		}
	})
}

func TestMoveErrorsLeaveBoardUntouched(t *testing.T) {
	const noReview = `# Task Board

## Current Sprint

### In Progress

### [T-1] Existing
- **Priority**: P1
- **Status**: In Progress

### High Priority (P1)
`

	tests := []struct {
		name    string
		content string
		args    []string
		wantErr error
	}{
		{"unknown task", "", []string{"review", "T-999"}, board.ErrTaskNotFound},
		{"unknown section", "", []string{"move", "T-1", "Icebox"}, board.ErrSectionNotFound},
		{"missing section", noReview, []string{"review", "T-1"}, board.ErrSectionNotFound},
		{"missing argument", "", []string{"start"}, ErrUsage},
		{"extra argument", "", []string{"start", "T-1", "T-2"}, ErrUsage},
		{"move without section", "", []string{"move", "T-1"}, ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.content == "" {
				env.mustRun("init")
				env.mustRun("add", "architect", "T-1", "P1", "Existing")
			} else {
				env.writeBoard(tt.content)
			}
			before := env.readBoard()

			err := env.run(tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if env.readBoard() != before {
				t.Error("board changed on failure")
			}
		})
	}
}

func TestMissingBoard(t *testing.T) {
	env := newTestEnv(t)
	err := env.run("start", "T-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, statErr := os.Stat(env.boardPath()); !os.IsNotExist(statErr) {
		t.Error("expected no board to be created")
	}
}

func TestViewCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.mustRun("add", "architect", "ARCH-001", "P1", "Design auth")
	env.mustRun("add", "tester", "TEST-001", "P3", "Cover auth")
	env.mustRun("start", "ARCH-001")

	t.Run("ls", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("ls")
		for _, want := range []string{"In Progress", "[ARCH-001]", "[TEST-001]", "@architect"} {
			if !strings.Contains(out, want) {
				t.Errorf("ls missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("ls section", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("ls", "Low", "Priority", "(P3)")
		if !strings.Contains(out, "[TEST-001]") || strings.Contains(out, "[ARCH-001]") {
			t.Errorf("unexpected filtered output:\n%s", out)
		}
	})

	t.Run("ls unknown section", func(t *testing.T) {
		env := env.with(t)
		if err := env.run("ls", "Icebox"); !errors.Is(err, board.ErrSectionNotFound) {
			t.Errorf("expected ErrSectionNotFound, got %v", err)
		}
	})

	t.Run("ls verbose", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("ls", "-v")
		if !strings.Contains(out, "2025-03-14") {
			t.Errorf("expected dates in verbose output:\n%s", out)
		}
	})

	t.Run("show", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("show", "ARCH-001")
		if !strings.Contains(out, "Section: In Progress") {
			t.Errorf("missing section line:\n%s", out)
		}
		if !strings.Contains(out, "### [ARCH-001] Design auth\n- **Priority**: P1") {
			t.Errorf("missing record:\n%s", out)
		}
	})

	t.Run("show unknown", func(t *testing.T) {
		env := env.with(t)
		if err := env.run("show", "NOPE"); !errors.Is(err, board.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("validate", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("validate")
		if !strings.Contains(out, "✅ Valid (2 tasks)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("validate json", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("validate", "-json")
		var report struct {
			Valid  bool     `json:"valid"`
			Schema string   `json:"schema"`
			Errors []string `json:"errors"`
		}
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if !report.Valid || len(report.Errors) != 0 {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("export", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("export")
		var exp board.Export
		if err := json.Unmarshal([]byte(out), &exp); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		var found bool
		for _, s := range exp.Sections {
			if s.Title != board.SectionInProgress {
				continue
			}
			for _, task := range s.Tasks {
				if task.ID == "ARCH-001" && task.Status == board.StatusInProgress {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("ARCH-001 not exported under In Progress:\n%s", out)
		}
	})
}

func TestValidateCommandFails(t *testing.T) {
	env := newTestEnv(t)
	env.writeBoard(`# Task Board

### High Priority (P1)

### [T-1] One
- **Priority**: P1

### [T-1] Two
- **Priority**: P1
`)
	err := env.run("validate")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(env.out.String(), "❌") {
		t.Errorf("expected errors in output:\n%s", env.out.String())
	}
}

func TestHistoryAndRestore(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("TASKBOARD_HISTORY_DIR", filepath.Join(env.project, ".claude", "tasks", "history"))

	out := env.mustRun("history")
	if !strings.Contains(out, "No backup or history snapshots.") {
		t.Errorf("unexpected output: %q", out)
	}

	env.mustRun("init")
	initial := env.readBoard()
	env.mustRun("add", "architect", "ARCH-001", "P1", "Design")
	added := env.readBoard()

	out = env.mustRun("history")
	if !strings.HasPrefix(out, store.BackupName) {
		t.Errorf("expected backup listed first:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("expected backup and one snapshot, got %d lines:\n%s", got, out)
	}

	out = env.mustRun("restore")
	if !strings.Contains(out, "Restored") {
		t.Errorf("unexpected output: %q", out)
	}
	if env.readBoard() != initial {
		t.Error("expected board restored to the initial document")
	}

	// Restoring the backup again swaps back.
	env.mustRun("restore", "backup")
	if env.readBoard() != added {
		t.Error("expected second restore to swap back")
	}

	if err := env.run("restore", "19990101"); !errors.Is(err, store.ErrNoBackup) {
		t.Errorf("expected ErrNoBackup, got %v", err)
	}
	if err := env.run("restore", "a", "b"); !errors.Is(err, ErrUsage) {
		t.Errorf("expected ErrUsage, got %v", err)
	}
}

func TestJournal(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init")
	env.mustRun("add", "architect", "ARCH-001", "P1", "Design")
	env.mustRun("start", "ARCH-001")
	env.mustRun("start", "ARCH-001")
	_ = env.run("start", "NOPE")

	path, err := logging.JournalPath(filepath.Join(env.home, "logs"), env.project)
	if err != nil {
		t.Fatal(err)
	}
	events, err := logging.ReadEvents(path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}

	want := []struct {
		action  string
		changed bool
		failed  bool
	}{
		{"init", true, false},
		{"add", true, false},
		{"start", true, false},
		{"start", false, false}, // already on top of In Progress
		{"start", false, true},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		e := events[i]
		if e.Action != w.action || e.Changed != w.changed || (e.Error != "") != w.failed {
			t.Errorf("event %d = %+v, want %+v", i, e, w)
		}
		if e.ID == "" || e.Board != env.boardPath() {
			t.Errorf("event %d missing id or board: %+v", i, e)
		}
	}
	if events[2].Section != board.SectionInProgress || events[2].Agent != "architect" {
		t.Errorf("unexpected start event: %+v", events[2])
	}

	t.Run("tail", func(t *testing.T) {
		env := env.with(t)
		out := env.mustRun("tail", "-n", "1")
		if strings.Count(out, "\n") != 1 || !strings.Contains(out, `"task_id":"NOPE"`) {
			t.Errorf("unexpected tail output:\n%s", out)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		env := env.with(t)
		env.mustRun("-no-journal", "add", "tester", "TEST-001", "P2", "Cover")
		events, err := logging.ReadEvents(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != len(want) {
			t.Errorf("expected no new events, got %d", len(events))
		}
	})
}

func TestTailWithoutJournal(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("tail")
	if !strings.Contains(out, "No journal found.") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("healthy board", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustRun("init")
		out := env.mustRun("doctor", "-v")
		for _, want := range []string{"Taskboard Doctor", "✅ Valid", "All checks passed", "board_file"} {
			if !strings.Contains(out, want) {
				t.Errorf("doctor output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("missing board", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run("doctor")
		if !errors.Is(err, ErrDoctor) {
			t.Fatalf("expected ErrDoctor, got %v", err)
		}
		if !strings.Contains(env.out.String(), "Some checks failed") {
			t.Errorf("unexpected output:\n%s", env.out.String())
		}
	})
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+), restoring the previous directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
