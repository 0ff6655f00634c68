package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/ui"
)

// ErrDoctor is returned when doctor finds a problem.
var ErrDoctor = errors.New("doctor found problems")

// doctorCommand checks config, the board file and its backups.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("taskboard doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Show where each setting came from")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	cfg := a.cfg
	fmt.Fprintln(stdout, "Taskboard Doctor")
	fmt.Fprintln(stdout, "================")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintf(stdout, "Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Config:")
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(stdout, "  ✅ No config file (using defaults)")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(stdout, "  ✅ Loaded %s\n", f)
	}
	if *verbose {
		keys := make([]string, 0, len(a.sources.Sources))
		for k := range a.sources.Sources {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(stdout, "     %-14s %s\n", k, a.sources.Sources[k])
		}
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Board: %s\n", cfg.BoardFile)
	snap, err := a.store.Load()
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		result := snap.Board.Validate(a.validationOptions())
		if result.Valid {
			fmt.Fprintf(stdout, "  ✅ Valid (%d tasks, schema: %s)\n", len(snap.Board.Tasks()), result.UsedSchema)
		} else {
			fmt.Fprintf(stdout, "  ❌ %d validation error(s) (run 'taskboard validate')\n", len(result.Errors))
			allOK = false
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
		}
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Backup: %s\n", cfg.BackupFile)
	if _, err := os.Stat(cfg.BackupFile); err == nil {
		fmt.Fprintln(stdout, "  ✅ Present")
	} else if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stdout, "  ⚠️  Not written yet")
	} else {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	}

	if cfg.HistoryEnabled() {
		fmt.Fprintf(stdout, "History: %s (limit %d)\n", cfg.HistoryDir, cfg.HistoryLimit)
		if entries, err := a.store.History(); err != nil {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(stdout, "  ✅ %d restorable cop(ies)\n", len(entries))
		}
	} else {
		fmt.Fprintln(stdout, "History: disabled")
	}
	fmt.Fprintln(stdout)

	if cfg.Journal {
		path, err := logging.JournalPath(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			fmt.Fprintf(stdout, "Journal:\n  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(stdout, "Journal: %s\n", path)
			fmt.Fprintln(stdout, "  ✅ Enabled")
		}
	} else {
		fmt.Fprintln(stdout, "Journal: disabled")
	}
	fmt.Fprintln(stdout)

	if !allOK {
		fmt.Fprintln(stdout, "❌ Some checks failed")
		return ErrDoctor
	}
	fmt.Fprintln(stdout, "✅ All checks passed")
	return nil
}

// tailCommand prints the operation journal.
func (a *app) tailCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskboard tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	path, err := logging.JournalPath(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding journal: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(stdout, "No journal found.")
		return nil
	}

	if *follow {
		fmt.Fprintf(stderr, "Tailing: %s (Ctrl+C to stop)\n", path)
	}
	return logging.TailLog(ctx, stdout, path, *n, *follow)
}

// tuiCommand opens the interactive board viewer.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, args)
	}
	return ui.RunTUI(ctx, a.cfg.BoardFile)
}
