package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/taskboard/internal/board"
	"github.com/nibzard/taskboard/internal/boarddir"
	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/store"
)

// initCommand writes the default board and, when missing, an example
// project config.
func (a *app) initCommand(args []string) error {
	fs := flag.NewFlagSet("taskboard init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Replace an existing board (the old one is backed up)")
	skipConfig := fs.Bool("no-config", false, "Do not write an example taskboard.toml")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	var agents []string
	if len(a.cfg.Agents) > 0 {
		agents = a.cfg.Agents
	}
	err := a.store.Init(board.NewDefault(agents), *force)
	a.record(logging.Event{Action: "init", Changed: err == nil}, err)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			return fmt.Errorf("%w (use -force to replace it)", err)
		}
		return err
	}
	fmt.Fprintf(stdout, "✅ Created %s\n", a.store.Path)

	if *skipConfig {
		return nil
	}
	path := boarddir.ConfigPath(a.cfg.ProjectRoot)
	created, err := writeIfMissing(path, []byte(config.ExampleConfig()))
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if created {
		fmt.Fprintf(stdout, "✅ Created %s\n", path)
	}
	return nil
}

func writeIfMissing(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := store.WriteFileAtomic(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// historyCommand lists the backup slot and history snapshots.
func (a *app) historyCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, args)
	}
	entries, err := a.store.History()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No backup or history snapshots.")
		if !a.cfg.HistoryEnabled() {
			fmt.Fprintln(stdout, "Set history_dir to keep a snapshot of every change.")
		}
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "%-40s  %s  %6d bytes\n", e.Name, e.Time.Local().Format("2006-01-02 15:04:05"), e.Size)
	}
	return nil
}

// restoreCommand replaces the board with the backup or a named snapshot.
func (a *app) restoreCommand(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: restore [snapshot]", ErrUsage)
	}
	source := store.BackupName
	if len(args) == 1 {
		source = args[0]
	}

	entry, err := a.store.Restore(source)
	ev := logging.Event{Action: "restore", Changed: err == nil}
	if entry != nil {
		ev.Source = entry.Name
	}
	a.record(ev, err)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	fmt.Fprintf(stdout, "✅ Restored %s from %s\n", a.store.Path, entry.Name)
	return nil
}
