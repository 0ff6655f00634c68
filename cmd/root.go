// Package cmd implements the CLI command structure for taskboard.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrUsage is returned when a command is called with missing or extra arguments.
var ErrUsage = errors.New("usage")

// Output streams and clock, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	now              = time.Now
)

// app carries what every command needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
	store   *store.Store
	journal *logging.Journal
}

// Run executes the taskboard CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("%w: taskboard <command> [args]", ErrUsage)
	}
	command, remaining := remaining[0], remaining[1:]

	a := newApp(cws)
	defer a.close()

	switch command {
	case "add":
		return a.addCommand(remaining)
	case "start", "review", "test", "complete":
		return a.stageCommand(command, remaining)
	case "move":
		return a.moveCommand(remaining)
	case "ls", "list":
		return a.lsCommand(remaining)
	case "show":
		return a.showCommand(remaining)
	case "validate":
		return a.validateCommand(remaining)
	case "export":
		return a.exportCommand(remaining)
	case "init":
		return a.initCommand(remaining)
	case "history":
		return a.historyCommand(remaining)
	case "restore":
		return a.restoreCommand(remaining)
	case "doctor":
		return a.doctorCommand(remaining)
	case "tail":
		return a.tailCommand(ctx, remaining)
	case "tui":
		return a.tuiCommand(ctx, remaining)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		return fmt.Errorf("unknown command: %s (run 'taskboard help')", command)
	}
}

func newApp(cws *config.ConfigWithSources) *app {
	cfg := cws.Config
	logger := logging.NewConsoleLoggerFromConfig(stderr, cfg.LogLevel, cfg.LogFormat)

	s := store.New(cfg.BoardFile)
	s.BackupPath = cfg.BackupFile
	s.HistoryDir = cfg.HistoryDir
	s.HistoryLimit = cfg.HistoryLimit
	s.Logger = logger
	s.Now = now

	return &app{
		cfg:     cfg,
		sources: cws,
		logger:  logger,
		store:   s,
	}
}

func (a *app) close() {
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("closing journal", "err", err)
	}
}

// record appends a mutation to the journal. Journal failures are logged,
// never returned: the board change has already happened or failed on its own.
func (a *app) record(e logging.Event, err error) {
	if !a.cfg.Journal {
		return
	}
	if a.journal == nil {
		j, openErr := logging.OpenJournal(a.cfg.LogDir, a.cfg.ProjectRoot)
		if openErr != nil {
			a.logger.Warn("journal disabled", "err", openErr)
			a.cfg.Journal = false
			return
		}
		a.journal = j
	}
	e.Board = a.store.Path
	if err != nil {
		e.Error = err.Error()
	}
	if recErr := a.journal.Record(e); recErr != nil {
		a.logger.Warn("writing journal", "err", recErr)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "taskboard version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskboard - coordinate agent work on a markdown task board")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskboard [options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <agent> <task-id> <priority> <description>")
	fmt.Fprintln(w, "                      Add a task to the P1/P2/P3 backlog")
	fmt.Fprintln(w, "  start <task-id>     Move a task to In Progress")
	fmt.Fprintln(w, "  review <task-id>    Move a task to Review")
	fmt.Fprintln(w, "  test <task-id>      Move a task to Testing")
	fmt.Fprintln(w, "  complete <task-id>  Move a task to Recent Completions")
	fmt.Fprintln(w, "  move <task-id> <section>")
	fmt.Fprintln(w, "                      Move a task to any section")
	fmt.Fprintln(w, "  ls [section]        List tasks by section")
	fmt.Fprintln(w, "  show <task-id>      Print one task record")
	fmt.Fprintln(w, "  validate            Check board invariants and schema")
	fmt.Fprintln(w, "  export              Print the board as JSON")
	fmt.Fprintln(w, "  init [-force]       Create the default board and config")
	fmt.Fprintln(w, "  history             List the backup and history snapshots")
	fmt.Fprintln(w, "  restore [snapshot]  Restore the backup or a history snapshot")
	fmt.Fprintln(w, "  doctor              Check config and board file")
	fmt.Fprintln(w, "  tail [-n N] [-f]    Show the operation journal")
	fmt.Fprintln(w, "  tui                 Interactive board viewer")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  taskboard add architect ARCH-001 P1 'Design authentication'")
	fmt.Fprintln(w, "  taskboard start ARCH-001")
	fmt.Fprintln(w, "  taskboard complete ARCH-001")
}
