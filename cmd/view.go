package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/taskboard/internal/board"
	"github.com/nibzard/taskboard/internal/ui"
)

// ErrValidation is returned by validate when the board has errors.
var ErrValidation = errors.New("board validation failed")

// lsCommand lists tasks grouped by section.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("taskboard ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Show dates, fields and notes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := a.store.Load()
	if err != nil {
		return err
	}
	return ui.WriteBoard(stdout, snap.Board, ui.ListOptions{
		Section: strings.Join(fs.Args(), " "),
		Verbose: *verbose,
	})
}

// showCommand prints the record of one task as it appears on the board.
func (a *app) showCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show requires <task-id>", ErrUsage)
	}
	snap, err := a.store.Load()
	if err != nil {
		return err
	}
	t, s := snap.Board.FindTask(args[0])
	if t == nil {
		return fmt.Errorf("show: %w: [%s]", board.ErrTaskNotFound, args[0])
	}
	fmt.Fprintf(stdout, "Section: %s\n\n", s.Title)
	for _, line := range t.Lines() {
		fmt.Fprintln(stdout, line)
	}
	return nil
}

// validateCommand checks board invariants and the JSON schema.
func (a *app) validateCommand(args []string) error {
	fs := flag.NewFlagSet("taskboard validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print the result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	snap, err := a.store.Load()
	if err != nil {
		return err
	}
	result := snap.Board.Validate(a.validationOptions())

	if *asJSON {
		if err := writeJSON(validationReport(result)); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(stdout, "Board: %s\n", a.store.Path)
		fmt.Fprintf(stdout, "Schema: %s\n", result.UsedSchema)
		for _, w := range result.Warnings {
			fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "  ❌ %v\n", e)
		}
		if result.Valid {
			fmt.Fprintf(stdout, "✅ Valid (%d tasks)\n", len(snap.Board.Tasks()))
		}
	}
	if !result.Valid {
		return fmt.Errorf("%w: %d error(s)", ErrValidation, len(result.Errors))
	}
	return nil
}

func (a *app) validationOptions() board.ValidationOptions {
	return board.ValidationOptions{
		SchemaPath:       a.cfg.SchemaFile,
		RequiredSections: board.RequiredSections,
		Agents:           a.cfg.Agents,
	}
}

type validationJSON struct {
	Valid    bool     `json:"valid"`
	Schema   string   `json:"schema"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func validationReport(r *board.ValidationResult) validationJSON {
	report := validationJSON{
		Valid:    r.Valid,
		Schema:   r.UsedSchema,
		Errors:   []string{},
		Warnings: []string{},
	}
	for _, e := range r.Errors {
		report.Errors = append(report.Errors, e.Error())
	}
	report.Warnings = append(report.Warnings, r.Warnings...)
	return report
}

// exportCommand prints the structured board as JSON.
func (a *app) exportCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, args)
	}
	snap, err := a.store.Load()
	if err != nil {
		return err
	}
	return writeJSON(snap.Board)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
