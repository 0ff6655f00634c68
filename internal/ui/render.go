package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard/internal/board"
)

// ListOptions controls WriteBoard output.
type ListOptions struct {
	// Section restricts the listing to one section (matched like MoveTask
	// destinations). Empty lists the whole board.
	Section string
	// Verbose adds dates, extra fields and body lines.
	Verbose bool
}

// WriteBoard prints the sections and tasks of b to w, styled for w.
func WriteBoard(w io.Writer, b *board.Board, opts ListOptions) error {
	text, err := renderBoard(newStyles(lipgloss.NewRenderer(w)), b, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func renderBoard(st styles, b *board.Board, opts ListOptions) (string, error) {
	sections := b.Sections
	if opts.Section != "" {
		s := b.FindSection(opts.Section)
		if s == nil {
			return "", fmt.Errorf("%w: %q", board.ErrSectionNotFound, opts.Section)
		}
		sections = []*board.Section{s}
	}

	var out strings.Builder
	for _, s := range sections {
		writeSection(&out, st, s, opts.Verbose)
	}
	return out.String(), nil
}

func writeSection(b *strings.Builder, st styles, s *board.Section, verbose bool) {
	_, known := s.Spec()
	if !known && s.IsEmpty() {
		// Grouping headings such as "Current Sprint".
		if s.Level <= 2 {
			b.WriteString(st.group.Render(s.Title) + "\n")
		}
		return
	}

	b.WriteString(fmt.Sprintf("  %s %s\n", st.section.Render(s.Title), st.count.Render(fmt.Sprintf("(%d)", len(s.Tasks)))))
	if s.IsEmpty() {
		if p := s.PlaceholderText(); p != "" {
			b.WriteString("    " + st.dim.Render(p) + "\n")
		}
		return
	}
	for _, t := range s.Tasks {
		b.WriteString("    " + formatTask(st, t) + "\n")
		if verbose {
			writeTaskDetails(b, st, t)
		}
	}
}

func formatTask(st styles, t *board.Task) string {
	parts := []string{st.taskID.Render("[" + t.ID + "]")}
	if t.Priority != "" {
		parts = append(parts, st.priorityStyle(string(t.Priority)).Render(string(t.Priority)))
	}
	if t.Title != "" {
		parts = append(parts, t.Title)
	}
	if t.Assignee != "" {
		parts = append(parts, st.agent.Render("@"+t.Assignee))
	}
	return strings.Join(parts, " ")
}

func writeTaskDetails(b *strings.Builder, st styles, t *board.Task) {
	var details []string
	if t.Status != "" {
		details = append(details, "status: "+string(t.Status))
	}
	if d := board.FormatDate(t.Created); d != "" {
		details = append(details, "created: "+d)
	}
	if d := board.FormatDate(t.Updated); d != "" {
		details = append(details, "updated: "+d)
	}
	for _, f := range t.Extra {
		details = append(details, strings.ToLower(f.Key)+": "+f.Value)
	}
	if len(details) > 0 {
		b.WriteString("      " + st.dim.Render(strings.Join(details, "  ")) + "\n")
	}
	for _, line := range t.Body {
		b.WriteString("      " + st.dim.Render(strings.TrimSpace(line)) + "\n")
	}
}
