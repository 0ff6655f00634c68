package board

import (
	"strings"
)

// Render serializes the board. Blocks are separated by one blank line and
// the document ends with a single newline.
func (b *Board) Render() []byte {
	var lines []string
	block := func(l ...string) {
		if len(l) == 0 {
			return
		}
		lines = append(lines, l...)
		lines = append(lines, "")
	}

	block(b.Preamble...)
	for _, s := range b.Sections {
		block(headingLine(s.Level, s.Title))
		block(s.Lead...)
		if len(s.Tasks) == 0 {
			if ph := s.PlaceholderText(); ph != "" {
				block(ph)
			}
		}
		for _, t := range s.Tasks {
			block(t.Lines()...)
			block(t.Trail...)
		}
		block(s.Trail...)
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// String returns the rendered board.
func (b *Board) String() string {
	return string(b.Render())
}

// Lines renders the task record. Unset fields are omitted.
func (t *Task) Lines() []string {
	level := t.Level
	if level < 3 {
		level = 3
	}
	header := headingLine(level, "["+t.ID+"]")
	if t.Title != "" {
		header += " " + t.Title
	}

	lines := []string{header}
	field := func(key, value string) {
		if value != "" {
			lines = append(lines, "- **"+key+"**: "+value)
		}
	}
	field("Priority", string(t.Priority))
	if t.Assignee != "" {
		field("Assigned", "@"+t.Assignee)
	}
	field("Created", FormatDate(t.Created))
	field("Updated", FormatDate(t.Updated))
	field("Status", string(t.Status))
	for _, f := range t.Extra {
		lines = append(lines, "- **"+f.Key+"**: "+f.Value)
	}
	return append(lines, t.Body...)
}

func headingLine(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}
