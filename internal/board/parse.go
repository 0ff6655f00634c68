package board

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	taskHeaderRe  = regexp.MustCompile(`^(#{3,6})\s+\[([^\]]+)\]\s*(.*?)\s*$`)
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	fieldRe       = regexp.MustCompile(`^\s*[-*]\s+\*\*([^*]+)\*\*:\s*(.*?)\s*$`)
	placeholderRe = regexp.MustCompile(`^_No\s.*_$`)
)

// ParseError reports a malformed line in a board document.
type ParseError struct {
	Line int // 1-based
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse builds a Board from document text.
func Parse(data []byte) (*Board, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	b := &Board{}
	var (
		section *Section
		task    *Task // record whose field lines are being read
		last    *Task // last task of the current section
		// items is set once the current section has shown a task or placeholder.
		items bool
		// pending holds free text seen after the last task or placeholder.
		// It belongs to the preceding task if another task follows, and to
		// the section otherwise.
		pending []string
	)
	closeSection := func() {
		if section != nil {
			section.Trail = append(section.Trail, pending...)
		}
		pending = nil
	}

	for i, line := range lines {
		lineNo := i + 1

		if m := taskHeaderRe.FindStringSubmatch(line); m != nil {
			if section == nil {
				return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("task [%s] outside of a section", m[2])}
			}
			if last != nil {
				last.Trail = append(last.Trail, pending...)
			} else {
				section.Lead = append(section.Lead, pending...)
			}
			pending = nil

			task = &Task{
				Level: len(m[1]),
				ID:    strings.TrimSpace(m[2]),
				Title: m[3],
			}
			section.Tasks = append(section.Tasks, task)
			last = task
			items = true
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			closeSection()
			task, last = nil, nil
			items = false
			section = &Section{Level: len(m[1]), Title: m[2]}
			b.Sections = append(b.Sections, section)
			continue
		}

		trimmed := strings.TrimSpace(line)

		if task != nil {
			if trimmed == "" {
				task = nil
				continue
			}
			if err := task.applyLine(line); err != nil {
				return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("task [%s]: %w", task.ID, err)}
			}
			continue
		}

		if section == nil {
			b.Preamble = append(b.Preamble, line)
			continue
		}

		if section.isPlaceholder(trimmed) {
			if section.Placeholder == "" {
				section.Placeholder = trimmed
			}
			items = true
			continue
		}

		if items {
			pending = append(pending, line)
		} else {
			section.Lead = append(section.Lead, line)
		}
	}
	closeSection()

	b.Preamble = trimBlank(b.Preamble)
	for _, s := range b.Sections {
		s.Lead = trimBlank(s.Lead)
		s.Trail = trimBlank(s.Trail)
		for _, t := range s.Tasks {
			t.Trail = trimBlank(t.Trail)
		}
	}
	return b, nil
}

// isPlaceholder reports whether line stands for "no tasks" in s. Sections
// with fixed semantics only accept their own placeholder text. Other
// sections accept one "_No ..._" line while they have no tasks.
func (s *Section) isPlaceholder(line string) bool {
	if spec, ok := s.Spec(); ok {
		return line == spec.Placeholder
	}
	return len(s.Tasks) == 0 && s.Placeholder == "" && placeholderRe.MatchString(line)
}

// applyLine interprets one line inside a task record.
func (t *Task) applyLine(line string) error {
	m := fieldRe.FindStringSubmatch(line)
	if m == nil {
		t.Body = append(t.Body, line)
		return nil
	}

	key, value := strings.TrimSpace(m[1]), m[2]
	switch strings.ToLower(key) {
	case "priority":
		t.Priority = Priority(value)
	case "assigned", "assignee":
		t.Assignee = strings.TrimPrefix(value, "@")
	case "status":
		t.Status = Status(value)
	case "created":
		d, err := parseDate(value)
		if err != nil {
			return fmt.Errorf("created: %w", err)
		}
		t.Created = d
	case "updated":
		d, err := parseDate(value)
		if err != nil {
			return fmt.Errorf("updated: %w", err)
		}
		t.Updated = d
	default:
		t.Extra = append(t.Extra, Field{Key: key, Value: value})
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return nil
	}
	return lines[start:end]
}
