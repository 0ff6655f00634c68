package board

import (
	"strings"
	"time"
)

// Board is a parsed task board document.
type Board struct {
	// Preamble holds the lines before the first heading.
	Preamble []string
	Sections []*Section
}

// Section is a region of the board introduced by a heading line.
type Section struct {
	Level int
	Title string
	// Lead holds free text between the heading and the first task.
	Lead  []string
	Tasks []*Task
	// Placeholder is the "no tasks" line read from the document, if any.
	Placeholder string
	// Trail holds free text after the tasks.
	Trail []string
}

// Field is a "- **Key**: value" line the board does not interpret.
type Field struct {
	Key   string
	Value string
}

// Task is a single task record.
type Task struct {
	ID       string
	Title    string
	Priority Priority
	Assignee string
	Status   Status
	Created  time.Time
	Updated  time.Time
	Extra    []Field
	Body     []string
	// Trail holds free text between the record and the next task of its
	// section. It moves with the task.
	Trail []string

	// Level is the heading depth of the record, 3 unless read otherwise.
	Level int
}

// Spec returns the fixed semantics of the section, if its title has any.
func (s *Section) Spec() (SectionSpec, bool) {
	return LookupSection(s.Title)
}

// PlaceholderText returns the placeholder shown while the section is empty.
// A placeholder read from a section without fixed semantics is kept.
func (s *Section) PlaceholderText() string {
	if s.Placeholder != "" {
		return s.Placeholder
	}
	if spec, ok := s.Spec(); ok {
		return spec.Placeholder
	}
	return ""
}

// IsEmpty reports whether the section holds no tasks.
func (s *Section) IsEmpty() bool {
	return len(s.Tasks) == 0
}

func (s *Section) indexOf(id string) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// prepend inserts t as the first task of the section.
func (s *Section) prepend(t *Task) {
	s.Tasks = append([]*Task{t}, s.Tasks...)
}

func (s *Section) remove(i int) *Task {
	t := s.Tasks[i]
	s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
	return t
}

// FindSection returns the first section whose title matches name,
// case-insensitively, or nil.
func (b *Board) FindSection(name string) *Section {
	for _, s := range b.Sections {
		if sameTitle(s.Title, name) {
			return s
		}
	}
	return nil
}

// FindTask returns the task with the given id and the section holding it.
// Both are nil if no task matches.
func (b *Board) FindTask(id string) (*Task, *Section) {
	id = strings.TrimSpace(id)
	for _, s := range b.Sections {
		if i := s.indexOf(id); i >= 0 {
			return s.Tasks[i], s
		}
	}
	return nil, nil
}

// Tasks returns every task in document order.
func (b *Board) Tasks() []*Task {
	var tasks []*Task
	for _, s := range b.Sections {
		tasks = append(tasks, s.Tasks...)
	}
	return tasks
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{Preamble: cloneLines(b.Preamble)}
	for _, s := range b.Sections {
		cs := &Section{
			Level:       s.Level,
			Title:       s.Title,
			Lead:        cloneLines(s.Lead),
			Placeholder: s.Placeholder,
			Trail:       cloneLines(s.Trail),
		}
		for _, t := range s.Tasks {
			cs.Tasks = append(cs.Tasks, t.Clone())
		}
		out.Sections = append(out.Sections, cs)
	}
	return out
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Extra = append([]Field(nil), t.Extra...)
	c.Body = cloneLines(t.Body)
	c.Trail = cloneLines(t.Trail)
	return &c
}

func cloneLines(lines []string) []string {
	if lines == nil {
		return nil
	}
	return append([]string(nil), lines...)
}
