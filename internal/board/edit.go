package board

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrSectionNotFound is returned when the target section heading is absent.
	ErrSectionNotFound = errors.New("section not found")
	// ErrDuplicateTask is returned when adding an id that already exists.
	ErrDuplicateTask = errors.New("task already exists")
	// ErrInvalidTask is returned for task input that cannot be rendered.
	ErrInvalidTask = errors.New("invalid task")
)

// AddTask creates a backlog task in the section for its priority tier.
// The task replaces the tier placeholder or becomes the first task of the
// tier. The board is not modified when an error is returned.
func (b *Board) AddTask(agent, id, description string, priority Priority, now time.Time) (*Task, error) {
	agent = strings.TrimPrefix(strings.TrimSpace(agent), "@")
	id = strings.TrimSpace(id)
	if err := validateNewTask(agent, id, description); err != nil {
		return nil, err
	}
	if !priority.Valid() {
		priority = ParsePriority(string(priority))
	}

	if existing, s := b.FindTask(id); existing != nil {
		return nil, fmt.Errorf("%w: [%s] in %q", ErrDuplicateTask, id, s.Title)
	}

	tier := TierSection(priority)
	section := b.FindSection(tier.Title)
	if section == nil {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, tier.Title)
	}

	date := today(now)
	task := &Task{
		Level:    3,
		ID:       id,
		Title:    strings.TrimSpace(description),
		Priority: priority,
		Assignee: agent,
		Status:   StatusBacklog,
		Created:  date,
		Updated:  date,
	}
	section.prepend(task)
	return task, nil
}

// MoveTask relocates a task to the top of the named section, refreshing its
// Updated date. When the destination has a canonical status the task's
// status is rewritten; backlog tiers also rewrite the priority. The board is
// not modified when an error is returned.
func (b *Board) MoveTask(id, destination string, now time.Time) (*Task, error) {
	id = strings.TrimSpace(id)
	task, from := b.FindTask(id)
	if task == nil {
		return nil, fmt.Errorf("%w: [%s]", ErrTaskNotFound, id)
	}

	to := b.FindSection(destination)
	if to == nil {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, strings.TrimSpace(destination))
	}

	from.remove(from.indexOf(id))

	task.Updated = today(now)
	if spec, ok := to.Spec(); ok {
		task.Status = spec.Status
		if spec.Priority != "" {
			task.Priority = spec.Priority
		}
	}
	to.prepend(task)
	return task, nil
}

func validateNewTask(agent, id, description string) error {
	if agent == "" {
		return fmt.Errorf("%w: agent is required", ErrInvalidTask)
	}
	if strings.ContainsAny(agent, "\r\n") {
		return fmt.Errorf("%w: agent %q must be a single line", ErrInvalidTask, agent)
	}
	if id == "" {
		return fmt.Errorf("%w: task id is required", ErrInvalidTask)
	}
	if strings.ContainsAny(id, "[]\r\n") {
		return fmt.Errorf("%w: task id %q must not contain brackets or newlines", ErrInvalidTask, id)
	}
	if strings.ContainsAny(description, "\r\n") {
		return fmt.Errorf("%w: description must be a single line", ErrInvalidTask)
	}
	return nil
}
