package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/taskboard/internal/board"
	"github.com/nibzard/taskboard/internal/logging"
)

// stageSections maps the shorthand commands to their destination sections.
var stageSections = map[string]string{
	"start":    board.SectionInProgress,
	"review":   board.SectionReview,
	"test":     board.SectionTesting,
	"complete": board.SectionRecentCompletions,
}

// addCommand adds a task to the backlog tier for its priority.
func (a *app) addCommand(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: add requires <agent> <task-id> <priority> <description>", ErrUsage)
	}
	agent, id, priority := args[0], args[1], board.ParsePriority(args[2])
	description := strings.Join(args[3:], " ")

	if !a.cfg.KnownAgent(agent) {
		a.logger.Warn("unknown agent", "agent", agent, "known", strings.Join(a.cfg.Agents, ","))
	}

	var (
		added *board.Task
		total int
	)
	changed, err := a.store.Update(func(b *board.Board) error {
		t, err := b.AddTask(agent, id, description, priority, now())
		added = t
		total = len(b.Tasks())
		return err
	})
	event := logging.Event{Action: "add", TaskID: id, Agent: agent, Section: board.TierSection(priority).Title}
	if err != nil {
		a.record(event, err)
		return fmt.Errorf("add: %w", err)
	}
	event.Status = string(added.Status)
	event.Changed = changed
	a.record(event, nil)
	a.logger.Debug("task added", "id", id, "tasks", total)

	fmt.Fprintln(stdout, "✅ Taskboard updated successfully")
	fmt.Fprintf(stdout, "📝 Added task %s to %s backlog\n", added.ID, added.Priority)
	return nil
}

// stageCommand implements start, review, test and complete.
func (a *app) stageCommand(command string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: %s requires <task-id>", ErrUsage, command)
	}
	return a.move(command, args[0], stageSections[command])
}

// moveCommand moves a task to any section by name.
func (a *app) moveCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: move requires <task-id> <section>", ErrUsage)
	}
	return a.move("move", args[0], strings.Join(args[1:], " "))
}

func (a *app) move(action, id, destination string) error {
	var (
		moved   *board.Task
		section string
	)
	changed, err := a.store.Update(func(b *board.Board) error {
		t, err := b.MoveTask(id, destination, now())
		if err != nil {
			return err
		}
		moved = t
		if _, s := b.FindTask(id); s != nil {
			section = s.Title
		}
		return nil
	})
	event := logging.Event{Action: action, TaskID: id, Section: destination}
	if err != nil {
		a.record(event, err)
		return fmt.Errorf("%s: %w", action, err)
	}
	event.Section = section
	event.Status = string(moved.Status)
	event.Agent = moved.Assignee
	event.Changed = changed
	a.record(event, nil)

	fmt.Fprintln(stdout, "✅ Taskboard updated successfully")
	fmt.Fprintf(stdout, "➡️  Moved task %s to %s\n", moved.ID, section)
	return nil
}
