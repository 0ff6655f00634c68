package board

import (
	"strings"
	"time"
)

// DateLayout is the layout of the Created and Updated fields.
const DateLayout = "2006-01-02"

// Priority is a backlog tier.
type Priority string

const (
	PriorityHigh   Priority = "P1"
	PriorityMedium Priority = "P2"
	PriorityLow    Priority = "P3"
)

// ParsePriority maps user input to a tier. Unrecognized values map to the
// lowest tier.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p1", "1", "high":
		return PriorityHigh
	case "p2", "2", "medium", "med":
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Valid reports whether p is one of the known tiers.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is the workflow stage recorded on a task.
type Status string

const (
	StatusBacklog    Status = "Backlog"
	StatusInProgress Status = "In Progress"
	StatusReview     Status = "Review"
	StatusTesting    Status = "Testing"
	StatusDone       Status = "Done"
)

// Well-known section titles.
const (
	SectionHighPriority      = "High Priority (P1)"
	SectionMediumPriority    = "Medium Priority (P2)"
	SectionLowPriority       = "Low Priority (P3)"
	SectionInProgress        = "In Progress"
	SectionReview            = "Review"
	SectionTesting           = "Testing"
	SectionRecentCompletions = "Recent Completions"
)

// SectionSpec describes a section title with fixed semantics.
type SectionSpec struct {
	Title       string
	Status      Status
	Placeholder string
	// Priority is set for backlog tiers only.
	Priority Priority
}

var knownSections = []SectionSpec{
	{Title: SectionHighPriority, Status: StatusBacklog, Placeholder: "_No high priority tasks_", Priority: PriorityHigh},
	{Title: SectionMediumPriority, Status: StatusBacklog, Placeholder: "_No medium priority tasks_", Priority: PriorityMedium},
	{Title: SectionLowPriority, Status: StatusBacklog, Placeholder: "_No low priority tasks_", Priority: PriorityLow},
	{Title: SectionInProgress, Status: StatusInProgress, Placeholder: "_No tasks currently in progress_"},
	{Title: SectionReview, Status: StatusReview, Placeholder: "_No tasks currently in review_"},
	{Title: SectionTesting, Status: StatusTesting, Placeholder: "_No tasks currently in testing_"},
	{Title: SectionRecentCompletions, Status: StatusDone, Placeholder: "_No recently completed tasks_"},
}

// LookupSection returns the fixed semantics of a section title, matched
// case-insensitively.
func LookupSection(title string) (SectionSpec, bool) {
	for _, spec := range knownSections {
		if sameTitle(spec.Title, title) {
			return spec, true
		}
	}
	return SectionSpec{}, false
}

// TierSection returns the backlog section for a priority.
func TierSection(p Priority) SectionSpec {
	for _, spec := range knownSections {
		if spec.Priority != "" && spec.Priority == p {
			return spec
		}
	}
	return knownSections[2]
}

func sameTitle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// FormatDate formats t with DateLayout. The zero time formats as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// today returns the calendar date of t as midnight UTC, matching parsed dates.
func today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
