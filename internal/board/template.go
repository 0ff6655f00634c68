package board

// DefaultAgents are the agent roles listed on a new board.
var DefaultAgents = []string{
	"architect", "developer", "tester", "reviewer", "documentation",
	"mlops", "devops", "project", "product", "portfolio",
	"research", "ux", "customer", "scrum", "triage",
}

// Top-level groups of the default board.
const (
	GroupCurrentSprint    = "Current Sprint"
	GroupBacklog          = "Backlog"
	GroupCompleted        = "Completed"
	GroupAgentAssignments = "Agent Assignments"
)

// RequiredSections are the headings a usable board must contain.
var RequiredSections = []string{
	GroupCurrentSprint,
	SectionInProgress,
	SectionReview,
	SectionTesting,
	GroupBacklog,
	SectionHighPriority,
	SectionMediumPriority,
	SectionLowPriority,
	SectionRecentCompletions,
}

// NewDefault returns the empty board written by "taskboard init".
// A nil agents slice uses DefaultAgents.
func NewDefault(agents []string) *Board {
	if agents == nil {
		agents = DefaultAgents
	}

	b := &Board{}
	b.Sections = append(b.Sections, &Section{
		Level: 1,
		Title: "Task Board",
		Lead: []string{
			"Agents coordinate work through this board. Edit it with the `taskboard` CLI;",
			"the previous version is kept next to this file as a backup.",
		},
	})

	group := func(title string, children ...string) {
		b.Sections = append(b.Sections, &Section{Level: 2, Title: title})
		for _, c := range children {
			b.Sections = append(b.Sections, &Section{Level: 3, Title: c})
		}
	}
	group(GroupCurrentSprint, SectionInProgress, SectionReview, SectionTesting)
	group(GroupBacklog, SectionHighPriority, SectionMediumPriority, SectionLowPriority)
	group(GroupCompleted, SectionRecentCompletions)

	assignments := &Section{Level: 2, Title: GroupAgentAssignments}
	for _, a := range agents {
		assignments.Lead = append(assignments.Lead, "- @"+a)
	}
	b.Sections = append(b.Sections, assignments)
	return b
}
