package ui

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles used by the board views. They are built
// from a renderer so output written to a pipe carries no escape codes.
type styles struct {
	title       lipgloss.Style
	group       lipgloss.Style
	section     lipgloss.Style
	count       lipgloss.Style
	taskID      lipgloss.Style
	priority    map[string]lipgloss.Style
	agent       lipgloss.Style
	dim         lipgloss.Style
	err         lipgloss.Style
	footerKey   lipgloss.Style
	footer      lipgloss.Style
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return styles{
		title: r.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true),
		group: r.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true),
		section: r.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true),
		count:  r.NewStyle().Foreground(lipgloss.Color("245")),
		taskID: r.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
		priority: map[string]lipgloss.Style{
			"P1": r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			"P2": r.NewStyle().Foreground(lipgloss.Color("226")),
			"P3": r.NewStyle().Foreground(lipgloss.Color("46")),
		},
		agent:       r.NewStyle().Foreground(lipgloss.Color("141")),
		dim:         r.NewStyle().Foreground(lipgloss.Color("245")),
		err:         r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		footerKey:   r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		footer:      r.NewStyle().Foreground(lipgloss.Color("245")),
		activeTab:   r.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("45")),
		inactiveTab: r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (s styles) priorityStyle(p string) lipgloss.Style {
	if st, ok := s.priority[p]; ok {
		return st
	}
	return s.dim
}
