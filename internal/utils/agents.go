// Package utils provides agent name helpers shared by the taskboard packages.
package utils

import (
	"strings"
	"unicode"
)

// NormalizeAgentName lowercases an agent name and strips surrounding
// whitespace and a leading "@" mention marker.
func NormalizeAgentName(input string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(input), "@"))
}

// NormalizeAgentList normalizes a list of agent names.
// Empty entries and repeats are omitted. Returns nil if the result is empty.
func NormalizeAgentList(agents []string) []string {
	if len(agents) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(agents))
	result := make([]string, 0, len(agents))
	for _, agent := range agents {
		normalized := NormalizeAgentName(agent)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// ParseAgentList splits a comma or whitespace separated agent list, as
// given in TASKBOARD_AGENTS or -agents, and normalizes it.
func ParseAgentList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	return NormalizeAgentList(fields)
}
