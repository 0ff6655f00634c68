package boarddir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"board in cwd", BoardPath(""), filepath.Join(".claude", "tasks", "taskboard.md")},
		{"board in dot", BoardPath("."), filepath.Join(".claude", "tasks", "taskboard.md")},
		{"board in project", BoardPath("/proj"), filepath.Join("/proj", ".claude", "tasks", "taskboard.md")},
		{"history", HistoryPath("/proj"), filepath.Join("/proj", ".claude", "tasks", "history")},
		{"config", ConfigPath("/proj"), filepath.Join("/proj", ".claude", "taskboard.toml")},
		{"backup", BackupPath("/proj/board.md"), "/proj/board.md.bak"},
		{"backup empty", BackupPath(""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
