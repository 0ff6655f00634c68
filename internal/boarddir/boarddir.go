// Package boarddir provides constants and utilities for the .claude directory structure.
package boarddir

import "path/filepath"

const (
	// Dir is the name of the project configuration directory.
	Dir = ".claude"

	// TasksDir is the directory holding the board, relative to Dir.
	TasksDir = "tasks"

	// DefaultBoardFile is the default board file name (inside .claude/tasks).
	DefaultBoardFile = "taskboard.md"

	// BackupExt is appended to the board file name for the single-slot backup.
	BackupExt = ".bak"

	// HistoryDirName is the default history directory name (inside .claude/tasks).
	HistoryDirName = "history"

	// DefaultConfigFile is the default config file name (inside .claude).
	DefaultConfigFile = "taskboard.toml"
)

// BoardPath returns the full path to the board file within a work directory.
func BoardPath(workDir string) string {
	return filepath.Join(TasksPath(workDir), DefaultBoardFile)
}

// TasksPath returns the full path to the .claude/tasks directory.
func TasksPath(workDir string) string {
	return filepath.Join(DirPath(workDir), TasksDir)
}

// HistoryPath returns the default history directory within a work directory.
func HistoryPath(workDir string) string {
	return filepath.Join(TasksPath(workDir), HistoryDirName)
}

// ConfigPath returns the full path to the config file within a work directory.
func ConfigPath(workDir string) string {
	return filepath.Join(DirPath(workDir), DefaultConfigFile)
}

// DirPath returns the full path to the .claude directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "" {
		workDir = "."
	}
	return filepath.Join(workDir, Dir)
}

// BackupPath returns the backup path for a board file: "taskboard.md"
// becomes "taskboard.md.bak".
func BackupPath(boardPath string) string {
	if boardPath == "" {
		return ""
	}
	return boardPath + BackupExt
}
