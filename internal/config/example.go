package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Taskboard configuration file
# Values can be overridden by TASKBOARD_* environment variables or CLI flags.

# Task board (relative to the project root)
board_file = ".claude/tasks/taskboard.md"

# Single-slot backup of the previous board (default: <board_file>.bak)
# backup_file = ".claude/tasks/taskboard.md.bak"

# Keep a snapshot of every replaced board in this directory
# history_dir = ".claude/tasks/history"

# Maximum number of snapshots to keep (0 = unlimited)
history_limit = 20

# JSON schema used by "taskboard validate" (default: built in)
# schema_file = "taskboard.schema.json"

# Journal base directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.taskboard"

# Record every board change in the journal
journal = true

# Console logging: debug, info, warn, error / text, json, logfmt
log_level = "warn"
log_format = "text"

# Known agent roles; unknown assignees are reported by validate.
# An empty list accepts any agent.
agents = []
`
}
