package config

import (
	"github.com/nibzard/taskboard/internal/boarddir"
	"github.com/nibzard/taskboard/internal/utils"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultBoardFile    = boarddir.Dir + "/" + boarddir.TasksDir + "/" + boarddir.DefaultBoardFile
	DefaultLogDir       = "~/.taskboard"
	DefaultHistoryLimit = 20
	DefaultJournal      = true
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

// Config holds the full configuration for taskboard.
type Config struct {
	// Paths
	BoardFile  string `toml:"board_file"`
	BackupFile string `toml:"backup_file"`
	SchemaFile string `toml:"schema_file"`
	LogDir     string `toml:"log_dir"`

	// History snapshots; an empty dir disables them.
	HistoryDir   string `toml:"history_dir"`
	HistoryLimit int    `toml:"history_limit"`

	// Journal records every mutation in <log_dir>.
	Journal bool `toml:"journal"`

	// Logging configuration
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Agents lists the known agent roles. Empty accepts any agent.
	Agents []string `toml:"agents"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// HistoryEnabled reports whether history snapshots are kept.
func (c *Config) HistoryEnabled() bool {
	return c.HistoryDir != ""
}

// KnownAgent reports whether agent may be assigned tasks.
func (c *Config) KnownAgent(agent string) bool {
	if len(c.Agents) == 0 {
		return true
	}
	agent = utils.NormalizeAgentName(agent)
	for _, a := range c.Agents {
		if a == agent {
			return true
		}
	}
	return false
}
