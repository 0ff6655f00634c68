package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/taskboard/internal/utils"
)

// loadFromEnv overrides config from TASKBOARD_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource, source ConfigSource) error {
	track := func(field string) {
		if sources != nil {
			sources[field] = source
		}
	}

	if v := os.Getenv("TASKBOARD_FILE"); v != "" {
		cfg.BoardFile = v
		track("board_file")
	}
	if v := os.Getenv("TASKBOARD_BACKUP_FILE"); v != "" {
		cfg.BackupFile = v
		track("backup_file")
	}
	if v := os.Getenv("TASKBOARD_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		track("schema_file")
	}
	if v := os.Getenv("TASKBOARD_LOG_DIR"); v != "" {
		cfg.LogDir = v
		track("log_dir")
	}
	if v := os.Getenv("TASKBOARD_HISTORY_DIR"); v != "" {
		cfg.HistoryDir = v
		track("history_dir")
	}
	if v := os.Getenv("TASKBOARD_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &FieldError{Field: "TASKBOARD_HISTORY_LIMIT", Value: v, Err: err}
		}
		cfg.HistoryLimit = n
		track("history_limit")
	}
	if v := os.Getenv("TASKBOARD_JOURNAL"); v != "" {
		cfg.Journal = boolFromString(v)
		track("journal")
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		track("log_level")
	}
	if v := os.Getenv("TASKBOARD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		track("log_format")
	}
	if v := os.Getenv("TASKBOARD_AGENTS"); v != "" {
		cfg.Agents = utils.ParseAgentList(v)
		track("agents")
	}
	return nil
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
