package config

import (
	"flag"
	"strings"

	"github.com/nibzard/taskboard/internal/utils"
)

// flagToSource maps global flag names to config field names.
var flagToSource = map[string]string{
	"file":          "board_file",
	"backup-file":   "backup_file",
	"schema":        "schema_file",
	"log-dir":       "log_dir",
	"history-dir":   "history_dir",
	"history-limit": "history_limit",
	"no-journal":    "journal",
	"log-level":     "log_level",
	"log-format":    "log_format",
	"agents":        "agents",
}

// parseFlags defines the global flags on fs and parses args. Values
// are bound to locals and copied into cfg only for flags that were set, so
// defaults shown by -help reflect the lower layers.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskboard", flag.ContinueOnError)
	}

	var (
		boardFile    = cfg.BoardFile
		backupFile   = cfg.BackupFile
		schemaFile   = cfg.SchemaFile
		logDir       = cfg.LogDir
		historyDir   = cfg.HistoryDir
		historyLimit = cfg.HistoryLimit
		noJournal    = !cfg.Journal
		logLevel     = cfg.LogLevel
		logFormat    = cfg.LogFormat
		agents       = strings.Join(cfg.Agents, ",")
	)

	fs.StringVar(&boardFile, "file", boardFile, "Path to the task board")
	fs.StringVar(&backupFile, "backup-file", backupFile, "Backup path (default <file>.bak)")
	fs.StringVar(&schemaFile, "schema", schemaFile, "JSON schema for validate (default built in)")
	fs.StringVar(&logDir, "log-dir", logDir, "Journal base directory")
	fs.StringVar(&historyDir, "history-dir", historyDir, "Keep board snapshots in this directory")
	fs.IntVar(&historyLimit, "history-limit", historyLimit, "Maximum snapshots to keep (0 = unlimited)")
	fs.BoolVar(&noJournal, "no-journal", noJournal, "Do not record operations in the journal")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.StringVar(&agents, "agents", agents, "Comma-separated list of known agents")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagToSource[f.Name]
		if !ok {
			return
		}
		switch field {
		case "board_file":
			cfg.BoardFile = boardFile
		case "backup_file":
			cfg.BackupFile = backupFile
		case "schema_file":
			cfg.SchemaFile = schemaFile
		case "log_dir":
			cfg.LogDir = logDir
		case "history_dir":
			cfg.HistoryDir = historyDir
		case "history_limit":
			cfg.HistoryLimit = historyLimit
		case "journal":
			cfg.Journal = !noJournal
		case "log_level":
			cfg.LogLevel = logLevel
		case "log_format":
			cfg.LogFormat = logFormat
		case "agents":
			cfg.Agents = utils.ParseAgentList(agents)
		}
		if sources != nil {
			sources[field] = source
		}
	})

	return nil
}
