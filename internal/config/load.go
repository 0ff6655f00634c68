package config

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/taskboard/internal/boarddir"
	"github.com/nibzard/taskboard/internal/utils"
)

// FieldError reports an invalid configuration value.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid value %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: invalid value %q", e.Field, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskboard/taskboard.toml or OS-specific config dir)
// 3. Project config file (taskboard.toml, .taskboard.toml or .claude/taskboard.toml)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, false)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	return load(fs, args, true)
}

func load(fs *flag.FlagSet, args []string, track bool) (*ConfigWithSources, error) {
	cfg := &Config{}
	var sources map[string]ConfigSource
	if track {
		sources = make(map[string]ConfigSource)
	}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		if sources != nil {
			sources[field] = SourceDefault
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg.ProjectRoot = wd

	var files []string

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(cfg.ProjectRoot); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources, SourceEnv); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources, SourceFlag); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"board_file",
		"backup_file",
		"schema_file",
		"log_dir",
		"history_dir",
		"history_limit",
		"journal",
		"log_level",
		"log_format",
		"agents",
	}
}

// loadConfigFile decodes a TOML file over cfg. Only keys present in the
// file change cfg; they are recorded in sources when it is non-nil.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if sources != nil {
		for _, field := range configFields() {
			if md.IsDefined(field) {
				sources[field] = source
			}
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)

	cfg.BoardFile = resolvePath(cfg.ProjectRoot, cfg.BoardFile)
	if cfg.BoardFile == "" {
		return &FieldError{Field: "board_file", Value: ""}
	}
	if cfg.BackupFile == "" {
		cfg.BackupFile = boarddir.BackupPath(cfg.BoardFile)
	} else {
		cfg.BackupFile = resolvePath(cfg.ProjectRoot, cfg.BackupFile)
	}
	if cfg.BackupFile == cfg.BoardFile {
		return &FieldError{Field: "backup_file", Value: cfg.BackupFile, Err: fmt.Errorf("same as board_file")}
	}
	cfg.SchemaFile = resolvePath(cfg.ProjectRoot, cfg.SchemaFile)
	cfg.HistoryDir = resolvePath(cfg.ProjectRoot, cfg.HistoryDir)

	if cfg.HistoryLimit < 0 {
		return &FieldError{Field: "history_limit", Value: fmt.Sprint(cfg.HistoryLimit), Err: fmt.Errorf("must be >= 0")}
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &FieldError{Field: "log_level", Value: cfg.LogLevel}
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return &FieldError{Field: "log_format", Value: cfg.LogFormat}
	}

	cfg.Agents = utils.NormalizeAgentList(cfg.Agents)
	return nil
}
