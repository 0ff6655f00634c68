package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/taskboard/internal/boarddir"
)

// findProjectConfigFile looks for a config file in the project directory.
func findProjectConfigFile(projectRoot string) string {
	names := []string{
		boarddir.DefaultConfigFile,
		"." + boarddir.DefaultConfigFile,
		filepath.Join(boarddir.Dir, boarddir.DefaultConfigFile),
	}
	for _, name := range names {
		path := filepath.Join(projectRoot, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.taskboard/taskboard.toml first, then falls back to OS-specific
// config directories if ~/.taskboard doesn't exist.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".taskboard", boarddir.DefaultConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "taskboard", boarddir.DefaultConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.BoardFile = DefaultBoardFile
	cfg.BackupFile = ""
	cfg.SchemaFile = ""
	cfg.LogDir = DefaultLogDir
	cfg.HistoryDir = ""
	cfg.HistoryLimit = DefaultHistoryLimit
	cfg.Journal = DefaultJournal
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Agents = nil
}

// GetConfigFile returns the highest-priority config file that was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
