package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// resolvePath expands p and makes it absolute against root. Empty stays empty.
func resolvePath(root, p string) string {
	if p == "" {
		return ""
	}
	p = expandPath(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return filepath.Clean(p)
}

// expandPath expands environment variables and a leading ~ in p.
// %VAR% references are expanded on Windows as well.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandWindowsEnv(p)
	}

	if p != "~" && !strings.HasPrefix(p, "~/") && !(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// expandWindowsEnv replaces %NAME% with the value of NAME. Unknown names
// are kept as written.
func expandWindowsEnv(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1
		b.WriteString(p[:start])
		if val, ok := os.LookupEnv(p[start+1 : end]); ok && end > start+1 {
			b.WriteString(val)
			p = p[end+1:]
			continue
		}
		b.WriteString(p[start:end])
		p = p[end:]
	}
	b.WriteString(p)
	return b.String()
}
