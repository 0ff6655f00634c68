// Package logging writes the JSONL operation journal and tail output.
package logging

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JournalFile is the journal file name inside the per-project log directory.
const JournalFile = "journal.jsonl"

// Event is one journal record.
type Event struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	RunID   string    `json:"run_id"`
	Action  string    `json:"action"`
	Board   string    `json:"board,omitempty"`
	TaskID  string    `json:"task_id,omitempty"`
	Section string    `json:"section,omitempty"`
	Status  string    `json:"status,omitempty"`
	Agent   string    `json:"agent,omitempty"`
	Source  string    `json:"source,omitempty"` // restore: backup or snapshot name
	Changed bool      `json:"changed"`
	Error   string    `json:"error,omitempty"`
}

// Journal appends events to the per-project journal file.
type Journal struct {
	Dir   string
	RunID string
	Path  string

	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// OpenJournal creates the per-project log directory under baseDir and opens
// its journal for appending.
func OpenJournal(baseDir, workDir string) (*Journal, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(logDir, JournalFile)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &Journal{
		Dir:   logDir,
		RunID: runID(),
		Path:  path,
		file:  file,
		now:   time.Now,
	}, nil
}

// Record appends e to the journal, filling in its id, time and run id.
func (j *Journal) Record(e Event) error {
	if j == nil || j.file == nil {
		return nil
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = j.now().UTC()
	}
	e.RunID = j.RunID

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode journal event: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	return j.file.Close()
}

// ReadEvents decodes every event in a journal file. A missing file yields
// no events.
func ReadEvents(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return events, fmt.Errorf("journal line %d: %w", line, err)
		}
		events = append(events, e)
	}
	return events, scanner.Err()
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

// resolveProjectRoot returns the git top level of workDir, or workDir.
func resolveProjectRoot(workDir string) string {
	if workDir == "" {
		return "."
	}
	if _, err := exec.LookPath("git"); err == nil {
		cmd := exec.Command("git", "-C", workDir, "rev-parse", "--show-toplevel")
		if output, err := cmd.Output(); err == nil {
			root := strings.TrimSpace(string(output))
			if root != "" {
				return root
			}
		}
	}
	return workDir
}

func projectSlug(projectRoot string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(projectRoot)), hashPath(projectRoot))
}

func slugify(input string) string {
	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "project"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// FindLogDir returns the per-project log directory for workDir. Relative
// base dirs are taken relative to workDir; the project is the enclosing git
// repository when there is one.
func FindLogDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}

	resolvedWorkDir := workDir
	if resolvedWorkDir == "" {
		resolvedWorkDir = "."
	}
	if abs, err := filepath.Abs(resolvedWorkDir); err == nil {
		resolvedWorkDir = abs
	}

	baseDir = resolveBaseDir(baseDir, resolvedWorkDir)
	projectRoot := resolveProjectRoot(resolvedWorkDir)
	return filepath.Join(baseDir, projectSlug(projectRoot)), nil
}

// JournalPath returns the journal path for workDir without creating it.
func JournalPath(baseDir, workDir string) (string, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(logDir, JournalFile), nil
}

// TailLog copies the last n lines of path to w (all lines when n <= 0).
// With follow it keeps copying appended data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}
	return tailFollow(ctx, w, file)
}

// tailSeek positions file at the start of its last n lines.
func tailSeek(file *os.File, n int) error {
	const chunkSize = 4096

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()

	// A trailing newline terminates the last line rather than starting a new one.
	end := size
	if end > 0 {
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, end-1); err != nil {
			return err
		}
		if last[0] == '\n' {
			end--
		}
	}

	buf := make([]byte, chunkSize)
	newlines := 0
	for pos := end; pos > 0; {
		readSize := int64(chunkSize)
		if pos < readSize {
			readSize = pos
		}
		pos -= readSize
		if _, err := file.ReadAt(buf[:readSize], pos); err != nil {
			return err
		}
		for i := readSize - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				continue
			}
			newlines++
			if newlines == n {
				_, err := file.Seek(pos+i+1, io.SeekStart)
				return err
			}
		}
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}

// tailFollow polls file for appended data like tail -f.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
	}
}
