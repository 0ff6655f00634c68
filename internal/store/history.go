package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	historyExt        = ".md"
	historyTimeLayout = "20060102T150405.000000000Z"

	// BackupName is the history name of the single-slot backup.
	BackupName = "backup"
)

// HistoryEntry describes a restorable copy of the board.
type HistoryEntry struct {
	Name   string
	Path   string
	Time   time.Time
	Size   int64
	Backup bool
}

// History lists the backup slot first, then history snapshots newest first.
func (s *Store) History() ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if s.BackupPath != "" {
		if info, err := os.Stat(s.BackupPath); err == nil {
			entries = append(entries, HistoryEntry{
				Name:   BackupName,
				Path:   s.BackupPath,
				Time:   info.ModTime(),
				Size:   info.Size(),
				Backup: true,
			})
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat backup: %w", err)
		}
	}

	snapshots, err := s.snapshots()
	if err != nil {
		return nil, err
	}
	for i := len(snapshots) - 1; i >= 0; i-- {
		entries = append(entries, snapshots[i])
	}
	return entries, nil
}

// snapshots returns the history snapshots oldest first.
func (s *Store) snapshots() ([]HistoryEntry, error) {
	if s.HistoryDir == "" {
		return nil, nil
	}
	dirEntries, err := os.ReadDir(s.HistoryDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var entries []HistoryEntry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), historyExt) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(de.Name(), historyExt)
		ts, ok := snapshotTime(name)
		if !ok {
			continue
		}
		entries = append(entries, HistoryEntry{
			Name: name,
			Path: filepath.Join(s.HistoryDir, de.Name()),
			Time: ts,
			Size: info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Time.Equal(entries[j].Time) {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

// snapshot writes prior into the history directory and prunes it.
func (s *Store) snapshot(prior []byte) error {
	if err := os.MkdirAll(s.HistoryDir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	name := snapshotName(s.now(), uuid.NewString())
	path := filepath.Join(s.HistoryDir, name+historyExt)
	if err := WriteFileAtomic(path, prior, fileMode(s.Path, defaultPerm)); err != nil {
		return fmt.Errorf("write history snapshot: %w", err)
	}
	s.logger().Debug("history snapshot written", "path", path)
	return s.prune()
}

func (s *Store) prune() error {
	if s.HistoryLimit <= 0 {
		return nil
	}
	entries, err := s.snapshots()
	if err != nil {
		return err
	}
	for len(entries) > s.HistoryLimit {
		if err := os.Remove(entries[0].Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("prune history: %w", err)
		}
		s.logger().Debug("history snapshot pruned", "name", entries[0].Name)
		entries = entries[1:]
	}
	return nil
}

// resolveSource maps a restore source to a history entry. Snapshots may be
// named by any unique prefix.
func (s *Store) resolveSource(source string) (*HistoryEntry, error) {
	source = strings.TrimSuffix(strings.TrimSpace(source), historyExt)
	if source == "" || source == BackupName {
		if s.BackupPath == "" {
			return nil, ErrNoBackup
		}
		return &HistoryEntry{Name: BackupName, Path: s.BackupPath, Backup: true}, nil
	}

	snapshots, err := s.snapshots()
	if err != nil {
		return nil, err
	}
	var matches []HistoryEntry
	for _, e := range snapshots {
		if e.Name == source {
			return &e, nil
		}
		if strings.HasPrefix(e.Name, source) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no snapshot named %q", ErrNoBackup, source)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("snapshot %q is ambiguous (%d matches)", source, len(matches))
	}
}

func snapshotName(t time.Time, id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return t.UTC().Format(historyTimeLayout) + "-" + id
}

func snapshotTime(name string) (time.Time, bool) {
	if len(name) < len(historyTimeLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(historyTimeLayout, name[:len(historyTimeLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
