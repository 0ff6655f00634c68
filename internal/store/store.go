// Package store persists the task board with atomic writes, a single-slot
// backup and an optional snapshot history.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/board"
	"github.com/nibzard/taskboard/internal/boarddir"
)

const defaultPerm os.FileMode = 0o644

var (
	// ErrStaleWrite is returned by Commit when the file changed on disk
	// after it was loaded.
	ErrStaleWrite = errors.New("board changed on disk since it was loaded")
	// ErrNoBackup is returned when there is nothing to restore from.
	ErrNoBackup = errors.New("no backup available")
	// ErrExists is returned by Init when the board file already exists.
	ErrExists = errors.New("board already exists")
	// ErrNotFound is returned when the board file does not exist.
	ErrNotFound = errors.New("board not found")
)

// Store reads and writes one board file.
type Store struct {
	Path       string
	BackupPath string
	// HistoryDir enables snapshot history when non-empty.
	HistoryDir string
	// HistoryLimit caps the number of snapshots kept; zero keeps all.
	HistoryLimit int
	Logger       *log.Logger
	Now          func() time.Time
}

// Snapshot is a loaded board together with the bytes it was parsed from.
type Snapshot struct {
	Board *board.Board
	Raw   []byte
}

// New returns a store for path with the default backup location.
func New(path string) *Store {
	return &Store{
		Path:       path,
		BackupPath: boarddir.BackupPath(path),
	}
}

// Load reads and parses the board file.
func (s *Store) Load() (*Snapshot, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("read board: %w", err)
	}
	b, err := board.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return &Snapshot{Board: b, Raw: raw}, nil
}

// Commit writes b over the file snap was loaded from. It reports whether
// anything was written: a board that renders to the loaded bytes is left
// alone. The prior document goes to the backup slot (and the history, when
// enabled) before the new one replaces it.
func (s *Store) Commit(snap *Snapshot, b *board.Board) (bool, error) {
	if snap == nil {
		return false, errors.New("commit without snapshot")
	}
	data := b.Render()
	if bytes.Equal(data, snap.Raw) {
		s.logger().Debug("board unchanged", "path", s.Path)
		return false, nil
	}

	current, err := os.ReadFile(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read board: %w", err)
	}
	if !bytes.Equal(current, snap.Raw) {
		return false, fmt.Errorf("%w: %s", ErrStaleWrite, s.Path)
	}

	if err := s.preserve(current); err != nil {
		return false, err
	}
	if err := WriteFileAtomic(s.Path, data, fileMode(s.Path, defaultPerm)); err != nil {
		return false, fmt.Errorf("write board: %w", err)
	}
	s.logger().Debug("board written", "path", s.Path, "bytes", len(data))
	return true, nil
}

// Update loads the board, applies fn and commits the result. It reports
// whether the file was rewritten. Nothing is written when fn returns an
// error or leaves the document unchanged.
func (s *Store) Update(fn func(*board.Board) error) (bool, error) {
	snap, err := s.Load()
	if err != nil {
		return false, err
	}
	if err := fn(snap.Board); err != nil {
		return false, err
	}
	return s.Commit(snap, snap.Board)
}

// Init writes b as a new board file, creating its directory. An existing
// file is replaced only with force, and is backed up first.
func (s *Store) Init(b *board.Board, force bool) error {
	current, err := os.ReadFile(s.Path)
	switch {
	case err == nil:
		if !force {
			return fmt.Errorf("%w: %s", ErrExists, s.Path)
		}
		if err := s.preserve(current); err != nil {
			return err
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
			return fmt.Errorf("create board dir: %w", err)
		}
	default:
		return fmt.Errorf("read board: %w", err)
	}

	if err := WriteFileAtomic(s.Path, b.Render(), fileMode(s.Path, defaultPerm)); err != nil {
		return fmt.Errorf("write board: %w", err)
	}
	s.logger().Info("board initialized", "path", s.Path)
	return nil
}

// Restore replaces the board with the backup (source "" or "backup") or
// with a history snapshot named by source. The current document is backed
// up first, so restoring the backup twice swaps back.
func (s *Store) Restore(source string) (*HistoryEntry, error) {
	entry, err := s.resolveSource(source)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoBackup, entry.Path)
		}
		return nil, fmt.Errorf("read %s: %w", entry.Name, err)
	}
	if _, err := board.Parse(data); err != nil {
		return nil, fmt.Errorf("snapshot %s is not a valid board: %w", entry.Name, err)
	}

	current, err := os.ReadFile(s.Path)
	switch {
	case err == nil:
		if err := s.preserve(current); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create board dir: %w", err)
		}
	default:
		return nil, fmt.Errorf("read board: %w", err)
	}

	if err := WriteFileAtomic(s.Path, data, fileMode(s.Path, defaultPerm)); err != nil {
		return nil, fmt.Errorf("write board: %w", err)
	}
	s.logger().Info("board restored", "from", entry.Name)
	return entry, nil
}

// preserve copies the prior document into the backup slot and the history.
func (s *Store) preserve(prior []byte) error {
	if s.BackupPath != "" {
		if err := WriteFileAtomic(s.BackupPath, prior, fileMode(s.Path, defaultPerm)); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		s.logger().Debug("backup written", "path", s.BackupPath)
	}
	if s.HistoryDir != "" {
		if err := s.snapshot(prior); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return discardLogger
}

var discardLogger = log.New(io.Discard)
