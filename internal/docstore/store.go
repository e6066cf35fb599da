// Package docstore reads and rewrites documents in place.
//
// Every write goes through Store so the backup discipline and preview mode apply
// uniformly: a backup is taken at most once per document per batch, and in
// preview mode nothing on disk is touched. Preview writes are staged in memory
// so later stages read what would have been written.
package docstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/frontmatter"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
)

// DefaultBackupSuffix is appended to a document's name to form its backup.
const DefaultBackupSuffix = ".bak"

// Options control how a Store writes.
type Options struct {
	Preview         bool
	NoBackup        bool
	OverwriteBackup bool
	BackupSuffix    string
	// DiffOut receives a line diff for every staged change in preview mode.
	DiffOut io.Writer
}

// Result describes what a Write did.
type Result string

const (
	ResultWritten   Result = "written"
	ResultUnchanged Result = "unchanged"
	ResultStaged    Result = "staged"
)

// Store is the single write path for one batch.
type Store struct {
	opts     Options
	logger   *slog.Logger
	staged   map[string][]byte
	backedUp map[string]bool
}

// New creates a Store.
func New(opts Options, logger *slog.Logger) *Store {
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = DefaultBackupSuffix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		opts:     opts,
		logger:   logger,
		staged:   make(map[string][]byte),
		backedUp: make(map[string]bool),
	}
}

// Preview reports whether the store is in preview mode.
func (s *Store) Preview() bool { return s.opts.Preview }

// BackupPath returns where path's backup lives.
func (s *Store) BackupPath(path string) string { return path + s.opts.BackupSuffix }

// Read returns the current content of path, staged content first.
func (s *Store) Read(path string) ([]byte, error) {
	if content, ok := s.staged[path]; ok {
		return content, nil
	}
	// #nosec G304 -- paths come from discovery under the operator's site root.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.FileSystemError("read document").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return content, nil
}

// Exists reports whether path is a regular file or has staged content.
func (s *Store) Exists(path string) bool {
	if _, ok := s.staged[path]; ok {
		return true
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Write replaces path's content, backing it up first when required.
// Content that fingerprints identically to the current content is not written.
func (s *Store) Write(path string, content []byte) (Result, error) {
	current, err := s.Read(path)
	if err != nil {
		return "", err
	}
	if frontmatter.Fingerprint(current) == frontmatter.Fingerprint(content) {
		s.logger.Debug("Content unchanged; skipping write", logfields.Path(path))
		return ResultUnchanged, nil
	}

	if err := s.backup(path, current); err != nil {
		return "", err
	}

	if s.opts.Preview {
		s.staged[path] = content
		if s.opts.DiffOut != nil {
			_, _ = io.WriteString(s.opts.DiffOut, LineDiff(path, current, content))
		}
		return ResultStaged, nil
	}

	if err := writeFile(path, content); err != nil {
		return "", ferrors.FileSystemError("write document").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return ResultWritten, nil
}

func (s *Store) backup(path string, current []byte) error {
	if s.opts.NoBackup || s.backedUp[path] {
		return nil
	}
	s.backedUp[path] = true

	bak := s.BackupPath(path)
	if _, err := os.Stat(bak); err == nil && !s.opts.OverwriteBackup {
		s.logger.Debug("Backup already exists", logfields.Path(bak))
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("stat backup").WithCause(err).WithContext("path", bak).Build()
	}

	if s.opts.Preview {
		s.logger.Info("Would create backup", logfields.Path(bak))
		return nil
	}
	if err := writeFileLike(bak, path, current); err != nil {
		return ferrors.FileSystemError("write backup").
			WithCause(err).
			WithContext("path", bak).
			Build()
	}
	s.logger.Debug("Created backup", logfields.Path(bak))
	return nil
}

// writeFile rewrites an existing file keeping its permissions.
func writeFile(path string, content []byte) error {
	return writeFileLike(path, path, content)
}

func writeFileLike(dst, modeFrom string, content []byte) error {
	perm := fs.FileMode(0o644)
	if fi, err := os.Stat(modeFrom); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := os.WriteFile(dst, content, perm); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
