package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// Organizer executes plans against a filesystem.
type Organizer struct {
	fs       afero.Fs
	log      *slog.Logger
	lockPath string
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Organizer) { o.log = l }
}

// WithLockFile makes Apply hold an exclusive file lock at path while it
// mutates the filesystem.
func WithLockFile(path string) Option {
	return func(o *Organizer) { o.lockPath = path }
}

// New creates an Organizer over fs.
func New(fs afero.Fs, opts ...Option) *Organizer {
	o := &Organizer{fs: fs, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ApplyOptions controls Apply.
type ApplyOptions struct {
	DryRun        bool
	IncludeReview bool
}

// Summary counts what Apply did, or would do on a dry run.
type Summary struct {
	Moved     int
	Deleted   int
	NFOs      int
	Skipped   int
	Reclaimed int64
}

// Apply executes actions in order. A failed action is reported in the
// joined error and the remaining actions still run.
func (o *Organizer) Apply(ctx context.Context, actions []Action, opts ApplyOptions) (Summary, error) {
	var sum Summary

	if !opts.DryRun && o.lockPath != "" {
		lock := flock.New(o.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return sum, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return sum, ErrLocked
		}
		defer func() { _ = lock.Unlock() }()
	}

	var errs []error
	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if a.Review && !opts.IncludeReview {
			o.log.Warn("needs review", "action", a.Kind, "path", a.Source, "reason", a.Reason)
			sum.Skipped++
			continue
		}
		if opts.DryRun {
			o.log.Info("dry run", "action", a.Kind, "source", a.Source, "dest", a.Dest, "reason", a.Reason)
			sum.count(a)
			continue
		}
		if err := o.apply(a); err != nil {
			o.log.Error("action failed", "action", a.Kind, "source", a.Source, "dest", a.Dest, "error", err)
			errs = append(errs, err)
			continue
		}
		o.log.Info("applied", "action", a.Kind, "source", a.Source, "dest", a.Dest, "reason", a.Reason)
		sum.count(a)
	}
	return sum, errors.Join(errs...)
}

func (s *Summary) count(a Action) {
	switch a.Kind {
	case ActionMove:
		s.Moved++
	case ActionDelete:
		s.Deleted++
		s.Reclaimed += a.Size
	case ActionWriteNFO:
		s.NFOs++
	}
}

func (o *Organizer) apply(a Action) error {
	switch a.Kind {
	case ActionMove:
		return moveFile(o.fs, a.Source, a.Dest)
	case ActionDelete:
		if err := o.fs.Remove(a.Source); err != nil {
			return fmt.Errorf("delete %s: %w", a.Source, err)
		}
		return nil
	case ActionWriteNFO:
		if a.Record == nil {
			return fmt.Errorf("nfo %s: no record", a.Dest)
		}
		return WriteNFO(o.fs, a.Dest, a.Record.SeriesName, *a.Record)
	default:
		return fmt.Errorf("unknown action %d", a.Kind)
	}
}

// moveFile renames src to dst, falling back to copy and remove when the
// rename fails, as it does across devices.
func moveFile(fs afero.Fs, src, dst string) error {
	if exists, _ := afero.Exists(fs, dst); exists {
		return fmt.Errorf("%s: %w", dst, ErrDestinationExists)
	}
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrMoveFailed, err)
	}
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}
	if _, err := copyFile(fs, src, dst); err != nil {
		return err
	}
	if err := fs.Remove(src); err != nil {
		return fmt.Errorf("%w: remove source: %v", ErrMoveFailed, err)
	}
	return nil
}

// copyFile copies src to dst, removing a partial destination on failure.
func copyFile(fs afero.Fs, src, dst string) (int64, error) {
	srcFile, err := fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrMoveFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := fs.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrMoveFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		_ = fs.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrMoveFailed, err)
	}
	if err := dstFile.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync: %v", ErrMoveFailed, err)
	}
	return size, nil
}
