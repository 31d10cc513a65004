// Package scan lists a series directory and groups the recording artifacts
// found there by the episode their descriptor names.
package scan

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/vmunix/tvrecon/internal/descriptor"
	"github.com/vmunix/tvrecon/pkg/recording"
)

// ErrNotDirectory indicates the series path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Descriptor is a parsed descriptor together with the file it came from.
type Descriptor struct {
	Artifact recording.Artifact
	Meta     descriptor.Metadata
}

// DescriptorError reports a descriptor that could not be used. The
// artifact itself still takes part in grouping.
type DescriptorError struct {
	Path string
	Err  error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("descriptor %s: %v", e.Path, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// Listing is everything read from one series directory.
type Listing struct {
	Dir         string
	Artifacts   []recording.Artifact
	Descriptors []Descriptor
	Errors      []error
}

// Scanner reads series directories. It never writes.
type Scanner struct {
	fs  afero.Fs
	log *slog.Logger
}

// NewScanner creates a scanner over fs. A nil logger discards output.
func NewScanner(fs afero.Fs, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{fs: fs, log: log}
}

// Scan walks dir in lexical order and collects every recognised artifact.
// Unreadable descriptors are recorded in Listing.Errors.
func (s *Scanner) Scan(dir string) (*Listing, error) {
	info, err := s.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat series dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	l := &Listing{Dir: dir}
	err = afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		a := recording.NewArtifact(path, info.Size())
		if a.Kind == recording.KindUnknown {
			return nil
		}
		l.Artifacts = append(l.Artifacts, a)

		if a.Kind != recording.KindDescriptor {
			return nil
		}
		if a.Size == 0 {
			l.Errors = append(l.Errors, &DescriptorError{Path: a.Path, Err: descriptor.ErrEmpty})
			return nil
		}
		meta, err := descriptor.ParseFile(s.fs, path)
		if err != nil {
			s.log.Warn("descriptor unreadable", "path", a.Path, "error", err)
			l.Errors = append(l.Errors, &DescriptorError{Path: a.Path, Err: err})
			return nil
		}
		s.log.Debug("scanned descriptor", "path", a.Path, "subtitle", meta.Subtitle)
		l.Descriptors = append(l.Descriptors, Descriptor{Artifact: a, Meta: meta})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk series dir: %w", err)
	}

	s.log.Debug("scanned series dir", "dir", dir,
		"artifacts", len(l.Artifacts), "descriptors", len(l.Descriptors))
	return l, nil
}

// stemKey identifies a recording by directory and stem, so equal stems in
// different subdirectories stay apart.
func stemKey(a recording.Artifact) string {
	dir := filepath.ToSlash(filepath.Dir(a.Path))
	return strings.TrimSuffix(dir, "/") + "/" + a.Stem
}
