package recording

import (
	"path/filepath"
	"regexp"
	"strings"
)

// interruptionMarker matches the trailing "-0" run a DVR appends each time it
// resumes a recording. A stem that genuinely ends in "-0" cannot be told apart
// and is always read as interrupted.
var interruptionMarker = regexp.MustCompile(`(?:-0)+$`)

// Name is a base filename split into its parts.
type Name struct {
	Stem   string
	Status Status
	Ext    string
}

// ParseFilename splits a base filename into stem, interruption status and
// extension. Every input parses; there is no error path.
//
//	"Show_X.ts"      -> {Show_X, unbroken, .ts}
//	"Show_X-0-0.ts"  -> {Show_X, interrupted(2), .ts}
func ParseFilename(name string) Name {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	marker := interruptionMarker.FindString(base)
	return Name{
		Stem:   strings.TrimSuffix(base, marker),
		Status: Interrupted(len(marker) / 2),
		Ext:    ext,
	}
}

// NewArtifact builds an artifact from a path and size.
func NewArtifact(path string, size int64) Artifact {
	n := ParseFilename(path)
	return Artifact{
		Stem:   n.Stem,
		Status: n.Status,
		Ext:    n.Ext,
		Kind:   KindOf(strings.ToLower(n.Ext)),
		Size:   size,
		Path:   filepath.ToSlash(path),
	}
}
