// Package recording models the files a DVR writes for one recording and
// resolves interrupted or duplicate recordings to a single canonical file.
package recording

import "fmt"

// Status records whether a recording ran to completion. It is derived once
// from the filename by ParseFilename and carried on the Artifact from then on.
type Status struct {
	interruptions int
}

// Unbroken is the status of a recording that was never resumed.
func Unbroken() Status { return Status{} }

// Interrupted is the status of a recording that was resumed n times.
// n <= 0 yields Unbroken.
func Interrupted(n int) Status {
	if n <= 0 {
		return Unbroken()
	}
	return Status{interruptions: n}
}

// Interruptions returns the number of resumption attempts.
func (s Status) Interruptions() int { return s.interruptions }

// Broken reports whether the recording was interrupted.
func (s Status) Broken() bool { return s.interruptions > 0 }

func (s Status) String() string {
	if !s.Broken() {
		return "unbroken"
	}
	return fmt.Sprintf("interrupted(%d)", s.interruptions)
}

// Kind classifies an artifact by extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindMedia
	KindDescriptor
	KindSkipSegment
	KindSidecar
)

func (k Kind) String() string {
	switch k {
	case KindMedia:
		return "media"
	case KindDescriptor:
		return "descriptor"
	case KindSkipSegment:
		return "skip_segment"
	case KindSidecar:
		return "sidecar"
	default:
		return "unknown"
	}
}

// Extensions recognised in a series directory, lower-cased with leading dot.
const (
	ExtMedia       = ".ts"
	ExtDescriptor  = ".xml"
	ExtSkipSegment = ".edl"
)

var kindsByExt = map[string]Kind{
	ExtMedia:       KindMedia,
	ExtDescriptor:  KindDescriptor,
	ExtSkipSegment: KindSkipSegment,
	".txt":         KindSidecar,
	".timing":      KindSidecar,
}

// KindOf returns the kind for a lower-cased extension.
func KindOf(ext string) Kind {
	return kindsByExt[ext]
}

// Artifact is one file produced by a recording. Immutable once read.
type Artifact struct {
	Stem   string
	Status Status
	Ext    string // as found on disk, including the dot
	Kind   Kind
	Size   int64
	Path   string
}

// Broken reports whether the artifact belongs to an interrupted recording.
func (a Artifact) Broken() bool { return a.Status.Broken() }

// Group is the set of artifacts that represent one logical episode.
// All artifacts share the descriptor subtitle in Subtitle. Canonical is set
// only by SelectCanonical.
type Group struct {
	Subtitle  string
	Artifacts []Artifact
	Canonical *Artifact
}

// Media returns the media artifacts in the group, in group order.
func (g *Group) Media() []Artifact {
	var out []Artifact
	for _, a := range g.Artifacts {
		if a.Kind == KindMedia {
			out = append(out, a)
		}
	}
	return out
}

// Sidecars returns the non-media artifacts sharing the given stem and status.
// These travel with a media file when it is renamed or deleted.
func (g *Group) Sidecars(media Artifact) []Artifact {
	var out []Artifact
	for _, a := range g.Artifacts {
		if a.Kind == KindMedia {
			continue
		}
		if a.Stem == media.Stem && a.Status == media.Status {
			out = append(out, a)
		}
	}
	return out
}
