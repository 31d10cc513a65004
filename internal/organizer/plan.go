// Package organizer turns processed series documents into filesystem
// actions: the canonical recording is renamed into the TV library with its
// sidecars and an .nfo file, and broken or duplicate recordings are deleted.
package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/pkg/recording"
)

// ActionKind is what an Action does.
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionDelete
	ActionWriteNFO
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionDelete:
		return "delete"
	case ActionWriteNFO:
		return "nfo"
	default:
		return "unknown"
	}
}

// Delete reasons.
const (
	ReasonBroken    = "broken"
	ReasonDuplicate = "duplicate"
	ReasonNoMedia   = "no media"
)

// Action is one planned filesystem change.
type Action struct {
	Kind   ActionKind
	Source string
	Dest   string
	Size   int64
	Reason string
	// Review marks deletes that remove every file of an episode. Apply
	// skips them unless asked to include reviewed actions.
	Review bool
	// Record is set for ActionWriteNFO.
	Record *episode.Record
}

// Planner computes organization plans under a library root.
type Planner struct {
	root    string
	renamer *Renamer
}

// NewPlanner creates a planner for the given library root. A nil renamer
// uses the default templates.
func NewPlanner(root string, renamer *Renamer) *Planner {
	if renamer == nil {
		renamer = NewRenamer("", "")
	}
	return &Planner{root: filepath.Clean(root), renamer: renamer}
}

// Plan returns the actions for every record of doc, in record order.
// Two records that render to the same destination are disambiguated with a
// numeric suffix.
func (p *Planner) Plan(doc *episode.Document) ([]Action, error) {
	var actions []Action
	used := make(map[string]bool)

	for _, r := range doc.Records() {
		canon, ok := r.CanonicalFile()
		if !ok {
			reason := ReasonNoMedia
			if r.FullyBroken {
				reason = ReasonBroken
			}
			for _, f := range r.Files {
				actions = append(actions, Action{
					Kind:   ActionDelete,
					Source: f.Path,
					Size:   f.Size,
					Reason: reason,
					Review: true,
				})
			}
			continue
		}

		ext := strings.TrimPrefix(filepath.Ext(canon.Path), ".")
		dest := filepath.Join(p.root, p.renamer.Path(doc.SeriesName, r, ext))
		if err := ValidatePath(dest, p.root); err != nil {
			return nil, fmt.Errorf("plan %s: %w", r.Subtitle, err)
		}
		dest = uniqueDest(dest, used)
		destStem := strings.TrimSuffix(dest, filepath.Ext(dest))
		canonStem := stem(canon.Path)

		if canon.Path != dest {
			actions = append(actions, Action{Kind: ActionMove, Source: canon.Path, Dest: dest, Size: canon.Size})
		}
		for _, f := range r.Files {
			switch {
			case f.Canonical:
			case f.Kind != recording.KindMedia.String() && stem(f.Path) == canonStem:
				target := destStem + filepath.Ext(f.Path)
				if f.Path != target {
					actions = append(actions, Action{Kind: ActionMove, Source: f.Path, Dest: target, Size: f.Size})
				}
			default:
				reason := ReasonDuplicate
				if f.Broken {
					reason = ReasonBroken
				}
				actions = append(actions, Action{Kind: ActionDelete, Source: f.Path, Size: f.Size, Reason: reason})
			}
		}

		rec := r
		actions = append(actions, Action{Kind: ActionWriteNFO, Dest: destStem + ".nfo", Record: &rec})
	}
	return actions, nil
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func uniqueDest(dest string, used map[string]bool) string {
	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext)
	candidate := dest
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
	used[candidate] = true
	return candidate
}
