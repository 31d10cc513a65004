package scan

import (
	"github.com/vmunix/tvrecon/internal/descriptor"
	"github.com/vmunix/tvrecon/pkg/recording"
	"github.com/vmunix/tvrecon/pkg/title"
)

// Group is a recording group together with the descriptor that names it.
type Group struct {
	Recording  *recording.Group
	Descriptor descriptor.Metadata
	Stems      []string
}

// Orphan is a stem with artifacts but no usable descriptor.
type Orphan struct {
	Stem      string
	Artifacts []recording.Artifact
}

// GroupSet is the grouping of one series directory.
type GroupSet struct {
	Groups  []*Group
	Orphans []Orphan
}

// BuildGroups clusters artifacts by stem, then merges stems whose
// descriptors carry normalized-equal subtitles. Stems whose descriptors
// have no subtitle stay on their own. Order follows the first artifact seen.
func BuildGroups(l *Listing) GroupSet {
	var order []string
	byStem := make(map[string][]recording.Artifact)
	for _, a := range l.Artifacts {
		k := stemKey(a)
		if _, ok := byStem[k]; !ok {
			order = append(order, k)
		}
		byStem[k] = append(byStem[k], a)
	}

	descByStem := make(map[string]descriptor.Metadata)
	for _, d := range l.Descriptors {
		k := stemKey(d.Artifact)
		if prev, ok := descByStem[k]; ok && prev.Subtitle != "" {
			continue
		}
		descByStem[k] = d.Meta
	}

	var set GroupSet
	bySubtitle := make(map[string]*Group)
	for _, k := range order {
		meta, ok := descByStem[k]
		if !ok {
			set.Orphans = append(set.Orphans, Orphan{Stem: k, Artifacts: byStem[k]})
			continue
		}

		key := title.Normalize(meta.Subtitle)
		if key == "" {
			key = "\x00" + k
		}
		g, ok := bySubtitle[key]
		if !ok {
			g = &Group{
				Recording:  &recording.Group{Subtitle: meta.Subtitle},
				Descriptor: meta,
			}
			bySubtitle[key] = g
			set.Groups = append(set.Groups, g)
		}
		g.Stems = append(g.Stems, k)
		g.Recording.Artifacts = append(g.Recording.Artifacts, byStem[k]...)
	}
	return set
}
