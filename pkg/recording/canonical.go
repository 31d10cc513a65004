package recording

// DiscardReason explains why a media artifact is not retained.
type DiscardReason string

const (
	DiscardBroken    DiscardReason = "broken"
	DiscardDuplicate DiscardReason = "duplicate"
)

// Discard is a media artifact that becomes a deletion candidate once the
// group's canonical file is confirmed.
type Discard struct {
	Artifact Artifact
	Reason   DiscardReason
}

// Selection is the outcome of SelectCanonical.
type Selection struct {
	Canonical   *Artifact
	FullyBroken bool // media exists but every file is interrupted
	NoMedia     bool // the group has no media artifact at all
	Discard     []Discard
}

// SelectCanonical picks the largest unbroken media artifact of the group and
// records it in g.Canonical. Equal sizes keep the first one seen. When no
// unbroken media exists Canonical stays nil.
func SelectCanonical(g *Group) Selection {
	g.Canonical = nil

	media := g.Media()
	if len(media) == 0 {
		return Selection{NoMedia: true}
	}

	best := -1
	for i, a := range media {
		if a.Broken() {
			continue
		}
		if best < 0 || a.Size > media[best].Size {
			best = i
		}
	}

	var sel Selection
	for i, a := range media {
		switch {
		case i == best:
			continue
		case a.Broken():
			sel.Discard = append(sel.Discard, Discard{Artifact: a, Reason: DiscardBroken})
		default:
			sel.Discard = append(sel.Discard, Discard{Artifact: a, Reason: DiscardDuplicate})
		}
	}

	if best < 0 {
		sel.FullyBroken = true
		return sel
	}

	canonical := media[best]
	g.Canonical = &canonical
	sel.Canonical = &canonical
	return sel
}
