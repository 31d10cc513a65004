package match

// Outcome is the pool's decision for one subtitle.
type Outcome struct {
	Subtitle string
	Result   Result
	Matched  bool
}

// Pool matches every descriptor subtitle of a series against the series'
// candidates. Subtitles go through the passes pass by pass: all of them try
// pass 1, the remainder try pass 2, and so on. An episode won in pass 1 or 2
// is claimed and offered to no later subtitle.
type Pool struct {
	matcher    *Matcher
	candidates []Candidate
	claimed    map[EpisodeKey]bool
}

// NewPool creates a pool over the given candidates.
func NewPool(m *Matcher, candidates []Candidate) *Pool {
	return &Pool{
		matcher:    m,
		candidates: candidates,
		claimed:    make(map[EpisodeKey]bool),
	}
}

// claimingPass reports whether a win in p removes the episode from the pool.
func claimingPass(p Pass) bool {
	return p == PassExact || p == PassTokenSet
}

// MatchAll returns one outcome per subtitle, in input order.
func (p *Pool) MatchAll(subtitles []string) []Outcome {
	out := make([]Outcome, len(subtitles))
	for i, s := range subtitles {
		out[i].Subtitle = s
	}

	for _, pass := range Passes {
		for i := range out {
			if out[i].Matched {
				continue
			}
			accepted := p.matcher.RunPass(pass, out[i].Subtitle, p.available())
			if len(accepted) == 0 {
				continue
			}
			out[i].Result = Result{Winner: accepted[0], Accepted: accepted}
			out[i].Matched = true
			if claimingPass(pass) {
				p.claimed[accepted[0].Candidate.Key()] = true
			}
		}
	}
	return out
}

// Claimed reports whether key was taken by an exact or token-set match.
func (p *Pool) Claimed(key EpisodeKey) bool { return p.claimed[key] }

func (p *Pool) available() []Candidate {
	if len(p.claimed) == 0 {
		return p.candidates
	}
	out := make([]Candidate, 0, len(p.candidates))
	for _, c := range p.candidates {
		if !p.claimed[c.Key()] {
			out = append(out, c)
		}
	}
	return out
}
