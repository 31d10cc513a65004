package match

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/vmunix/tvrecon/pkg/title"
)

// MatchResult is one accepted candidate.
type MatchResult struct {
	Candidate Candidate
	Pass      Pass
	Score     Score
}

// Result is the outcome of matching one subtitle. Winner is Accepted[0].
type Result struct {
	Winner   MatchResult
	Accepted []MatchResult
}

// Matcher runs the pass pipeline with one set of thresholds.
type Matcher struct {
	thresholds Thresholds
	log        *slog.Logger
}

// NewMatcher creates a matcher. A nil logger discards output.
func NewMatcher(t Thresholds, log *slog.Logger) *Matcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Matcher{thresholds: t, log: log}
}

// Thresholds returns the thresholds the matcher was built with.
func (m *Matcher) Thresholds() Thresholds { return m.thresholds }

// Match runs the passes in order and stops at the first pass that accepts at
// least one candidate. A later pass is never consulted once an earlier one
// has accepted. The bool is false when no pass accepts anything.
func (m *Matcher) Match(subtitle string, candidates []Candidate) (Result, bool) {
	q := newQuery(subtitle, candidates)
	for _, p := range Passes {
		if accepted := m.runPass(p, q, candidates); len(accepted) > 0 {
			return Result{Winner: accepted[0], Accepted: accepted}, true
		}
	}
	m.log.Debug("no pass accepted a candidate", "subtitle", subtitle, "candidates", len(candidates))
	return Result{}, false
}

// RunPass returns the candidates accepted by a single pass, best first:
// highest score, then lowest priority, then input order.
func (m *Matcher) RunPass(p Pass, subtitle string, candidates []Candidate) []MatchResult {
	return m.runPass(p, newQuery(subtitle, candidates), candidates)
}

func (m *Matcher) runPass(p Pass, q query, candidates []Candidate) []MatchResult {
	if !m.thresholds.enabled(p) || q.normalized == "" {
		return nil
	}

	var accepted []MatchResult
	for i, c := range candidates {
		score, ok := q.score(p, i, c)
		if !ok || !m.thresholds.accepts(p, score) {
			continue
		}
		accepted = append(accepted, MatchResult{Candidate: c, Pass: p, Score: score})
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if b.Score.Less(a.Score) {
			return true
		}
		if a.Score.Less(b.Score) {
			return false
		}
		return a.Candidate.Priority < b.Candidate.Priority
	})

	for _, r := range accepted {
		m.log.Debug("candidate accepted",
			"pass", p.String(),
			"subtitle", q.normalized,
			"provider", r.Candidate.Provider,
			"episode", r.Candidate.Key().String(),
			"candidate", r.Candidate.NormalizedTitle,
			"score", r.Score.String(),
		)
	}
	return accepted
}

// Breakdown reports every pass score for one candidate, for diagnostics.
type Breakdown struct {
	Candidate Candidate
	Scores    map[Pass]Score
	Accepted  map[Pass]bool
}

// Explain scores every candidate under every pass without stopping early.
func (m *Matcher) Explain(subtitle string, candidates []Candidate) []Breakdown {
	q := newQuery(subtitle, candidates)
	out := make([]Breakdown, 0, len(candidates))
	for i, c := range candidates {
		b := Breakdown{Candidate: c, Scores: make(map[Pass]Score), Accepted: make(map[Pass]bool)}
		for _, p := range Passes {
			score, ok := q.score(p, i, c)
			b.Scores[p] = score
			b.Accepted[p] = ok && q.normalized != "" && m.thresholds.enabled(p) && m.thresholds.accepts(p, score)
		}
		out = append(out, b)
	}
	return out
}

// query holds the per-subtitle state shared by all passes.
type query struct {
	normalized string
	tokens     []string
	candidates [][]string
	rarity     rarity
}

func newQuery(subtitle string, candidates []Candidate) query {
	q := query{candidates: make([][]string, len(candidates))}
	q.normalized = title.Normalize(subtitle)
	q.tokens = strings.Fields(q.normalized)
	for i, c := range candidates {
		q.candidates[i] = strings.Fields(c.normalized())
	}
	q.rarity = newRarity(q.candidates)
	return q
}

// score computes pass p for candidate i. ok is false when the pass cannot
// apply to this pair at all.
func (q query) score(p Pass, i int, c Candidate) (Score, bool) {
	norm := c.normalized()
	switch p {
	case PassExact:
		return RatioScore(exactRatio(q.normalized, norm)), norm != ""
	case PassTokenSet:
		return RatioScore(tokenSetRatio(q.tokens, q.candidates[i])), norm != ""
	case PassSubsequence:
		r, ok := subsequenceRatio(q.tokens, q.candidates[i])
		return RatioScore(r), ok
	case PassWeighted:
		return PointsScore(q.rarity.weightedPoints(q.tokens, q.candidates[i])), norm != ""
	}
	return Score{}, false
}
