package match

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Pass identifies a matching stage. Passes run in increasing order.
type Pass int

const (
	PassExact Pass = iota + 1
	PassTokenSet
	PassSubsequence
	PassWeighted
)

// Passes lists every pass in run order.
var Passes = []Pass{PassExact, PassTokenSet, PassSubsequence, PassWeighted}

func (p Pass) String() string {
	switch p {
	case PassExact:
		return "exact"
	case PassTokenSet:
		return "token_set"
	case PassSubsequence:
		return "subsequence"
	case PassWeighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// exactRatio is 1 when both normalized titles are identical and non-empty.
func exactRatio(a, b string) Ratio {
	if a == "" || a != b {
		return 0
	}
	return 1
}

// tokenSetRatio is the Jaccard index of the two token sets.
func tokenSetRatio(a, b []string) Ratio {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := toSet(a)
	setB := toSet(b)

	shared := 0
	for tok := range setA {
		if setB[tok] {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return Ratio(float64(shared) / float64(union))
}

// subsequenceRatio returns len(shorter)/len(longer) when the shorter token
// list appears in order inside the longer one, else 0. The second result
// reports whether the subsequence condition held.
func subsequenceRatio(a, b []string) (Ratio, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}

	enc := newTokenEncoder()
	lcs := edlib.LCS(enc.encode(short), enc.encode(long))
	if lcs != len(short) {
		return 0, false
	}
	return Ratio(float64(len(short)) / float64(len(long))), true
}

// tokenEncoder maps each distinct token to a private-use rune so token
// sequences can be handed to rune-based edit-distance routines.
type tokenEncoder struct {
	runes map[string]rune
	next  rune
}

func newTokenEncoder() *tokenEncoder {
	return &tokenEncoder{runes: make(map[string]rune), next: 0xE000}
}

func (e *tokenEncoder) encode(tokens []string) string {
	var b strings.Builder
	for _, tok := range tokens {
		r, ok := e.runes[tok]
		if !ok {
			r = e.next
			e.runes[tok] = r
			e.next++
		}
		b.WriteRune(r)
	}
	return b.String()
}

// rarity holds document frequencies over the candidate titles of one match.
type rarity struct {
	df map[string]int
	n  int
}

func newRarity(titles [][]string) rarity {
	r := rarity{df: make(map[string]int), n: len(titles)}
	for _, toks := range titles {
		for tok := range toSet(toks) {
			r.df[tok]++
		}
	}
	return r
}

// weight favours long tokens that few candidates share.
func (r rarity) weight(tok string) float64 {
	df := r.df[tok]
	if df == 0 || r.n == 0 {
		df = 1
	}
	n := max(r.n, df)
	return float64(utf8.RuneCountInString(tok)) * (1 + math.Log(float64(n)/float64(df)))
}

// weightedPoints sums the weight of every token the two titles share.
func (r rarity) weightedPoints(a, b []string) Points {
	setB := toSet(b)
	var shared []string
	for tok := range toSet(a) {
		if setB[tok] {
			shared = append(shared, tok)
		}
	}
	sort.Strings(shared) // fixed summation order keeps ties stable

	var total float64
	for _, tok := range shared {
		total += r.weight(tok)
	}
	return Points(total)
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
