// Package match scores a recording's descriptor subtitle against provider
// episode titles in four escalating passes.
package match

import (
	"fmt"
	"strconv"
)

// Ratio is a similarity on the 0..1 scale used by passes 1 to 3.
type Ratio float64

// Points is the unbounded weighted-overlap scale used by pass 4.
// Points and Ratio are different units and never compared with each other.
type Points float64

// ScoreKind identifies which scale a Score is on.
type ScoreKind int

const (
	KindRatio ScoreKind = iota + 1
	KindPoints
)

func (k ScoreKind) String() string {
	switch k {
	case KindRatio:
		return "ratio"
	case KindPoints:
		return "points"
	default:
		return "unknown"
	}
}

// Score is a pass result on exactly one scale.
type Score struct {
	kind  ScoreKind
	value float64
}

// RatioScore wraps a ratio.
func RatioScore(r Ratio) Score { return Score{kind: KindRatio, value: float64(r)} }

// PointsScore wraps a point total.
func PointsScore(p Points) Score { return Score{kind: KindPoints, value: float64(p)} }

// Kind returns the scale of the score.
func (s Score) Kind() ScoreKind { return s.kind }

// Ratio returns the value if the score is a ratio.
func (s Score) Ratio() (Ratio, bool) {
	return Ratio(s.value), s.kind == KindRatio
}

// Points returns the value if the score is a point total.
func (s Score) Points() (Points, bool) {
	return Points(s.value), s.kind == KindPoints
}

// Value returns the raw number for reporting. It carries no unit.
func (s Score) Value() float64 { return s.value }

// Less orders two scores of the same kind. It panics when the kinds differ.
func (s Score) Less(o Score) bool {
	if s.kind != o.kind {
		panic(fmt.Sprintf("match: comparing %s score with %s score", s.kind, o.kind))
	}
	return s.value < o.value
}

func (s Score) String() string {
	v := strconv.FormatFloat(s.value, 'f', 3, 64)
	if s.kind == KindPoints {
		return v + "pts"
	}
	return v
}
