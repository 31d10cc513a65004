package match

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThreshold indicates a threshold outside its scale.
var ErrInvalidThreshold = errors.New("invalid threshold")

// Default thresholds, used for every value a series does not override.
const (
	DefaultExact       Ratio  = 1.0
	DefaultTokenSet    Ratio  = 0 // disabled
	DefaultSubsequence Ratio  = 0.80
	DefaultWeighted    Points = 15
)

// Thresholds gate acceptance in each pass. A zero TokenSet disables pass 2.
type Thresholds struct {
	// Exact is kept for configuration symmetry. Pass 1 scores only 0 or 1,
	// so every valid value accepts exactly the normalized-identical titles.
	Exact       Ratio
	TokenSet    Ratio
	Subsequence Ratio
	Weighted    Points
}

// DefaultThresholds returns the global defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Exact:       DefaultExact,
		TokenSet:    DefaultTokenSet,
		Subsequence: DefaultSubsequence,
		Weighted:    DefaultWeighted,
	}
}

// Validate checks each threshold against its scale.
func (t Thresholds) Validate() error {
	var errs []error
	if !inRatio(float64(t.Exact)) || t.Exact == 0 {
		errs = append(errs, fmt.Errorf("%w: exact must be in (0, 1], got %v", ErrInvalidThreshold, t.Exact))
	}
	if !inRatio(float64(t.TokenSet)) {
		errs = append(errs, fmt.Errorf("%w: token_set must be in [0, 1], got %v", ErrInvalidThreshold, t.TokenSet))
	}
	if !inRatio(float64(t.Subsequence)) || t.Subsequence == 0 {
		errs = append(errs, fmt.Errorf("%w: subsequence must be in (0, 1], got %v", ErrInvalidThreshold, t.Subsequence))
	}
	if math.IsNaN(float64(t.Weighted)) || math.IsInf(float64(t.Weighted), 0) || t.Weighted <= 0 {
		errs = append(errs, fmt.Errorf("%w: weighted must be a positive number, got %v", ErrInvalidThreshold, t.Weighted))
	}
	return errors.Join(errs...)
}

func inRatio(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// enabled reports whether the pass can accept anything.
func (t Thresholds) enabled(p Pass) bool {
	return p != PassTokenSet || t.TokenSet > 0
}

// accepts reports whether s clears the threshold for pass p.
func (t Thresholds) accepts(p Pass, s Score) bool {
	switch p {
	case PassExact:
		r, ok := s.Ratio()
		return ok && r > 0 && r >= t.Exact
	case PassTokenSet:
		r, ok := s.Ratio()
		return ok && t.TokenSet > 0 && r >= t.TokenSet
	case PassSubsequence:
		r, ok := s.Ratio()
		return ok && r >= t.Subsequence
	case PassWeighted:
		pts, ok := s.Points()
		return ok && pts >= t.Weighted
	}
	return false
}
