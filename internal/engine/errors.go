package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOrphanGroup indicates artifacts without a descriptor.
	ErrOrphanGroup = errors.New("orphan group")

	// ErrUnmatchedDescriptor indicates no provider candidate cleared any pass.
	ErrUnmatchedDescriptor = errors.New("unmatched descriptor")

	// ErrFullyBrokenGroup indicates every media artifact of a group is broken.
	ErrFullyBrokenGroup = errors.New("fully broken group")

	// ErrMissingMedia indicates a descriptor with no media artifact at all.
	ErrMissingMedia = errors.New("missing media")

	// ErrConfiguration indicates unusable per-series configuration.
	ErrConfiguration = errors.New("configuration error")
)

// OrphanGroupError reports artifacts that share a stem but have no
// descriptor. Non-fatal.
type OrphanGroupError struct {
	Series string
	Stem   string
	Paths  []string
}

func (e *OrphanGroupError) Error() string {
	return fmt.Sprintf("%s: orphan group %s: %s", e.Series, e.Stem, strings.Join(e.Paths, ", "))
}

func (e *OrphanGroupError) Unwrap() error { return ErrOrphanGroup }

// UnmatchedDescriptorWarning reports a descriptor no pass accepted. The
// record is still emitted, with an empty provider list.
type UnmatchedDescriptorWarning struct {
	Series   string
	Subtitle string
}

func (e *UnmatchedDescriptorWarning) Error() string {
	return fmt.Sprintf("%s: unmatched descriptor %q", e.Series, e.Subtitle)
}

func (e *UnmatchedDescriptorWarning) Unwrap() error { return ErrUnmatchedDescriptor }

// FullyBrokenGroupWarning reports a group with no unbroken media. The record
// is still emitted without a canonical file.
type FullyBrokenGroupWarning struct {
	Series   string
	Subtitle string
	Paths    []string
}

func (e *FullyBrokenGroupWarning) Error() string {
	return fmt.Sprintf("%s: every recording of %q is broken: %s", e.Series, e.Subtitle, strings.Join(e.Paths, ", "))
}

func (e *FullyBrokenGroupWarning) Unwrap() error { return ErrFullyBrokenGroup }

// MissingMediaWarning reports a descriptor whose stems carry no media file.
type MissingMediaWarning struct {
	Series   string
	Subtitle string
}

func (e *MissingMediaWarning) Error() string {
	return fmt.Sprintf("%s: no media for %q", e.Series, e.Subtitle)
}

func (e *MissingMediaWarning) Unwrap() error { return ErrMissingMedia }

// ConfigurationError aborts one series.
type ConfigurationError struct {
	Series string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Series, e.Err)
}

// Unwrap exposes both ErrConfiguration and the underlying cause.
func (e *ConfigurationError) Unwrap() []error { return []error{ErrConfiguration, e.Err} }
