// Package watch answers whether a recording has already been watched,
// using history exported from a media center.
package watch

//go:generate mockgen -destination=mocks/lookup.go -package=mocks . Lookup

import (
	"path/filepath"
	"strings"
)

// Lookup reports watched status by full path or by addon-style name
// (Series.Name.SxxEyy.Episode.Title).
type Lookup interface {
	Watched(path, addonName string) bool
}

// Set is an in-memory Lookup. The zero value is empty and ready to use.
type Set struct {
	paths map[string]bool
	names map[string]bool
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{paths: make(map[string]bool), names: make(map[string]bool)}
}

// Add marks path and addonName as watched. Either may be empty.
func (s *Set) Add(path, addonName string) {
	if s.paths == nil {
		s.paths = make(map[string]bool)
		s.names = make(map[string]bool)
	}
	if p := normalizePath(path); p != "" {
		s.paths[p] = true
	}
	if n := normalizeName(addonName); n != "" {
		s.names[n] = true
	}
}

// Watched implements Lookup.
func (s *Set) Watched(path, addonName string) bool {
	if p := normalizePath(path); p != "" && s.paths[p] {
		return true
	}
	if n := normalizeName(addonName); n != "" && s.names[n] {
		return true
	}
	return false
}

// Len returns the number of watched paths.
func (s *Set) Len() int { return len(s.paths) }

// Merge adds every entry of o to s.
func (s *Set) Merge(o *Set) {
	for p := range o.paths {
		s.Add(p, "")
	}
	for n := range o.names {
		s.Add("", n)
	}
}

func normalizePath(p string) string {
	return strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
}

// videoExts are stripped from addon names so "X.S01E01.Title.ts" and
// "X.S01E01.Title" compare equal.
var videoExts = map[string]bool{".ts": true, ".mkv": true, ".mp4": true, ".avi": true, ".strm": true}

func normalizeName(n string) string {
	n = strings.TrimSpace(n)
	if ext := filepath.Ext(n); videoExts[strings.ToLower(ext)] {
		n = strings.TrimSuffix(n, ext)
	}
	return strings.ToLower(n)
}
