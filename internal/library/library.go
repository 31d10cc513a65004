// Package library persists the episode records of each run, manual
// assignments, and the scan run log.
package library

import (
	"time"
)

// RecordFilter specifies criteria for listing records.
type RecordFilter struct {
	Series  *string
	Season  *int
	Matched *bool
	Watched *bool
	Limit   int // 0 = no limit
	Offset  int
}

// Assignment is a manual match of a descriptor subtitle to an episode.
// Assignments outlive the records they were made against.
type Assignment struct {
	Series      string
	SubtitleKey string
	Season      int
	Episode     int
	Title       string
	CreatedAt   time.Time
}

// Run summarizes one scan invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Series     int
	Failed     int
	Warnings   int
}
