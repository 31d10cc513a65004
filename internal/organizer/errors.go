package organizer

import "errors"

var (
	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrPathTraversal indicates a destination would escape the library root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrMoveFailed indicates a rename or copy did not complete.
	ErrMoveFailed = errors.New("failed to move file")

	// ErrLocked indicates another organize run holds the lock.
	ErrLocked = errors.New("organizer locked by another run")
)
