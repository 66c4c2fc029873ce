package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidPost is returned when a post fails validation
	ErrInvalidPost = errors.New("invalid post")

	// ErrInvalidMetrics is returned when dividend metrics cannot be graded
	ErrInvalidMetrics = errors.New("invalid dividend metrics")
)
