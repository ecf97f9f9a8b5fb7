package service

import "errors"

var (
	// ErrNotConfigured distinguishes "the archive store is not wired up"
	// from a transient I/O failure.
	ErrNotConfigured = errors.New("archive storage is not configured")

	// ErrInvalidArchiveURL is returned when a key cannot be parsed out of
	// an archive URL. Distinct from ErrArchiveNotFound.
	ErrInvalidArchiveURL = errors.New("invalid archive URL")

	// ErrArchiveNotFound is returned when the parsed key has no object
	// behind it.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrWorkflowNotFound is returned by the state store for unknown
	// (user, document) pairs.
	ErrWorkflowNotFound = errors.New("workflow not found")
)
