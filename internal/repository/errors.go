package repository

import "errors"

// ErrObjectNotFound is returned by ObjectStorage implementations when a key
// has no object behind it.
var ErrObjectNotFound = errors.New("object not found")

// ErrStateNotFound is returned by WorkflowStateStore implementations for
// unknown (user, document) pairs.
var ErrStateNotFound = errors.New("workflow state not found")
