package domain

import "errors"

// ErrDestroyed is returned when any operation (including a second Destroy)
// targets a node whose Destroy has already completed.
var ErrDestroyed = errors.New("node already destroyed")

// ErrUnknownNode is returned when a command or lookup references an id that
// is not live in the registry. For a destroy command this indicates a
// mutator/renderer desync and aborts the run.
var ErrUnknownNode = errors.New("unknown node id")

// ErrUnknownState is returned when an update applies a display state that was
// never registered on the node.
var ErrUnknownState = errors.New("unregistered display state")

// ErrUnknownShape is returned when a shape source matches none of the
// supported shape predicates.
var ErrUnknownShape = errors.New("unrecognized shape")

// ErrHistoryMode is returned on history mode re-entry or on exit without a
// prior entry. History mode is non-reentrant.
var ErrHistoryMode = errors.New("history mode mismatch")

// ErrDesync is returned by surface validation when the node registry and the
// rendering back-end handles are no longer a bijection.
var ErrDesync = errors.New("registry/handle desync")

// ErrInvalidUpdate is returned when an update request fails validation before
// dispatch.
var ErrInvalidUpdate = errors.New("invalid update request")

// ErrRootExists is returned when a second unparented root is introduced into
// a registry that already has one.
var ErrRootExists = errors.New("registry already has a root")

// ErrRunNotFound is returned when a frame store lookup references a run id
// with no recording.
var ErrRunNotFound = errors.New("run not found")
