// Package schema is the wire format of the mutator/renderer channel and of
// persisted recordings: JSON envelopes, payload normalization and structural
// validation.
//
// Decoding is where dynamic wire data becomes typed: node kind tags are
// resolved against the closed domain.Kind set once here, parent references
// become domain.NodeID, and malformed envelopes are rejected before any
// command touches a registry.
package schema
