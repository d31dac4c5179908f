// Package ports defines the interfaces between the scene mirroring core and
// its external collaborators: the rendering back-end, frame persistence, the
// mutator/renderer message channel and the mutator program contract.
//
// Adapters implement these; the core depends only on the interfaces.
package ports
