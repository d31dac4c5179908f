// Package domain holds the core scene graph model: nodes with inheritable
// properties and display states, registries that own them, the command and
// frame types that mirror mutations across the mutator/renderer boundary, and
// the geometry adapter for shape-driven updates.
//
// Everything here is deliberately transport-free. Commands reference nodes by
// id only; wiring them to a channel, a store or a renderer is adapter work.
package domain
