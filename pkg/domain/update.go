package domain

import "fmt"

// Update is a structured mutation request. It replaces a flat property bag
// with reserved magic keys: each effect has its own field and is validated
// before dispatch.
//
// Application order: DefineStates (not a change) → ReparentTo (one change) →
// ApplyShape (concrete writes) → ApplyStates (writes, or Seq writes when more
// than one state is named) → Props (plain writes). A plain write only counts
// as a change when the value differs from the current one; an update that
// changes nothing records no command.
type Update struct {
	// Props holds plain property writes.
	Props Props

	// ReparentTo detaches the node from its current parent (if any) and
	// attaches it to the given node.
	ReparentTo *Node

	// ApplyStates applies one or more registered display states. A single
	// name applies its property subset directly. N names expand each
	// property into a Seq of N values, so each named state contributes one
	// tick of the resulting animation.
	ApplyStates []string

	// DefineStates registers additional named states on the node. Later
	// registrations for the same name overwrite the property subset.
	// Registration alone is not a change.
	DefineStates map[string]Props

	// ApplyShape delegates to the geometry adapter, which writes concrete
	// properties derived from any point/line/rect/circle-like value.
	ApplyShape any

	// Depth recurses the update (Props and ApplyStates only) into children:
	// each child receives the same writes with Depth-1. Zero applies to the
	// node itself only.
	Depth int
}

// Validate rejects malformed requests before any part of them is applied.
func (u Update) Validate() error {
	if u.Depth < 0 {
		return fmt.Errorf("%w: negative depth %d", ErrInvalidUpdate, u.Depth)
	}
	for _, name := range u.ApplyStates {
		if name == "" {
			return fmt.Errorf("%w: empty state name", ErrInvalidUpdate)
		}
	}
	for name := range u.DefineStates {
		if name == "" {
			return fmt.Errorf("%w: empty state definition name", ErrInvalidUpdate)
		}
	}
	if _, clash := u.Props["parent"]; clash {
		return fmt.Errorf("%w: \"parent\" is not a plain property, use ReparentTo", ErrInvalidUpdate)
	}
	return nil
}

// child returns the update propagated to children when Depth > 0.
// Structural effects (reparent, shape, state definitions) stay on the node
// the update was addressed to.
func (u Update) child() Update {
	return Update{
		Props:       u.Props,
		ApplyStates: u.ApplyStates,
		Depth:       u.Depth - 1,
	}
}
