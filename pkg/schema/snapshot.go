package schema

import (
	"sort"

	"github.com/algomation/marionette/pkg/domain"
)

// NodeSnapshot is the externally visible view of one live node: identity plus
// the fully resolved (inherited) property bag.
type NodeSnapshot struct {
	ID     domain.NodeID `json:"id"`
	Kind   domain.Kind   `json:"kind"`
	Parent domain.NodeID `json:"parent,omitempty"`
	Props  domain.Props  `json:"props,omitempty"`
}

// Snapshot flattens a registry into id order, for seek responses and
// introspection. It is a copy; mutating it does not touch the scene.
func Snapshot(r *domain.Registry) []NodeSnapshot {
	out := make([]NodeSnapshot, 0, r.Len())
	r.Each(func(n *domain.Node) {
		s := NodeSnapshot{
			ID:    n.ID(),
			Kind:  n.Kind(),
			Props: n.ResolvedProps(),
		}
		if p := n.Parent(); p != nil {
			s.Parent = p.ID()
		}
		out = append(out, s)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
