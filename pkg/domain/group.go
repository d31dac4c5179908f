package domain

// Group is a mutable, order-preserving, duplicate-free collection of nodes
// used as a batch target for uniform updates. It doubles as a node's owning
// child list.
type Group struct {
	members []*Node
	present map[NodeID]struct{}
}

// NewGroup builds a group from any mixture of nodes, slices and keyed maps.
// Non-node members are silently ignored; permissiveness here is intentional
// so callers can pass heterogeneous collections straight through.
func NewGroup(items ...any) *Group {
	g := &Group{present: make(map[NodeID]struct{})}
	for _, it := range items {
		g.absorb(it)
	}
	return g
}

func (g *Group) absorb(item any) {
	switch v := item.(type) {
	case *Node:
		g.Add(v)
	case []*Node:
		for _, n := range v {
			g.Add(n)
		}
	case []any:
		for _, it := range v {
			g.absorb(it)
		}
	case map[string]*Node:
		for _, n := range v {
			g.Add(n)
		}
	case map[string]any:
		for _, it := range v {
			g.absorb(it)
		}
	case *Group:
		for _, n := range v.members {
			g.Add(n)
		}
	}
}

// Add appends a node if absent. Idempotent.
func (g *Group) Add(n *Node) {
	if n == nil {
		return
	}
	if _, dup := g.present[n.id]; dup {
		return
	}
	g.present[n.id] = struct{}{}
	g.members = append(g.members, n)
}

// Remove drops a node if present. Idempotent.
func (g *Group) Remove(n *Node) {
	if n == nil {
		return
	}
	if _, ok := g.present[n.id]; !ok {
		return
	}
	delete(g.present, n.id)
	for i, m := range g.members {
		if m == n {
			g.members = append(g.members[:i], g.members[i+1:]...)
			break
		}
	}
}

// Contains reports membership.
func (g *Group) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	_, ok := g.present[n.id]
	return ok
}

// Clear empties the group without touching the nodes.
func (g *Group) Clear() {
	g.members = nil
	g.present = make(map[NodeID]struct{})
}

// Len reports the member count.
func (g *Group) Len() int { return len(g.members) }

// Nodes returns a snapshot of the members in insertion order. Mutating the
// group afterwards does not affect the snapshot.
func (g *Group) Nodes() []*Node {
	return append([]*Node(nil), g.members...)
}

// Apply broadcasts one update to every member, stopping at the first error.
func (g *Group) Apply(up Update) error {
	for _, n := range g.Nodes() {
		if err := n.Apply(up); err != nil {
			return err
		}
	}
	return nil
}

// Destroy destroys a snapshot of the current members. The snapshot matters:
// destroying a member removes it from its parent's child group, which may be
// this very group, so iterating live state would skip members.
func (g *Group) Destroy() error {
	for _, n := range g.Nodes() {
		if n.Destroyed() {
			continue
		}
		if err := n.Destroy(); err != nil {
			return err
		}
	}
	return nil
}
