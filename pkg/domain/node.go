package domain

import "fmt"

// NodeID is a registry-unique, monotonically increasing identifier. Ids are
// what crosses the mutator/renderer boundary; live *Node pointers never do.
type NodeID int64

// Recorder receives node mutations as they happen. The mutator side wires a
// command log here; the renderer side leaves it nil so that applying received
// commands does not echo new ones.
type Recorder interface {
	RecordUpdate(n *Node, payload Props)
	RecordDestroy(n *Node)
}

// Registry owns the id counter and the id→node map for one side of the
// mirror. It is an explicit object: constructing a second Registry is how
// history mode gets a scratch scene without global state swaps.
type Registry struct {
	nextID NodeID
	nodes  map[NodeID]*Node
	root   *Node
	rec    Recorder
}

// NewRegistry creates an empty registry. Ids start at 1.
func NewRegistry() *Registry {
	return &Registry{
		nextID: 1,
		nodes:  make(map[NodeID]*Node),
	}
}

// SetRecorder wires the mutation recorder. Pass nil to detach.
func (r *Registry) SetRecorder(rec Recorder) { r.rec = rec }

// Reset clears the id counter and the node map. Used at the start of a run
// and when the history player rebuilds from frame zero. Nodes still held by
// callers are orphaned, not destroyed: no commands are recorded.
func (r *Registry) Reset() {
	r.nextID = 1
	r.nodes = make(map[NodeID]*Node)
	r.root = nil
}

// Lookup returns the live node for id.
func (r *Registry) Lookup(id NodeID) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Root returns the current unparented root, or nil before one exists.
func (r *Registry) Root() *Node { return r.root }

// Len reports the number of live nodes.
func (r *Registry) Len() int { return len(r.nodes) }

// Each visits every live node in unspecified order.
func (r *Registry) Each(fn func(*Node)) {
	for _, n := range r.nodes {
		fn(n)
	}
}

// NewRoot constructs the registry's root node. At most one unparented root
// may exist per registry.
func (r *Registry) NewRoot(kind Kind, up Update) (*Node, error) {
	if r.root != nil {
		return nil, ErrRootExists
	}
	return r.construct(kind, up, nil, true)
}

// NewNode constructs a node and attaches it. With Update.ReparentTo unset the
// node auto-attaches to the current root; if no root exists yet, the node
// becomes the root.
func (r *Registry) NewNode(kind Kind, up Update) (*Node, error) {
	return r.construct(kind, up, up.ReparentTo, false)
}

// Materialize constructs a node with a caller-chosen id. The renderer surface
// uses it to mirror a node created on the mutator side; the id counter is
// bumped past id so later local constructions cannot collide.
func (r *Registry) Materialize(id NodeID, kind Kind, up Update) (*Node, error) {
	if _, dup := r.nodes[id]; dup {
		return nil, fmt.Errorf("materialize %d: id already live", id)
	}
	if id >= r.nextID {
		r.nextID = id + 1
	}
	n := r.newShell(id, kind)
	return r.finishConstruct(n, up, up.ReparentTo, up.ReparentTo == nil && r.root == nil)
}

func (r *Registry) construct(kind Kind, up Update, parent *Node, isRoot bool) (*Node, error) {
	id := r.nextID
	r.nextID++
	n := r.newShell(id, kind)
	return r.finishConstruct(n, up, parent, isRoot)
}

func (r *Registry) newShell(id NodeID, kind Kind) *Node {
	return &Node{
		id:       id,
		kind:     kind,
		reg:      r,
		props:    make(Props),
		states:   builtinStates(kind),
		children: NewGroup(),
	}
}

func (r *Registry) finishConstruct(n *Node, up Update, parent *Node, isRoot bool) (*Node, error) {
	if err := up.Validate(); err != nil {
		return nil, err
	}
	r.nodes[n.id] = n

	switch {
	case isRoot:
		r.root = n
	case parent != nil:
		parent.children.Add(n)
		n.parent = parent
	case r.root != nil:
		r.root.children.Add(n)
		n.parent = r.root
	default:
		// First node of the registry with no explicit parent: it is the root.
		r.root = n
	}

	// Apply initial properties without recording; construction emits one
	// command carrying the collected writes below. The collected payload,
	// not the retained props, is what preserves sequence values: retained
	// props only ever hold a sequence's end state.
	up.ReparentTo = nil
	payload, err := n.apply(up, false)
	if err != nil {
		delete(r.nodes, n.id)
		if n.parent != nil {
			n.parent.children.Remove(n)
			n.parent = nil
		}
		if r.root == n {
			r.root = nil
		}
		return nil, err
	}

	if r.rec != nil {
		if payload == nil {
			payload = make(Props)
		}
		if n.parent != nil {
			payload["parent"] = n.parent.id
		}
		r.rec.RecordUpdate(n, payload)
	}
	return n, nil
}

// Node is a retained-mode scene graph element: identity, property bag,
// parent/child links and a named display-state table. Ownership runs parent →
// child; the parent back-reference is only for inherited property resolution
// and detach.
type Node struct {
	id        NodeID
	kind      Kind
	reg       *Registry
	parent    *Node
	children  *Group
	props     Props
	states    map[string]Props
	destroyed bool
}

func (n *Node) ID() NodeID       { return n.id }
func (n *Node) Kind() Kind       { return n.kind }
func (n *Node) Parent() *Node    { return n.parent }
func (n *Node) Children() *Group { return n.children }
func (n *Node) Destroyed() bool  { return n.destroyed }

// OwnValue resolves a property on this node only, never consulting ancestors.
func (n *Node) OwnValue(key string, def any) any {
	if v, ok := n.props[key]; ok {
		return v
	}
	return def
}

// InheritedValue walks from the node up its ancestor chain and returns the
// value of the first ancestor (inclusive) that explicitly set key, else def.
// A miss is not an error.
func (n *Node) InheritedValue(key string, def any) any {
	for cur := n; cur != nil; cur = cur.parent {
		if v, ok := cur.props[key]; ok {
			return v
		}
	}
	return def
}

// ResolvedProps flattens the inherited view of the node: every key set on the
// node or any ancestor, nearest setter winning.
func (n *Node) ResolvedProps() Props {
	out := make(Props)
	for cur := n; cur != nil; cur = cur.parent {
		for k, v := range cur.props {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}
	return out
}

// Apply performs a validated update. If anything changed, one coalesced
// payload is handed to the registry's recorder; a no-op update records
// nothing.
func (n *Node) Apply(up Update) error {
	if err := up.Validate(); err != nil {
		return err
	}
	_, err := n.apply(up, true)
	return err
}

// subtreeContains reports whether other is n or one of n's descendants,
// walking other's parent chain.
func (n *Node) subtreeContains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Set is shorthand for Apply with plain property writes only.
func (n *Node) Set(props Props) error {
	return n.Apply(Update{Props: props})
}

// SetState is shorthand for Apply with display states only. Multiple names
// animate: each name contributes one tick per property.
func (n *Node) SetState(names ...string) error {
	return n.Apply(Update{ApplyStates: names})
}

func (n *Node) apply(up Update, record bool) (Props, error) {
	if n.destroyed {
		return nil, fmt.Errorf("apply to node %d: %w", n.id, ErrDestroyed)
	}

	payload := make(Props)

	for name, subset := range up.DefineStates {
		n.states[name] = CloneProps(subset)
	}

	if up.ReparentTo != nil && up.ReparentTo != n.parent {
		if n.subtreeContains(up.ReparentTo) {
			return nil, fmt.Errorf("reparent node %d under its own subtree: %w", n.id, ErrInvalidUpdate)
		}
		if n.parent != nil {
			n.parent.children.Remove(n)
		}
		if n.reg.root == n {
			n.reg.root = nil
		}
		up.ReparentTo.children.Add(n)
		n.parent = up.ReparentTo
		payload["parent"] = n.parent.id
	}

	if up.ApplyShape != nil {
		writes, err := shapeProps(up.ApplyShape)
		if err != nil {
			return nil, err
		}
		// Shape application always counts as a change.
		for k, v := range writes {
			n.props[k] = v
			payload[k] = v
		}
	}

	if len(up.ApplyStates) > 0 {
		writes, err := n.stateProps(up.ApplyStates)
		if err != nil {
			return nil, err
		}
		n.writeProps(writes, payload)
	}

	n.writeProps(up.Props, payload)

	if len(payload) > 0 && record && n.reg.rec != nil {
		n.reg.rec.RecordUpdate(n, payload)
	}

	if up.Depth > 0 {
		for _, c := range n.children.Nodes() {
			if _, err := c.apply(up.child(), record); err != nil {
				return payload, err
			}
		}
	}
	return payload, nil
}

// writeProps applies plain writes, collecting actual changes into payload.
// Seq values always count as a change: even a sequence ending on the current
// value must tick through its intermediate elements.
func (n *Node) writeProps(writes, payload Props) {
	for k, v := range writes {
		if seq, isSeq := v.(Seq); isSeq {
			if len(seq) == 0 {
				continue
			}
			// The node's retained value is the sequence's end state.
			n.props[k] = seq[len(seq)-1]
			payload[k] = append(Seq(nil), seq...)
			continue
		}
		if valuesEqual(n.props[k], v) {
			continue
		}
		n.props[k] = v
		payload[k] = v
	}
}

// stateProps expands named states into concrete writes. One name yields its
// subset directly; N names yield a Seq per property so each state contributes
// one tick.
func (n *Node) stateProps(names []string) (Props, error) {
	for _, name := range names {
		if _, ok := n.states[name]; !ok {
			return nil, fmt.Errorf("state %q on node %d: %w", name, n.id, ErrUnknownState)
		}
	}
	if len(names) == 1 {
		return CloneProps(n.states[names[0]]), nil
	}

	keys := make(map[string]struct{})
	for _, name := range names {
		for k := range n.states[name] {
			keys[k] = struct{}{}
		}
	}
	writes := make(Props, len(keys))
	for k := range keys {
		seq := make(Seq, 0, len(names))
		last := n.OwnValue(k, nil)
		for _, name := range names {
			if v, ok := n.states[name][k]; ok {
				last = v
			}
			// A state missing the key holds the previous tick's value.
			seq = append(seq, last)
		}
		writes[k] = seq
	}
	return writes, nil
}

// Destroy removes the node irreversibly: children first (depth-first, leaves
// before the subtree root), then detach, deregister and record. A second
// Destroy is a usage error.
func (n *Node) Destroy() error {
	if n.destroyed {
		return fmt.Errorf("destroy node %d: %w", n.id, ErrDestroyed)
	}
	for _, c := range n.children.Nodes() {
		if err := c.Destroy(); err != nil {
			return err
		}
	}
	if n.parent != nil {
		n.parent.children.Remove(n)
		n.parent = nil
	}
	if n.reg.root == n {
		n.reg.root = nil
	}
	delete(n.reg.nodes, n.id)
	if n.reg.rec != nil {
		n.reg.rec.RecordDestroy(n)
	}
	n.destroyed = true
	return nil
}
