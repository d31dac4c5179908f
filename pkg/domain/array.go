package domain

import "fmt"

// Array is a container node managing an ordered run of element nodes, one per
// value. Every structural mutation refreshes the index and value of every
// element whose backing node exists, so the scene never shows stale slots.
type Array struct {
	container *Node
	elements  []*Node
	values    []any
}

// NewArray constructs the container and one element node per value. The
// container attaches under the registry root unless parented via up.
func NewArray(r *Registry, up Update, values []any) (*Array, error) {
	container, err := r.NewNode(KindContainer, up)
	if err != nil {
		return nil, err
	}
	a := &Array{container: container}
	for _, v := range values {
		if err := a.appendElement(v); err != nil {
			return nil, err
		}
	}
	if err := a.refresh(0); err != nil {
		return nil, err
	}
	return a, nil
}

// Container returns the backing container node.
func (a *Array) Container() *Node { return a.container }

// Len reports the element count.
func (a *Array) Len() int { return len(a.values) }

// Value returns the value at i.
func (a *Array) Value(i int) (any, error) {
	if err := a.check(i); err != nil {
		return nil, err
	}
	return a.values[i], nil
}

// Element returns the node backing slot i.
func (a *Array) Element(i int) (*Node, error) {
	if err := a.check(i); err != nil {
		return nil, err
	}
	return a.elements[i], nil
}

// SetValue overwrites slot i and updates its element node.
func (a *Array) SetValue(i int, v any) error {
	if err := a.check(i); err != nil {
		return err
	}
	a.values[i] = v
	return a.updateElement(i)
}

// Swap exchanges slots i and j and updates both element nodes.
func (a *Array) Swap(i, j int) error {
	if err := a.check(i); err != nil {
		return err
	}
	if err := a.check(j); err != nil {
		return err
	}
	a.values[i], a.values[j] = a.values[j], a.values[i]
	a.elements[i], a.elements[j] = a.elements[j], a.elements[i]
	if err := a.updateElement(i); err != nil {
		return err
	}
	return a.updateElement(j)
}

// InsertAt grows the array at i, shifting later slots right, and refreshes
// every element from i on.
func (a *Array) InsertAt(i int, v any) error {
	if i < 0 || i > len(a.values) {
		return fmt.Errorf("array insert at %d of %d", i, len(a.values))
	}
	if err := a.appendElement(v); err != nil {
		return err
	}
	copy(a.values[i+1:], a.values[i:])
	a.values[i] = v
	n := a.elements[len(a.elements)-1]
	copy(a.elements[i+1:], a.elements[i:len(a.elements)-1])
	a.elements[i] = n
	return a.refresh(i)
}

// RemoveAt destroys slot i's element node, shifts later slots left and
// refreshes them.
func (a *Array) RemoveAt(i int) error {
	if err := a.check(i); err != nil {
		return err
	}
	if err := a.elements[i].Destroy(); err != nil {
		return err
	}
	a.values = append(a.values[:i], a.values[i+1:]...)
	a.elements = append(a.elements[:i], a.elements[i+1:]...)
	return a.refresh(i)
}

// Destroy destroys the container and with it every element node.
func (a *Array) Destroy() error {
	a.values = nil
	a.elements = nil
	return a.container.Destroy()
}

func (a *Array) appendElement(v any) error {
	n, err := a.container.reg.NewNode(KindElement, Update{
		ReparentTo: a.container,
		Props:      Props{"value": v},
	})
	if err != nil {
		return err
	}
	a.values = append(a.values, v)
	a.elements = append(a.elements, n)
	return nil
}

// refresh renotifies every slot from i on. Every node whose backing element
// exists is updated, for every index; slots never silently drift after an
// insert or remove.
func (a *Array) refresh(i int) error {
	if i < 0 {
		i = 0
	}
	for ; i < len(a.elements); i++ {
		if err := a.updateElement(i); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) updateElement(i int) error {
	return a.elements[i].Set(Props{"index": i, "value": a.values[i]})
}

func (a *Array) check(i int) error {
	if i < 0 || i >= len(a.values) {
		return fmt.Errorf("array index %d of %d", i, len(a.values))
	}
	return nil
}
