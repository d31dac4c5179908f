package domain

import "testing"

func TestGroup_Construction(t *testing.T) {
	r := NewRegistry()
	root, _ := r.NewRoot(KindContainer, Update{})
	a, _ := r.NewNode(KindBox, Update{})
	b, _ := r.NewNode(KindBox, Update{})

	g := NewGroup(
		a,
		[]*Node{b, a}, // duplicate, ignored
		map[string]*Node{"root": root},
		"not a node", // silently ignored
		42,
		[]any{nil, b},
	)

	if g.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", g.Len())
	}
	nodes := g.Nodes()
	if nodes[0] != a || nodes[1] != b {
		t.Error("insertion order not preserved")
	}
}

func TestGroup_AddRemoveIdempotent(t *testing.T) {
	r := NewRegistry()
	a, _ := r.NewNode(KindBox, Update{})
	g := NewGroup()

	g.Add(a)
	g.Add(a)
	if g.Len() != 1 {
		t.Errorf("double add: len = %d", g.Len())
	}
	g.Remove(a)
	g.Remove(a)
	if g.Len() != 0 {
		t.Errorf("double remove: len = %d", g.Len())
	}
}

func TestGroup_Broadcast(t *testing.T) {
	r := NewRegistry()
	a, _ := r.NewNode(KindBox, Update{})
	b, _ := r.NewNode(KindBox, Update{})
	g := NewGroup(a, b)

	if err := g.Apply(Update{Props: Props{"opacity": 0.5}}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if a.OwnValue("opacity", nil) != 0.5 || b.OwnValue("opacity", nil) != 0.5 {
		t.Error("broadcast did not reach all members")
	}
}

func TestGroup_DestroySnapshot(t *testing.T) {
	r := NewRegistry()
	parent, _ := r.NewRoot(KindContainer, Update{})
	for i := 0; i < 3; i++ {
		if _, err := r.NewNode(KindBox, Update{}); err != nil {
			t.Fatalf("NewNode: %v", err)
		}
	}

	// Destroying through the parent's own child group: each destroy removes
	// the member from the group mid-iteration, which the snapshot absorbs.
	if err := parent.Children().Destroy(); err != nil {
		t.Fatalf("group destroy: %v", err)
	}
	if parent.Children().Len() != 0 {
		t.Errorf("children remain: %d", parent.Children().Len())
	}
	if r.Len() != 1 {
		t.Errorf("expected only the parent to remain, got %d nodes", r.Len())
	}
}
