package runtime

import (
	"testing"

	"github.com/algomation/marionette/pkg/domain"
)

func TestTick_SequenceDecomposition(t *testing.T) {
	batch := domain.Frame{{
		Op:     domain.OpUpdate,
		Target: 1,
		Kind:   domain.KindBox,
		Payload: domain.Props{
			"fill": domain.Seq{"red", "blue", "green"},
			"x":    7.0,
		},
	}}

	// Tick 0: heads, scalar repeated, more pending.
	f, more := Tick(batch, true)
	if !more || len(f) != 1 {
		t.Fatalf("tick 0: more=%v frame=%d", more, len(f))
	}
	if f[0].Payload["fill"] != "red" || f[0].Payload["x"] != 7.0 || !f[0].More {
		t.Errorf("tick 0 payload: %+v", f[0])
	}

	// Tick 1.
	f, more = Tick(batch, false)
	if !more || f[0].Payload["fill"] != "blue" || !f[0].More {
		t.Errorf("tick 1: more=%v payload=%+v", more, f[0])
	}
	if f[0].Payload["x"] != 7.0 {
		t.Errorf("scalar should repeat every tick: %v", f[0].Payload["x"])
	}

	// Tick 2: last element, more cleared everywhere.
	f, more = Tick(batch, false)
	if more || f[0].More {
		t.Error("exhausted sequence still reports more")
	}
	if f[0].Payload["fill"] != "green" {
		t.Errorf("tick 2 payload: %+v", f[0])
	}

	// The batch's retained payload holds the final scalar.
	if batch[0].Payload["fill"] != "green" {
		t.Errorf("batch should retain end state, got %v", batch[0].Payload["fill"])
	}

	// A length-L sequence decomposes into exactly L ticks.
	if f, _ := Tick(batch, false); len(f) != 0 {
		t.Errorf("tick 3 should carry nothing, got %d commands", len(f))
	}
}

func TestTick_MixedBatch(t *testing.T) {
	batch := domain.Frame{
		{Op: domain.OpUpdate, Target: 1, Payload: domain.Props{"x": 1.0}},
		{Op: domain.OpUpdate, Target: 2, Payload: domain.Props{"y": domain.Seq{1.0, 2.0}}},
		{Op: domain.OpDestroy, Target: 3},
	}

	f, more := Tick(batch, true)
	if !more || len(f) != 3 {
		t.Fatalf("tick 0: more=%v len=%d", more, len(f))
	}

	// Later ticks re-send only commands that still hold tails: the plain
	// update and the destroy must not repeat.
	f, more = Tick(batch, false)
	if more || len(f) != 1 {
		t.Fatalf("tick 1: more=%v len=%d", more, len(f))
	}
	if f[0].Target != 2 || f[0].Payload["y"] != 2.0 {
		t.Errorf("tick 1 payload: %+v", f[0])
	}
}

func TestTick_UnevenSequences(t *testing.T) {
	batch := domain.Frame{{
		Op:     domain.OpUpdate,
		Target: 1,
		Payload: domain.Props{
			"x": domain.Seq{1.0, 2.0, 3.0},
			"y": domain.Seq{10.0, 20.0},
		},
	}}

	Tick(batch, true)
	f, more := Tick(batch, false)
	if !more {
		t.Fatal("x still holds a tail after tick 1")
	}
	// y exhausted on tick 1: its final scalar repeats on tick 2.
	f, more = Tick(batch, false)
	if more {
		t.Error("all sequences exhausted after tick 2")
	}
	if f[0].Payload["x"] != 3.0 || f[0].Payload["y"] != 20.0 {
		t.Errorf("tick 2 payload: %v", f[0].Payload)
	}
}

func TestCollapse(t *testing.T) {
	batch := domain.Frame{
		{Op: domain.OpUpdate, Target: 1, Payload: domain.Props{"x": domain.Seq{1.0, 2.0, 3.0}, "k": "v"}},
		{Op: domain.OpDestroy, Target: 2},
	}
	f := Collapse(batch)
	if len(f) != 2 {
		t.Fatalf("len = %d", len(f))
	}
	if f[0].Payload["x"] != 3.0 || f[0].Payload["k"] != "v" || f[0].More {
		t.Errorf("collapsed payload: %+v", f[0])
	}
}

func TestTick_EmptyBatch(t *testing.T) {
	f, more := Tick(domain.Frame{}, true)
	if more || len(f) != 0 {
		t.Errorf("empty batch: more=%v len=%d", more, len(f))
	}
}
