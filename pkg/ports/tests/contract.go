// Package tests holds reusable contract suites that every adapter
// implementation of a port must pass.
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
)

// RunFrameStoreContract verifies an adapter against the FrameStore semantics:
// append order, immutability of returned frames, not-found behavior.
func RunFrameStoreContract(t *testing.T, store ports.FrameStore) {
	t.Helper()
	ctx := context.Background()
	const runID = "contract-run"

	t.Run("NotFound", func(t *testing.T) {
		if _, err := store.Frames(ctx, "absent"); !errors.Is(err, domain.ErrRunNotFound) {
			t.Errorf("Frames on absent run: got %v, want ErrRunNotFound", err)
		}
		if _, err := store.Count(ctx, "absent"); !errors.Is(err, domain.ErrRunNotFound) {
			t.Errorf("Count on absent run: got %v, want ErrRunNotFound", err)
		}
		if err := store.Delete(ctx, "absent"); err != nil {
			t.Errorf("Delete on absent run should be a no-op, got %v", err)
		}
	})

	t.Run("AppendOrder", func(t *testing.T) {
		frames := []domain.Frame{
			{{Op: domain.OpUpdate, Target: 1, Kind: domain.KindBox, Payload: domain.Props{"x": 1.0}}},
			{{Op: domain.OpUpdate, Target: 1, Payload: domain.Props{"x": 2.0}}},
			{{Op: domain.OpDestroy, Target: 1}},
		}
		for _, f := range frames {
			if err := store.Append(ctx, runID, f); err != nil {
				t.Fatalf("Append: %v", err)
			}
		}

		n, err := store.Count(ctx, runID)
		if err != nil || n != len(frames) {
			t.Fatalf("Count = %d, %v; want %d", n, err, len(frames))
		}

		got, err := store.Frames(ctx, runID)
		if err != nil {
			t.Fatalf("Frames: %v", err)
		}
		if len(got) != len(frames) {
			t.Fatalf("got %d frames, want %d", len(got), len(frames))
		}
		for i, f := range got {
			if len(f) != 1 || f[0].Op != frames[i][0].Op || f[0].Target != frames[i][0].Target {
				t.Errorf("frame %d mismatch: %+v", i, f)
			}
		}
		if got[0][0].Payload["x"] != 1.0 {
			t.Errorf("frame 0 payload = %v", got[0][0].Payload)
		}
	})

	t.Run("Isolation", func(t *testing.T) {
		got, err := store.Frames(ctx, runID)
		if err != nil {
			t.Fatalf("Frames: %v", err)
		}
		// Mutating a returned frame must not corrupt the recording.
		got[0][0].Payload["x"] = 999.0

		again, err := store.Frames(ctx, runID)
		if err != nil {
			t.Fatalf("Frames: %v", err)
		}
		if again[0][0].Payload["x"] == 999.0 {
			t.Error("store handed out aliased frame payloads")
		}
	})

	t.Run("ListDelete", func(t *testing.T) {
		runs, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		found := false
		for _, id := range runs {
			if id == runID {
				found = true
			}
		}
		if !found {
			t.Errorf("run %q missing from %v", runID, runs)
		}

		if err := store.Delete(ctx, runID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := store.Frames(ctx, runID); !errors.Is(err, domain.ErrRunNotFound) {
			t.Errorf("deleted run still readable: %v", err)
		}
	})
}
