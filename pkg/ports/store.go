package ports

import (
	"context"

	"github.com/algomation/marionette/pkg/domain"
)

// FrameStore persists recorded frames per run, in append order. Frame i of a
// run is everything that changed at suspension point i; the history player
// replays them by index. Frames are immutable once appended.
type FrameStore interface {
	// Append adds the next frame of a run. The run is created on first
	// append.
	Append(ctx context.Context, runID string, f domain.Frame) error

	// Frames returns every frame of a run in order.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Frames(ctx context.Context, runID string) ([]domain.Frame, error)

	// Count returns the number of frames recorded for a run.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Count(ctx context.Context, runID string) (int, error)

	// Delete removes a recording. Deleting an absent run is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the known run ids.
	List(ctx context.Context) ([]string, error)
}
