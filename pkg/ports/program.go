package ports

import (
	"context"

	"github.com/algomation/marionette/pkg/domain"
)

// Stage is the mutator program's view of the run: its registry, plus the
// explicit suspension point. No generator magic — suspension is a blocking
// call with a visible contract.
type Stage interface {
	// Registry owns the program's scene graph for this run.
	Registry() *domain.Registry

	// Suspend flushes everything recorded since the last suspension and
	// blocks until the renderer (or recorder) has consumed every tick of it.
	// Meta travels with the first tick as resume metadata.
	Suspend(ctx context.Context, meta map[string]any) error
}

// Program is a mutator algorithm. It runs on a single logical thread, mutates
// nodes freely between suspension points, and returns when the animation is
// complete. Returning an error aborts the run.
type Program func(ctx context.Context, stage Stage) error
