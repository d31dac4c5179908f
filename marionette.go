package marionette

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/algomation/marionette/internal/logging"
	"github.com/algomation/marionette/internal/runtime"
	"github.com/algomation/marionette/pkg/history"
	"github.com/algomation/marionette/pkg/observability"
	"github.com/algomation/marionette/pkg/ports"
	"github.com/algomation/marionette/pkg/surface"
)

// Engine is the high-level entry point for the marionette library. It wires
// the mutator-side director, the renderer surface and the history player with
// shared logging, hooks and persistence.
type Engine struct {
	logger   *slog.Logger
	hooks    observability.Hooks
	store    ports.FrameStore
	validate bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHooks registers observability hooks, applied to every run and replay.
func WithHooks(h observability.Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithFrameStore injects the recording store used by Record and Replay.
func WithFrameStore(store ports.FrameStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithValidation enables renderer-side registry/handle consistency checks.
// Diagnostic only; leave it off in production.
func WithValidation() Option {
	return func(e *Engine) { e.validate = true }
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Record executes a program and appends every frame it produces to the
// configured store under runID. There is no renderer to wait for: suspension
// points complete as soon as their ticks are recorded.
func (e *Engine) Record(ctx context.Context, runID string, program ports.Program) error {
	if e.store == nil {
		return fmt.Errorf("record: no frame store configured")
	}
	d := runtime.NewDirector(runID,
		&runtime.StoreSink{Store: e.store, RunID: runID},
		runtime.WithLogger(e.logger.With("run", runID)),
		runtime.WithHooks(e.hooks),
	)
	return d.Run(ctx, program)
}

// Live executes a program against a live renderer on the far side of the
// conduit, pausing at every tick until the renderer acknowledges.
func (e *Engine) Live(ctx context.Context, runID string, conduit ports.Conduit, program ports.Program) error {
	d := runtime.NewDirector(runID,
		&runtime.ConduitSink{Conduit: conduit},
		runtime.WithLogger(e.logger.With("run", runID)),
		runtime.WithHooks(e.hooks),
	)
	return d.Run(ctx, program)
}

// Serve runs the renderer side of a live session: it consumes the conduit,
// mirrors the scene onto backend, and returns when the done message arrives.
func (e *Engine) Serve(ctx context.Context, conduit ports.Conduit, backend ports.RenderBackend) error {
	opts := []surface.Option{surface.WithLogger(e.logger)}
	if e.validate {
		opts = append(opts, surface.WithValidation())
	}
	return surface.New(backend, opts...).Run(ctx, conduit)
}

// Replay loads a recording from the store and returns a player seeked to
// nowhere: call Seek or Step on the result.
func (e *Engine) Replay(ctx context.Context, runID string, backend ports.RenderBackend) (*history.Player, error) {
	if e.store == nil {
		return nil, fmt.Errorf("replay: no frame store configured")
	}
	opts := []surface.Option{surface.WithLogger(e.logger)}
	if e.validate {
		opts = append(opts, surface.WithValidation())
	}
	return history.NewPlayerFromStore(ctx, e.store, runID, surface.New(backend, opts...),
		history.WithLogger(e.logger.With("run", runID)),
		history.WithHooks(e.hooks),
	)
}
