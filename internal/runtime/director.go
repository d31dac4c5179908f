package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/algomation/marionette/internal/logging"
	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/observability"
	"github.com/algomation/marionette/pkg/ports"
)

// State is the tick protocol state, observable for tests and introspection.
type State string

const (
	// StateIdle: no program has started.
	StateIdle State = "idle"
	// StateRunning: the program is executing between suspension points.
	StateRunning State = "running"
	// StatePaused: a tick has been sent, awaiting consumption.
	StatePaused State = "paused"
	// StateDraining: a tick was consumed and more ticks remain in the batch.
	StateDraining State = "draining"
	// StateDone: the program terminated and the final batch was flushed.
	StateDone State = "done"
)

// Sink consumes one transmitted frame. Consume blocks until the mutator may
// proceed: the live sink waits for the renderer's continue message, the
// recording sink returns as soon as the frame is appended.
type Sink interface {
	Consume(ctx context.Context, m ports.Message) error
}

// Director owns the mutator side of a run: the registry, the command log and
// the tick protocol. It executes a program on a single logical thread;
// suspension is an explicit blocking call, not resumable generator state.
type Director struct {
	runID  string
	reg    *domain.Registry
	log    *Log
	sink   Sink
	logger *slog.Logger
	hooks  observability.Hooks

	mu     sync.Mutex
	state  State
	frames int
}

// Option configures a Director.
type Option func(*Director)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Director) { d.logger = logger }
}

// WithHooks registers lifecycle hooks.
func WithHooks(h observability.Hooks) Option {
	return func(d *Director) { d.hooks = h }
}

// NewDirector creates a director for one run. Every run gets a fresh
// registry; the previous run's nodes are gone with the previous director.
func NewDirector(runID string, sink Sink, opts ...Option) *Director {
	d := &Director{
		runID:  runID,
		reg:    domain.NewRegistry(),
		log:    NewLog(),
		sink:   sink,
		logger: logging.NewNop(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.reg.SetRecorder(d.log)
	return d
}

// Registry exposes the run's registry.
func (d *Director) Registry() *domain.Registry { return d.reg }

// State reports the current protocol state.
func (d *Director) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Frames reports how many frames have been emitted so far.
func (d *Director) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

func (d *Director) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Run executes the program to completion. On return the final batch has been
// flushed in a done message and the director cannot be reused.
func (d *Director) Run(ctx context.Context, program ports.Program) error {
	if d.State() != StateIdle {
		return fmt.Errorf("director for run %q already used", d.runID)
	}
	d.setState(StateRunning)
	d.logger.Info("run started", "run", d.runID)

	err := program(ctx, &stage{d: d})
	if err != nil {
		d.setState(StateDone)
		d.hooks.Done(ctx, &observability.RunEvent{RunID: d.runID, Frames: d.Frames(), Failed: true})
		d.logger.Error("program failed", "run", d.runID, "err", err)
		return fmt.Errorf("program: %w", err)
	}

	// Terminal flush: whatever is still buffered goes out in one done
	// message. No acknowledgement follows, so sequences collapse to their
	// end state instead of ticking.
	final := Collapse(d.log.Flush())
	d.setState(StateDone)
	if err := d.sink.Consume(ctx, ports.Message{Type: ports.MessageDone, Commands: final}); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	d.bumpFrame(ctx, final, false)
	d.hooks.Done(ctx, &observability.RunEvent{RunID: d.runID, Frames: d.Frames()})
	d.logger.Info("run done", "run", d.runID, "frames", d.Frames())
	return nil
}

func (d *Director) bumpFrame(ctx context.Context, f domain.Frame, more bool) {
	d.mu.Lock()
	idx := d.frames
	d.frames++
	d.mu.Unlock()
	d.hooks.Frame(ctx, &observability.FrameEvent{
		RunID:    d.runID,
		Index:    idx,
		Commands: len(f),
		More:     more,
	})
}

// suspend drains the coalesced batch tick by tick. Each tick is one pause
// message; Consume blocks until it is acknowledged. When no ticks remain the
// program resumes.
func (d *Director) suspend(ctx context.Context, meta map[string]any) error {
	batch := d.log.Flush()
	first := true
	for {
		frame, more := Tick(batch, first)
		msg := ports.Message{Type: ports.MessagePause, Commands: frame}
		if first {
			msg.Meta = meta
		}

		d.setState(StatePaused)
		if err := d.sink.Consume(ctx, msg); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		d.bumpFrame(ctx, frame, more)
		d.logger.Debug("tick consumed", "run", d.runID, "commands", len(frame), "more", more)

		if !more {
			break
		}
		d.setState(StateDraining)
		d.hooks.Tick(ctx, &observability.TickEvent{RunID: d.runID, Tick: d.Frames()})
		first = false
	}
	d.setState(StateRunning)
	return nil
}

// stage is the program-facing view of the director.
type stage struct {
	d *Director
}

func (s *stage) Registry() *domain.Registry { return s.d.reg }

func (s *stage) Suspend(ctx context.Context, meta map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.d.suspend(ctx, meta)
}
