// Package history replays recorded frame sequences to reconstruct scene
// state at an arbitrary frame index.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/algomation/marionette/internal/logging"
	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/observability"
	"github.com/algomation/marionette/pkg/ports"
	"github.com/algomation/marionette/pkg/surface"
)

// Player owns a surface for the duration of a replay session and seeks it to
// any frame of a fixed recording. Frames are never mutated; seeks are not
// concurrent (the player owns the surface's registry during a seek).
//
// There are no inverse commands: rewinding resets the scene and replays
// forward from frame zero. Cost is O(target), which is the accepted trade for
// bounded-length algorithm recordings.
type Player struct {
	frames []domain.Frame
	surf   *surface.Surface
	cursor int // -1 before the first seek
	logger *slog.Logger
	hooks  observability.Hooks
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

// WithHooks registers lifecycle hooks.
func WithHooks(h observability.Hooks) Option {
	return func(p *Player) { p.hooks = h }
}

// NewPlayer wraps a recording and the surface to replay it on.
func NewPlayer(frames []domain.Frame, surf *surface.Surface, opts ...Option) *Player {
	p := &Player{
		frames: frames,
		surf:   surf,
		cursor: -1,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPlayerFromStore loads a run's recording from a frame store.
func NewPlayerFromStore(ctx context.Context, store ports.FrameStore, runID string, surf *surface.Surface, opts ...Option) (*Player, error) {
	frames, err := store.Frames(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %q: %w", runID, err)
	}
	return NewPlayer(frames, surf, opts...), nil
}

// Len reports the number of frames in the recording.
func (p *Player) Len() int { return len(p.frames) }

// Cursor reports the current frame index, -1 before the first seek. After
// Seek(n) the scene reflects frames [0, n).
func (p *Player) Cursor() int { return p.cursor }

// Surface exposes the replay surface for snapshotting.
func (p *Player) Surface() *surface.Surface { return p.surf }

// Seek brings the scene to frame target. Forward seeks from an established
// cursor replay only the gap; backward seeks (and the first seek) reset the
// registry and replay from empty.
func (p *Player) Seek(ctx context.Context, target int) error {
	if target < 0 || target > len(p.frames) {
		return fmt.Errorf("seek %d outside [0, %d]", target, len(p.frames))
	}

	from := p.cursor
	start := p.cursor
	rebuilt := false
	if p.cursor < 0 || target < p.cursor {
		if err := p.surf.Reset(); err != nil {
			return fmt.Errorf("reset for rewind: %w", err)
		}
		start = 0
		rebuilt = true
	}

	for i := start; i < target; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.surf.Apply(p.frames[i]); err != nil {
			return fmt.Errorf("replay frame %d: %w", i, err)
		}
	}

	p.cursor = target
	p.hooks.Seek(ctx, &observability.SeekEvent{
		From:     from,
		To:       target,
		Replayed: target - start,
		Rebuilt:  rebuilt,
	})
	p.logger.Debug("seek complete", "from", from, "to", target, "replayed", target-start, "rebuilt", rebuilt)
	return nil
}

// Step advances one frame, a convenience for interactive stepping.
func (p *Player) Step(ctx context.Context) error {
	next := p.cursor + 1
	if next > len(p.frames) {
		return fmt.Errorf("step past end of recording (%d frames)", len(p.frames))
	}
	return p.Seek(ctx, next)
}
