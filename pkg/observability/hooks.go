// Package observability defines lifecycle hooks emitted by the run director
// and the history player, and a Prometheus collector implementing them.
package observability

import "context"

// FrameEvent fires once per transmitted or recorded frame.
type FrameEvent struct {
	RunID    string
	Index    int
	Commands int
	// More is set when the frame left sequence ticks pending.
	More bool
}

// TickEvent fires for every extra tick drained from a coalesced batch beyond
// the first.
type TickEvent struct {
	RunID string
	Tick  int
}

// SeekEvent fires when the history player finishes a seek.
type SeekEvent struct {
	From     int
	To       int
	Replayed int
	// Rebuilt is set when the seek reset the registry and replayed from
	// frame zero.
	Rebuilt bool
}

// RunEvent fires when a mutator program terminates.
type RunEvent struct {
	RunID  string
	Frames int
	Failed bool
}

// Hooks are optional observability callbacks. Nil members are skipped; hooks
// run synchronously on the run's single mutation thread and must be cheap.
type Hooks struct {
	OnFrame func(context.Context, *FrameEvent)
	OnTick  func(context.Context, *TickEvent)
	OnSeek  func(context.Context, *SeekEvent)
	OnDone  func(context.Context, *RunEvent)
}

// Frame invokes OnFrame if set.
func (h Hooks) Frame(ctx context.Context, e *FrameEvent) {
	if h.OnFrame != nil {
		h.OnFrame(ctx, e)
	}
}

// Tick invokes OnTick if set.
func (h Hooks) Tick(ctx context.Context, e *TickEvent) {
	if h.OnTick != nil {
		h.OnTick(ctx, e)
	}
}

// Seek invokes OnSeek if set.
func (h Hooks) Seek(ctx context.Context, e *SeekEvent) {
	if h.OnSeek != nil {
		h.OnSeek(ctx, e)
	}
}

// Done invokes OnDone if set.
func (h Hooks) Done(ctx context.Context, e *RunEvent) {
	if h.OnDone != nil {
		h.OnDone(ctx, e)
	}
}
