/*
Package marionette animates algorithms by mirroring a retained-mode scene
graph from a mutator context, which has no rendering capability, to a renderer
context that owns the drawing surface.

A mutator program mutates nodes freely between suspension points; every
mutation is diffed into a command log, coalesced per node, and drained tick by
tick when the program suspends. Sequence-valued properties unfold over
multiple ticks, so one logical "recolor through red, then blue" becomes
several discrete, independently transmitted visual steps. Batches can go to a
live renderer over a message channel, or into a frame store for time-travel
replay: the history player seeks to any frame index, replaying forward
incrementally or rebuilding from scratch on rewind.

# Architecture

The core is hexagonal. pkg/domain holds the scene model and command types;
pkg/ports defines the collaborators (rendering back-end, frame store, message
channel, program contract); adapters under pkg/adapters wire real transports
and stores. The Engine facade in this package assembles the common setups.

# Usage

Record a run, then replay it:

	store := memory.NewStore()
	engine := marionette.New(marionette.WithFrameStore(store))

	err := engine.Record(ctx, "bubblesort", func(ctx context.Context, stage ports.Stage) error {
		reg := stage.Registry()
		// ... create and mutate nodes ...
		return stage.Suspend(ctx, nil)
	})

	player, err := engine.Replay(ctx, "bubblesort", backend)
	err = player.Seek(ctx, 3)

For a live session, connect the two contexts with a conduit and run
engine.Live on the mutator side and engine.Serve on the renderer side.
*/
package marionette
