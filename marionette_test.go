package marionette_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marionette "github.com/algomation/marionette"
	"github.com/algomation/marionette/internal/demo"
	"github.com/algomation/marionette/pkg/adapters/memory"
	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
	"github.com/algomation/marionette/pkg/schema"
	"github.com/algomation/marionette/pkg/surface"
)

// TestLive_TwoTickAnimation drives the full mutator/renderer handshake: a
// sequence-valued fill decomposes into two pause messages, and the third
// acknowledge resumes the mutator with no further pause.
func TestLive_TwoTickAnimation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mutEnd, renEnd := memory.NewConduitPair(0)
	engine := marionette.New()

	program := func(ctx context.Context, stage ports.Stage) error {
		reg := stage.Registry()
		if _, err := reg.NewRoot(domain.KindContainer, domain.Update{}); err != nil {
			return err
		}
		// The sequence rides along on construction itself.
		if _, err := reg.NewNode(domain.KindBox, domain.Update{
			Props: domain.Props{"fill": domain.Seq{"red", "blue"}},
		}); err != nil {
			return err
		}
		return stage.Suspend(ctx, nil)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- engine.Live(ctx, "anim", mutEnd, program)
	}()

	// Renderer side, driven by hand to observe each message.
	first, err := renEnd.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, ports.MessagePause, first.Type)
	require.Len(t, first.Commands, 2)
	childCmd := first.Commands[1]
	assert.Equal(t, "red", childCmd.Payload["fill"])
	assert.True(t, childCmd.More, "first tick must announce a follow-up")

	require.NoError(t, renEnd.Send(ctx, ports.Message{Type: ports.MessageContinue}))

	second, err := renEnd.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, ports.MessagePause, second.Type)
	require.Len(t, second.Commands, 1)
	assert.Equal(t, "blue", second.Commands[0].Payload["fill"])
	assert.False(t, second.Commands[0].More, "sequence exhausted")

	require.NoError(t, renEnd.Send(ctx, ports.Message{Type: ports.MessageContinue}))

	final, err := renEnd.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.MessageDone, final.Type)
	assert.Empty(t, final.Commands)

	require.NoError(t, <-runErr)
}

// TestLive_DestroyOrdering checks that destroying a parent with two children
// transmits exactly three destroy commands, children first.
func TestLive_DestroyOrdering(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mutEnd, renEnd := memory.NewConduitPair(0)
	engine := marionette.New(marionette.WithValidation())

	var ids []domain.NodeID
	program := func(ctx context.Context, stage ports.Stage) error {
		reg := stage.Registry()
		parent, err := reg.NewRoot(domain.KindContainer, domain.Update{})
		if err != nil {
			return err
		}
		c1, err := reg.NewNode(domain.KindBox, domain.Update{})
		if err != nil {
			return err
		}
		c2, err := reg.NewNode(domain.KindBox, domain.Update{})
		if err != nil {
			return err
		}
		ids = []domain.NodeID{c1.ID(), c2.ID(), parent.ID()}
		if err := stage.Suspend(ctx, nil); err != nil {
			return err
		}
		if err := parent.Destroy(); err != nil {
			return err
		}
		return stage.Suspend(ctx, nil)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- engine.Live(ctx, "teardown", mutEnd, program)
	}()

	backend := &surface.NopBackend{}
	serveErr := make(chan error, 1)
	var destroyFrame domain.Frame
	go func() {
		// Hand-rolled renderer loop so the destroy frame can be captured.
		surf := surface.New(backend, surface.WithValidation())
		for {
			m, err := renEnd.Receive(ctx)
			if err != nil {
				serveErr <- err
				return
			}
			if len(m.Commands) == 3 && m.Commands[0].Op == domain.OpDestroy {
				destroyFrame = m.Commands
			}
			if err := surf.Apply(m.Commands); err != nil {
				serveErr <- err
				return
			}
			if m.Type == ports.MessageDone {
				serveErr <- nil
				return
			}
			if err := renEnd.Send(ctx, ports.Message{Type: ports.MessageContinue}); err != nil {
				serveErr <- err
				return
			}
		}
	}()

	require.NoError(t, <-runErr)
	require.NoError(t, <-serveErr)

	require.Len(t, destroyFrame, 3, "exactly three destroy commands")
	for i, c := range destroyFrame {
		assert.Equal(t, domain.OpDestroy, c.Op)
		assert.Equal(t, ids[i], c.Target, "child-before-parent order")
	}
}

// TestRecordReplay_EndToEnd records the demo program and checks that seeks
// reconstruct intermediate and final states.
func TestRecordReplay_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	engine := marionette.New(
		marionette.WithFrameStore(store),
		marionette.WithValidation(),
	)

	require.NoError(t, engine.Record(ctx, "sort", demo.BubbleSort([]int{3, 1, 2})))

	count, err := store.Count(ctx, "sort")
	require.NoError(t, err)
	require.Greater(t, count, 2)

	player, err := engine.Replay(ctx, "sort", &surface.NopBackend{})
	require.NoError(t, err)
	require.Equal(t, count, player.Len())

	// Final frame: values sorted ascending by element index.
	require.NoError(t, player.Seek(ctx, player.Len()))
	values := sortedValues(t, player.Surface().Registry())
	assert.Equal(t, []int64{1, 2, 3}, values)

	// Rewind to just after setup: original order.
	require.NoError(t, player.Seek(ctx, 1))
	values = sortedValues(t, player.Surface().Registry())
	assert.Equal(t, []int64{3, 1, 2}, values)

	// Incremental forward seek must equal a fresh full replay.
	require.NoError(t, player.Seek(ctx, player.Len()))
	fresh, err := engine.Replay(ctx, "sort", &surface.NopBackend{})
	require.NoError(t, err)
	require.NoError(t, fresh.Seek(ctx, fresh.Len()))
	assert.Equal(t,
		schema.Snapshot(fresh.Surface().Registry()),
		schema.Snapshot(player.Surface().Registry()))
}

// sortedValues reads element values ordered by element index.
func sortedValues(t *testing.T, reg *domain.Registry) []int64 {
	t.Helper()
	byIndex := map[int64]int64{}
	reg.Each(func(n *domain.Node) {
		if n.Kind() != domain.KindElement {
			return
		}
		idx := asInt64(t, n.OwnValue("index", nil))
		byIndex[idx] = asInt64(t, n.OwnValue("value", nil))
	})
	out := make([]int64, len(byIndex))
	for i := range out {
		v, ok := byIndex[int64(i)]
		require.True(t, ok, "missing element index %d", i)
		out[i] = v
	}
	return out
}

func asInt64(t *testing.T, v any) int64 {
	t.Helper()
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	t.Fatalf("unexpected numeric type %T", v)
	return 0
}
