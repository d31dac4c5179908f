package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/algomation/marionette/pkg/adapters/redis"
	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports/tests"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	tests.RunFrameStoreContract(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	frame := domain.Frame{{Op: domain.OpUpdate, Target: 1, Kind: domain.KindBox}}
	if err := store.Append(ctx, "expiring", frame); err != nil {
		t.Fatalf("append: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Frames(ctx, "expiring"); err == nil {
		t.Fatal("recording should have expired")
	}
}

func TestRedisStore_ParentSurvivesRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	frame := domain.Frame{{
		Op:      domain.OpUpdate,
		Target:  2,
		Kind:    domain.KindBox,
		Payload: domain.Props{"parent": domain.NodeID(1), "x": 1.5},
	}}
	if err := store.Append(ctx, "run", frame); err != nil {
		t.Fatalf("append: %v", err)
	}

	frames, err := store.Frames(ctx, "run")
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	id, ok := frames[0][0].Payload["parent"].(domain.NodeID)
	if !ok || id != 1 {
		t.Errorf("parent reference degraded: %v (%T)", frames[0][0].Payload["parent"], frames[0][0].Payload["parent"])
	}
}
