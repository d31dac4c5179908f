package surface

import (
	"sync/atomic"

	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
)

// NopBackend satisfies ports.RenderBackend without producing output. Headless
// consumers (the HTTP seek endpoint, recorded replays inspected as snapshots)
// use it so the surface machinery still runs its full bookkeeping.
type NopBackend struct {
	next atomic.Int64
}

func (b *NopBackend) CreateHandle(*domain.Node) (ports.Handle, error) {
	return b.next.Add(1), nil
}

func (b *NopBackend) ApplyProperties(ports.Handle, domain.Props) error { return nil }

func (b *NopBackend) DestroyHandle(ports.Handle) error { return nil }
