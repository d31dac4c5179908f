package memory

import (
	"context"

	"github.com/algomation/marionette/pkg/ports"
)

// conduitEnd is one side of an in-process channel pair. Messages are
// deep-copied on send: the two sides must behave like separate contexts, so
// no payload map may be aliased across the boundary.
type conduitEnd struct {
	out chan<- ports.Message
	in  <-chan ports.Message
}

// NewConduitPair returns the mutator and renderer endpoints of a reliable,
// ordered, in-process channel.
func NewConduitPair(buffer int) (mutator, renderer ports.Conduit) {
	ab := make(chan ports.Message, buffer)
	ba := make(chan ports.Message, buffer)
	return &conduitEnd{out: ab, in: ba}, &conduitEnd{out: ba, in: ab}
}

func (c *conduitEnd) Send(ctx context.Context, m ports.Message) error {
	m.Commands = m.Commands.Clone()
	select {
	case c.out <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *conduitEnd) Receive(ctx context.Context) (ports.Message, error) {
	select {
	case m := <-c.in:
		return m, nil
	case <-ctx.Done():
		return ports.Message{}, ctx.Err()
	}
}
