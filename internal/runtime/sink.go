package runtime

import (
	"context"
	"fmt"

	"github.com/algomation/marionette/pkg/ports"
)

// ConduitSink transmits frames over the live channel. A pause message blocks
// until the renderer acknowledges with continue; the done message expects no
// acknowledgement. A stalled renderer stalls the mutator until ctx ends —
// that is the protocol's contract, not a bug.
type ConduitSink struct {
	Conduit ports.Conduit
}

func (s *ConduitSink) Consume(ctx context.Context, m ports.Message) error {
	if err := s.Conduit.Send(ctx, m); err != nil {
		return fmt.Errorf("send %s: %w", m.Type, err)
	}
	if m.Type != ports.MessagePause {
		return nil
	}
	ack, err := s.Conduit.Receive(ctx)
	if err != nil {
		return fmt.Errorf("await continue: %w", err)
	}
	if ack.Type != ports.MessageContinue {
		return fmt.Errorf("expected continue, got %q", ack.Type)
	}
	return nil
}

// StoreSink appends frames to a recording instead of transmitting them. There
// is no renderer to wait for, so consumption is immediate; the done frame is
// recorded like any other so replay reaches the true end state.
type StoreSink struct {
	Store ports.FrameStore
	RunID string
}

func (s *StoreSink) Consume(ctx context.Context, m ports.Message) error {
	if err := s.Store.Append(ctx, s.RunID, m.Commands); err != nil {
		return fmt.Errorf("record frame: %w", err)
	}
	return nil
}
