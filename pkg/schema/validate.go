package schema

import (
	"fmt"

	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
)

// ValidateMessage rejects structurally invalid envelopes before they reach a
// surface or a conduit.
func ValidateMessage(m ports.Message) error {
	switch m.Type {
	case ports.MessagePause, ports.MessageDone:
		return validateFrame(m.Commands)
	case ports.MessageContinue:
		if len(m.Commands) > 0 {
			return fmt.Errorf("continue message carries %d commands", len(m.Commands))
		}
		return nil
	}
	return fmt.Errorf("unknown message type %q", m.Type)
}

func validateFrame(f domain.Frame) error {
	seenUpdate := make(map[domain.NodeID]bool, len(f))
	for i, c := range f {
		if c.Target <= 0 {
			return fmt.Errorf("command %d: invalid target id %d", i, c.Target)
		}
		switch c.Op {
		case domain.OpUpdate:
			// One coalesced update per target per frame.
			if seenUpdate[c.Target] {
				return fmt.Errorf("command %d: duplicate update for target %d", i, c.Target)
			}
			seenUpdate[c.Target] = true
			if c.Kind != "" {
				if _, err := domain.ParseKind(string(c.Kind)); err != nil {
					return fmt.Errorf("command %d: %w", i, err)
				}
			}
		case domain.OpDestroy:
			if len(c.Payload) > 0 {
				return fmt.Errorf("command %d: destroy carries a payload", i)
			}
			if c.More {
				return fmt.Errorf("command %d: destroy cannot set more", i)
			}
		default:
			return fmt.Errorf("command %d: unknown op %q", i, c.Op)
		}
	}
	return nil
}
