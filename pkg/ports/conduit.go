package ports

import (
	"context"

	"github.com/algomation/marionette/pkg/domain"
)

// MessageType discriminates channel messages.
type MessageType string

const (
	// MessagePause carries one tick of commands; the mutator is suspended
	// until the renderer acknowledges with MessageContinue.
	MessagePause MessageType = "pause"

	// MessageDone carries the final flushed commands; no acknowledgement is
	// expected and the mutator cannot be resumed afterwards.
	MessageDone MessageType = "done"

	// MessageContinue is the renderer's acknowledgement of a pause.
	MessageContinue MessageType = "continue"
)

// Message is one envelope on the mutator/renderer channel. Commands reference
// nodes by id only; live pointers never cross the boundary.
type Message struct {
	Type     MessageType    `json:"type"`
	Commands domain.Frame   `json:"commands,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// Conduit is one endpoint of the ordered, reliable, exactly-once message
// channel between the two contexts. Delivery guarantees are the transport's
// problem; the core assumes them.
type Conduit interface {
	Send(ctx context.Context, m Message) error

	// Receive blocks until the next message arrives or ctx is done.
	Receive(ctx context.Context) (Message, error)
}
