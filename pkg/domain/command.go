package domain

// Op is the command discriminator. Creation is not a separate op: the
// renderer materializes a node lazily on the first update carrying an unknown
// target id.
type Op string

const (
	OpUpdate  Op = "update"
	OpDestroy Op = "destroy"
)

// Command is one recorded mutation, addressed by node id. Payload values are
// scalars or ids, never live node pointers; a pending (untransmitted) payload
// may additionally hold Seq values awaiting tick expansion.
type Command struct {
	Op      Op     `json:"op"`
	Target  NodeID `json:"target"`
	Kind    Kind   `json:"kind,omitempty"`
	Payload Props  `json:"payload,omitempty"`

	// More is set on a transmitted update while at least one of its
	// properties still holds unconsumed sequence elements, i.e. another tick
	// will follow for this batch.
	More bool `json:"more,omitempty"`
}

// Clone deep-copies the command's payload.
func (c Command) Clone() Command {
	c.Payload = CloneProps(c.Payload)
	return c
}

// Frame is everything that changed between two suspension points: an ordered,
// immutable command list addressed by a zero-based index in a recording.
type Frame []Command

// Clone deep-copies every command in the frame.
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	for i, c := range f {
		out[i] = c.Clone()
	}
	return out
}
