package runtime

import "github.com/algomation/marionette/pkg/domain"

// Tick drains one tick from a flushed batch, mutating the batch's sequence
// tails in place. The returned frame is what goes on the wire:
//
//   - every Seq-valued property contributes its head element this tick;
//     scalar properties in the same payload repeat unchanged;
//   - an exhausted Seq is replaced in the batch by its final scalar;
//   - a command's More flag is set while it still holds unconsumed tails.
//
// Destroy commands and updates with no remaining sequences transmit on the
// first tick only. The second return value reports whether another tick
// remains for this batch.
func Tick(batch domain.Frame, first bool) (domain.Frame, bool) {
	var out domain.Frame
	more := false

	for i := range batch {
		c := &batch[i]
		if c.Op == domain.OpDestroy {
			if first {
				out = append(out, *c)
			}
			continue
		}
		if !first && !hasSeq(c.Payload) {
			continue
		}

		payload := make(domain.Props, len(c.Payload))
		remaining := false
		for k, v := range c.Payload {
			seq, ok := v.(domain.Seq)
			if !ok {
				payload[k] = v
				continue
			}
			payload[k] = seq[0]
			if len(seq) > 1 {
				c.Payload[k] = seq[1:]
				remaining = true
			} else {
				c.Payload[k] = seq[0]
			}
		}

		out = append(out, domain.Command{
			Op:      domain.OpUpdate,
			Target:  c.Target,
			Kind:    c.Kind,
			Payload: payload,
			More:    remaining,
		})
		more = more || remaining
	}
	return out, more
}

// Collapse reduces a batch to its end state in a single frame: every Seq
// becomes its final element. Used for the terminal done message, which gets
// no acknowledgements to tick against.
func Collapse(batch domain.Frame) domain.Frame {
	out := make(domain.Frame, 0, len(batch))
	for _, c := range batch {
		if c.Op == domain.OpUpdate {
			p := make(domain.Props, len(c.Payload))
			for k, v := range c.Payload {
				if seq, ok := v.(domain.Seq); ok && len(seq) > 0 {
					p[k] = seq[len(seq)-1]
				} else {
					p[k] = v
				}
			}
			c.Payload = p
		}
		c.More = false
		out = append(out, c)
	}
	return out
}

func hasSeq(p domain.Props) bool {
	for _, v := range p {
		if _, ok := v.(domain.Seq); ok {
			return true
		}
	}
	return false
}
