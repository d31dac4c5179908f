package runtime

import "github.com/algomation/marionette/pkg/domain"

// Log is the mutator-side command log: it turns node mutations into a
// minimal, ordered, self-consistent batch. Updates targeting the same node
// coalesce into one pending command, last write winning per property.
type Log struct {
	cmds    []domain.Command
	pending map[domain.NodeID]int
}

// NewLog creates an empty command log.
func NewLog() *Log {
	return &Log{pending: make(map[domain.NodeID]int)}
}

// RecordUpdate merges a payload into the node's pending update command, or
// appends a new one. The payload arrives already reduced to transmissible
// values: plain scalars, Seq sequences and the parent id — state names, state
// definitions and shape objects were realized as concrete writes upstream.
func (l *Log) RecordUpdate(n *domain.Node, payload domain.Props) {
	if i, ok := l.pending[n.ID()]; ok {
		dst := l.cmds[i].Payload
		for k, v := range domain.CloneProps(payload) {
			dst[k] = v
		}
		return
	}
	l.pending[n.ID()] = len(l.cmds)
	l.cmds = append(l.cmds, domain.Command{
		Op:      domain.OpUpdate,
		Target:  n.ID(),
		Kind:    n.Kind(),
		Payload: domain.CloneProps(payload),
	})
}

// RecordDestroy appends a destroy command. Any pending sequence values for
// the target collapse to their end state: once the destroy transmits, later
// ticks must not address the dead id.
func (l *Log) RecordDestroy(n *domain.Node) {
	if i, ok := l.pending[n.ID()]; ok {
		collapsePayload(l.cmds[i].Payload)
		delete(l.pending, n.ID())
	}
	l.cmds = append(l.cmds, domain.Command{Op: domain.OpDestroy, Target: n.ID()})
}

// Len reports the number of buffered commands.
func (l *Log) Len() int { return len(l.cmds) }

// Flush returns the buffered batch and clears the log. Payloads may still
// hold Seq values; tick expansion happens on the flushed batch.
func (l *Log) Flush() domain.Frame {
	batch := domain.Frame(l.cmds)
	l.cmds = nil
	l.pending = make(map[domain.NodeID]int)
	return batch
}

func collapsePayload(p domain.Props) {
	for k, v := range p {
		if seq, ok := v.(domain.Seq); ok && len(seq) > 0 {
			p[k] = seq[len(seq)-1]
		}
	}
}
