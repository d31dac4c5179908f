// Package surface is the renderer side of the mirror: it applies incoming
// command batches to its own registry, materializing nodes lazily, and feeds
// resolved properties to the rendering back-end.
package surface

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/algomation/marionette/internal/logging"
	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
)

// Surface mirrors the mutator's scene. Not safe for concurrent use: batch
// application and seeks are single-writer by contract.
type Surface struct {
	reg      *domain.Registry
	backend  ports.RenderBackend
	handles  map[domain.NodeID]ports.Handle
	logger   *slog.Logger
	validate bool

	saved *savedScene
}

type savedScene struct {
	reg     *domain.Registry
	handles map[domain.NodeID]ports.Handle
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) { s.logger = logger }
}

// WithValidation turns on registry/handle consistency checks after every
// applied batch. Diagnostic only: it walks the full scene and belongs in
// tests and debug builds, not on a production hot path.
func WithValidation() Option {
	return func(s *Surface) { s.validate = true }
}

// New creates a surface over a rendering back-end.
func New(backend ports.RenderBackend, opts ...Option) *Surface {
	s := &Surface{
		reg:     domain.NewRegistry(),
		backend: backend,
		handles: make(map[domain.NodeID]ports.Handle),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the mirrored registry.
func (s *Surface) Registry() *domain.Registry { return s.reg }

// Apply applies one frame and re-renders. Command application is
// all-or-nothing per command, not per batch: a mid-batch failure leaves the
// registry inconsistent and must abort the run.
func (s *Surface) Apply(frame domain.Frame) error {
	for i, c := range frame {
		var err error
		switch c.Op {
		case domain.OpUpdate:
			err = s.applyUpdate(c)
		case domain.OpDestroy:
			err = s.applyDestroy(c)
		default:
			err = fmt.Errorf("unknown op %q", c.Op)
		}
		if err != nil {
			return fmt.Errorf("command %d of %d: %w", i, len(frame), err)
		}
	}
	if err := s.render(); err != nil {
		return err
	}
	if s.validate {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Run consumes the live channel until the done message arrives, applying
// every batch and acknowledging every pause.
func (s *Surface) Run(ctx context.Context, conduit ports.Conduit) error {
	for {
		m, err := conduit.Receive(ctx)
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		switch m.Type {
		case ports.MessagePause:
			if err := s.Apply(m.Commands); err != nil {
				return err
			}
			s.logger.Debug("batch applied", "commands", len(m.Commands))
			if err := conduit.Send(ctx, ports.Message{Type: ports.MessageContinue}); err != nil {
				return fmt.Errorf("acknowledge: %w", err)
			}
		case ports.MessageDone:
			if err := s.Apply(m.Commands); err != nil {
				return err
			}
			s.logger.Info("run complete", "nodes", s.reg.Len())
			return nil
		default:
			return fmt.Errorf("unexpected message %q", m.Type)
		}
	}
}

func (s *Surface) applyUpdate(c domain.Command) error {
	up, err := s.decodeUpdate(c.Payload)
	if err != nil {
		return fmt.Errorf("target %d: %w", c.Target, err)
	}

	if n, ok := s.reg.Lookup(c.Target); ok {
		return n.Apply(up)
	}

	// Unknown id: materialize a node of the indicated kind with the payload
	// as constructor arguments.
	if c.Kind == "" {
		return fmt.Errorf("target %d: materialization without kind", c.Target)
	}
	if _, err := s.reg.Materialize(c.Target, c.Kind, up); err != nil {
		return err
	}
	return nil
}

// decodeUpdate lifts a wire payload into a structured update, resolving the
// parent id to a live reference.
func (s *Surface) decodeUpdate(payload domain.Props) (domain.Update, error) {
	up := domain.Update{Props: make(domain.Props, len(payload))}
	for k, v := range payload {
		if k != "parent" {
			up.Props[k] = v
			continue
		}
		id, ok := v.(domain.NodeID)
		if !ok {
			return domain.Update{}, fmt.Errorf("parent reference %v (%T) is not an id", v, v)
		}
		parent, ok := s.reg.Lookup(id)
		if !ok {
			return domain.Update{}, fmt.Errorf("parent %d: %w", id, domain.ErrUnknownNode)
		}
		up.ReparentTo = parent
	}
	return up, nil
}

func (s *Surface) applyDestroy(c domain.Command) error {
	n, ok := s.reg.Lookup(c.Target)
	if !ok {
		// The mutator destroyed something we never had: the mirrors have
		// diverged and the run cannot continue.
		return fmt.Errorf("destroy %d: %w", c.Target, domain.ErrUnknownNode)
	}
	return n.Destroy()
}

// render walks the scene from the root depth-first, creating or refreshing a
// back-end handle per node, then releases handles for nodes that are gone.
func (s *Surface) render() error {
	live := make(map[domain.NodeID]bool, s.reg.Len())
	if root := s.reg.Root(); root != nil {
		if err := s.renderNode(root, live); err != nil {
			return err
		}
	}
	for id, h := range s.handles {
		if live[id] {
			continue
		}
		if err := s.backend.DestroyHandle(h); err != nil {
			return fmt.Errorf("destroy handle %d: %w", id, err)
		}
		delete(s.handles, id)
	}
	return nil
}

func (s *Surface) renderNode(n *domain.Node, live map[domain.NodeID]bool) error {
	live[n.ID()] = true
	h, ok := s.handles[n.ID()]
	if !ok {
		var err error
		h, err = s.backend.CreateHandle(n)
		if err != nil {
			return fmt.Errorf("create handle %d: %w", n.ID(), err)
		}
		s.handles[n.ID()] = h
	}
	if err := s.backend.ApplyProperties(h, n.ResolvedProps()); err != nil {
		return fmt.Errorf("apply properties %d: %w", n.ID(), err)
	}
	for _, c := range n.Children().Nodes() {
		if err := s.renderNode(c, live); err != nil {
			return err
		}
	}
	return nil
}

// Validate confirms a bijection between the registry and the back-end
// handles. Any node without a handle, or handle without a node, is a fatal
// desync.
func (s *Surface) Validate() error {
	var missing []domain.NodeID
	s.reg.Each(func(n *domain.Node) {
		if _, ok := s.handles[n.ID()]; !ok {
			missing = append(missing, n.ID())
		}
	})
	if len(missing) > 0 {
		return fmt.Errorf("%w: nodes without handles %v", domain.ErrDesync, missing)
	}
	for id := range s.handles {
		if _, ok := s.reg.Lookup(id); !ok {
			return fmt.Errorf("%w: handle without node %d", domain.ErrDesync, id)
		}
	}
	return nil
}

// Reset tears the scene down: every handle is released and the registry is
// cleared, id counter included. Used for a new run and for history rebuilds.
func (s *Surface) Reset() error {
	for id, h := range s.handles {
		if err := s.backend.DestroyHandle(h); err != nil {
			return fmt.Errorf("destroy handle %d: %w", id, err)
		}
	}
	s.handles = make(map[domain.NodeID]ports.Handle)
	s.reg.Reset()
	return nil
}

// EnterHistoryMode parks the live scene and swaps in a fresh registry for a
// non-destructive preview. Non-reentrant.
func (s *Surface) EnterHistoryMode() error {
	if s.saved != nil {
		return fmt.Errorf("enter: %w", domain.ErrHistoryMode)
	}
	s.saved = &savedScene{reg: s.reg, handles: s.handles}
	s.reg = domain.NewRegistry()
	s.handles = make(map[domain.NodeID]ports.Handle)
	return nil
}

// ExitHistoryMode discards the preview scene and restores the parked one.
func (s *Surface) ExitHistoryMode() error {
	if s.saved == nil {
		return fmt.Errorf("exit: %w", domain.ErrHistoryMode)
	}
	if err := s.Reset(); err != nil {
		return err
	}
	s.reg = s.saved.reg
	s.handles = s.saved.handles
	s.saved = nil
	return nil
}
