package ports

import "github.com/algomation/marionette/pkg/domain"

// Handle is an opaque token for a node's representation inside the rendering
// back-end. The surface never inspects it, only passes it back.
type Handle any

// RenderBackend translates resolved node properties into actual output
// (pixels, CSS, terminal cells). It is a black box to the core: the renderer
// surface creates one handle per live node and pushes inherited-resolved
// property bags at it after every applied batch.
type RenderBackend interface {
	// CreateHandle materializes a representation for a node.
	CreateHandle(n *domain.Node) (Handle, error)

	// ApplyProperties pushes the node's resolved (inherited) properties.
	ApplyProperties(h Handle, resolved domain.Props) error

	// DestroyHandle releases the representation.
	DestroyHandle(h Handle) error
}
