package domain

import "fmt"

// Kind identifies the closed set of node variants. The renderer materializes
// nodes from commands by kind tag, resolved once at message-decoding time.
type Kind string

const (
	KindContainer Kind = "container"
	KindBox       Kind = "box"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindLabel     Kind = "label"
	KindElement   Kind = "element"
)

// ParseKind validates a kind tag coming off the wire.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindContainer, KindBox, KindCircle, KindLine, KindLabel, KindElement:
		return k, nil
	}
	return "", fmt.Errorf("unknown node kind %q", s)
}
