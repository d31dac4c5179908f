package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Geometry sources accepted by Update.ApplyShape. Anything exposing
// compatible fields works: either one of these structs directly, or a
// map (typically decoded off the wire) matching one of the shape predicates.

// Point positions a node.
type Point struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// Line spans two endpoints.
type Line struct {
	X1 float64 `json:"x1" mapstructure:"x1"`
	Y1 float64 `json:"y1" mapstructure:"y1"`
	X2 float64 `json:"x2" mapstructure:"x2"`
	Y2 float64 `json:"y2" mapstructure:"y2"`
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	W float64 `json:"w" mapstructure:"w"`
	H float64 `json:"h" mapstructure:"h"`
}

// Circle is a center plus radius.
type Circle struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	R float64 `json:"r" mapstructure:"r"`
}

// FromShape mutates the node's own properties to match src. Exercised through
// Update.ApplyShape; exposed for callers holding a shape value directly.
func FromShape(n *Node, src any) error {
	return n.Apply(Update{ApplyShape: src})
}

// shapeProps converts a shape-like value into concrete property writes.
// Typed structs convert directly; maps are probed against the shape
// predicates in most-specific-first order and decoded via mapstructure.
// A source matching nothing is a usage error.
func shapeProps(src any) (Props, error) {
	switch s := src.(type) {
	case Point:
		return Props{"x": s.X, "y": s.Y}, nil
	case *Point:
		return shapeProps(*s)
	case Line:
		return Props{"x1": s.X1, "y1": s.Y1, "x2": s.X2, "y2": s.Y2}, nil
	case *Line:
		return shapeProps(*s)
	case Rect:
		return Props{"x": s.X, "y": s.Y, "w": s.W, "h": s.H}, nil
	case *Rect:
		return shapeProps(*s)
	case Circle:
		return Props{"x": s.X, "y": s.Y, "r": s.R}, nil
	case *Circle:
		return shapeProps(*s)
	case map[string]any:
		return shapePropsFromMap(s)
	}
	return nil, fmt.Errorf("shape source %T: %w", src, ErrUnknownShape)
}

func shapePropsFromMap(m map[string]any) (Props, error) {
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := m[k]; !ok {
				return false
			}
		}
		return true
	}

	switch {
	case has("x1", "y1", "x2", "y2"):
		var s Line
		if err := mapstructure.WeakDecode(m, &s); err != nil {
			return nil, fmt.Errorf("decode line: %w", err)
		}
		return shapeProps(s)
	case has("x", "y", "r"):
		var s Circle
		if err := mapstructure.WeakDecode(m, &s); err != nil {
			return nil, fmt.Errorf("decode circle: %w", err)
		}
		return shapeProps(s)
	case has("x", "y", "w", "h"):
		var s Rect
		if err := mapstructure.WeakDecode(m, &s); err != nil {
			return nil, fmt.Errorf("decode rect: %w", err)
		}
		return shapeProps(s)
	case has("x", "y"):
		var s Point
		if err := mapstructure.WeakDecode(m, &s); err != nil {
			return nil, fmt.Errorf("decode point: %w", err)
		}
		return shapeProps(s)
	}
	return nil, fmt.Errorf("shape map with keys %v: %w", mapKeys(m), ErrUnknownShape)
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
