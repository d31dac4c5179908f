package domain

import "reflect"

// Props is a property bag. Values are scalars, NodeID references (under the
// "parent" key) or Seq sequences.
type Props map[string]any

// Seq is a sequence-valued property: an ordered list of values that a single
// logical mutation spreads over multiple ticks. Element 0 is consumed by the
// first tick, element 1 by the next, and so on.
type Seq []any

// valuesEqual reports whether a property write is a no-op. Scalars compare
// with ==; sequences and other non-comparable values fall back to deep
// equality.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// CloneProps returns a shallow copy of p. Seq values are copied so the caller
// cannot alias a pending command payload.
func CloneProps(p Props) Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		if seq, ok := v.(Seq); ok {
			v = append(Seq(nil), seq...)
		}
		out[k] = v
	}
	return out
}
