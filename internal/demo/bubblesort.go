// Package demo ships a reference mutator program: an animated bubble sort.
// The run and serve commands use it, and it doubles as an end-to-end exercise
// of arrays, display states, sequence values and destruction.
package demo

import (
	"context"
	"fmt"

	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
)

const (
	barWidth   = 24.0
	barSpacing = 30.0
)

// BubbleSort returns a program that sorts values, suspending after every
// comparison and swap so each becomes one animation frame.
func BubbleSort(values []int) ports.Program {
	return func(ctx context.Context, stage ports.Stage) error {
		reg := stage.Registry()

		if _, err := reg.NewRoot(domain.KindContainer, domain.Update{
			Props: domain.Props{"opacity": 1.0},
		}); err != nil {
			return err
		}

		boxed := make([]any, len(values))
		for i, v := range values {
			boxed[i] = v
		}
		arr, err := domain.NewArray(reg, domain.Update{}, boxed)
		if err != nil {
			return err
		}
		for i := 0; i < arr.Len(); i++ {
			if err := layoutBar(arr, i); err != nil {
				return err
			}
		}
		if err := stage.Suspend(ctx, meta("setup")); err != nil {
			return err
		}

		for limit := arr.Len() - 1; limit > 0; limit-- {
			for j := 0; j < limit; j++ {
				left, _ := arr.Element(j)
				right, _ := arr.Element(j + 1)

				// Highlight the pair under comparison.
				if err := left.SetState(domain.StateYellow); err != nil {
					return err
				}
				if err := right.SetState(domain.StateYellow); err != nil {
					return err
				}
				if err := stage.Suspend(ctx, meta(fmt.Sprintf("compare %d,%d", j, j+1))); err != nil {
					return err
				}

				lv, _ := arr.Value(j)
				rv, _ := arr.Value(j + 1)
				if lv.(int) > rv.(int) {
					if err := arr.Swap(j, j+1); err != nil {
						return err
					}
					if err := layoutBar(arr, j); err != nil {
						return err
					}
					if err := layoutBar(arr, j+1); err != nil {
						return err
					}
					// Flash red then settle: one tick per state.
					if err := left.SetState(domain.StateRed, domain.StateNormal); err != nil {
						return err
					}
					if err := right.SetState(domain.StateRed, domain.StateNormal); err != nil {
						return err
					}
				} else {
					if err := left.SetState(domain.StateNormal); err != nil {
						return err
					}
					if err := right.SetState(domain.StateNormal); err != nil {
						return err
					}
				}
				if err := stage.Suspend(ctx, meta(fmt.Sprintf("settle %d,%d", j, j+1))); err != nil {
					return err
				}
			}
			// The element bubbled to position limit is in place.
			done, _ := arr.Element(limit)
			if err := done.SetState(domain.StateGreen); err != nil {
				return err
			}
		}

		first, _ := arr.Element(0)
		if err := first.SetState(domain.StateGreen); err != nil {
			return err
		}
		return stage.Suspend(ctx, meta("sorted"))
	}
}

// layoutBar positions slot i's bar from its index and value.
func layoutBar(arr *domain.Array, i int) error {
	n, err := arr.Element(i)
	if err != nil {
		return err
	}
	v, err := arr.Value(i)
	if err != nil {
		return err
	}
	return n.Apply(domain.Update{ApplyShape: domain.Rect{
		X: float64(i) * barSpacing,
		Y: 0,
		W: barWidth,
		H: float64(v.(int)),
	}})
}

func meta(step string) map[string]any {
	return map[string]any{"step": step}
}
