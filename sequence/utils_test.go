package sequence

import (
	"gosm/statemachine"
	"gosm/strategy"
)

// Bounded counter model used throughout the tests. Transitions are
// "increment" and "reset"; reset is only valid when the counter is positive.
func newCounterModel() statemachine.ReferenceModel[int, string] {
	return statemachine.ModelFuncs[int, string]{
		InitialStateFunc: func() strategy.Strategy[int] {
			return strategy.Just(0)
		},
		TransitionsFunc: func(state int) strategy.Strategy[string] {
			return strategy.OneOf(strategy.Just("increment"), strategy.Just("reset"))
		},
		ApplyFunc: func(state int, transition string) int {
			if transition == "reset" {
				return 0
			}
			return state + 1
		},
		PreconditionFunc: func(state int, transition string) bool {
			if transition == "reset" {
				return state > 0
			}
			return true
		},
	}
}

// A strategy.Value enumerating a fixed list of progressively simpler values.
// Complicate restores the previous value and the rejected one is skipped by
// the next Shrink.
type stepValue[T any] struct {
	steps   []T
	idx     int
	prev    int
	next    int
	hasPrev bool
}

func newStepValue[T any](steps ...T) *stepValue[T] {
	return &stepValue[T]{steps: steps}
}

func (v *stepValue[T]) Get() T {
	return v.steps[v.idx]
}

func (v *stepValue[T]) Shrink() bool {
	target := v.idx + 1
	if v.next > target {
		target = v.next
	}
	if target >= len(v.steps) {
		return false
	}
	v.prev = v.idx
	v.hasPrev = true
	v.idx = target
	v.next = 0
	return true
}

func (v *stepValue[T]) Complicate() bool {
	if !v.hasPrev {
		return false
	}
	v.next = v.idx + 1
	v.idx = v.prev
	v.hasPrev = false
	return true
}
