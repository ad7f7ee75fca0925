// Package strategy defines the lazy, shrinkable value protocol consumed by
// the engine for initial-state and transition generation.
//
// A Strategy[T] produces a random Value[T]. The Value holds a concrete
// current value and supports a shrink/complicate protocol: Shrink moves the
// current value one step towards a simpler one, Complicate undoes the most
// recent Shrink when the simplification turned out not to reproduce a
// failure. Randomness is only consumed when the value is created; shrinking
// never redraws.
package strategy

import (
	"errors"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Returned when a strategy could not produce a value that satisfies its
// constraints within the bounded number of attempts.
var FilteredError = errors.New("strategy: no value satisfied the filter")

// A shrinkable value produced by a Strategy.
type Value[T any] interface {
	// Get returns the current value.
	Get() T

	// Shrink attempts to replace the current value with a simpler one,
	// in place. Returns true if a reduction was produced.
	Shrink() bool

	// Complicate undoes the most recent Shrink. Returns true if an undo was
	// possible. Only the immediately preceding Shrink can be undone.
	Complicate() bool
}

// A Strategy produces lazy, shrinkable random values of type T.
type Strategy[T any] interface {
	// NewValue draws a new value using the provided random source.
	NewValue(rng *rand.Rand) (Value[T], error)
}

type just[T any] struct {
	value T
}

// Just returns a strategy that always produces the given value.
// The value does not shrink.
func Just[T any](value T) Strategy[T] {
	return just[T]{value: value}
}

func (j just[T]) NewValue(rng *rand.Rand) (Value[T], error) {
	return justValue[T]{value: j.value}, nil
}

type justValue[T any] struct {
	value T
}

func (j justValue[T]) Get() T           { return j.value }
func (j justValue[T]) Shrink() bool     { return false }
func (j justValue[T]) Complicate() bool { return false }

type intRange[N constraints.Integer] struct {
	min, max N
}

// IntRange returns a strategy producing integers in the inclusive range
// [min, max]. Values shrink towards min by binary search.
func IntRange[N constraints.Integer](min, max N) Strategy[N] {
	return intRange[N]{min: min, max: max}
}

func (ir intRange[N]) NewValue(rng *rand.Rand) (Value[N], error) {
	if ir.min > ir.max {
		return nil, errors.New("strategy: empty integer range")
	}
	v := ir.min + N(rng.Int63n(int64(ir.max-ir.min)+1))
	return &intValue[N]{curr: v, lo: ir.min}, nil
}

// Binary search towards lo. A rejected reduction raises lo past the rejected
// value so the same reduction is never proposed twice.
type intValue[N constraints.Integer] struct {
	curr, lo N
	prev     N
	hasPrev  bool
}

func (iv *intValue[N]) Get() N { return iv.curr }

func (iv *intValue[N]) Shrink() bool {
	if iv.curr == iv.lo {
		return false
	}
	iv.prev = iv.curr
	iv.hasPrev = true
	iv.curr = iv.lo + (iv.curr-iv.lo)/2
	return true
}

func (iv *intValue[N]) Complicate() bool {
	if !iv.hasPrev {
		return false
	}
	iv.lo = iv.curr + 1
	iv.curr = iv.prev
	iv.hasPrev = false
	return true
}
