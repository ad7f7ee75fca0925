package strategy

import (
	"errors"
	"math/rand"

	pkgerrors "github.com/pkg/errors"
)

// Number of redraws attempted before a filtered strategy gives up.
const filterRetries = 100

type mapped[A, B any] struct {
	inner Strategy[A]
	fn    func(A) B
}

// Map returns a strategy producing f(a) for values a of the inner strategy.
// Shrinking is delegated to the inner value.
func Map[A, B any](s Strategy[A], f func(A) B) Strategy[B] {
	return mapped[A, B]{inner: s, fn: f}
}

func (m mapped[A, B]) NewValue(rng *rand.Rand) (Value[B], error) {
	v, err := m.inner.NewValue(rng)
	if err != nil {
		return nil, err
	}
	return mappedValue[A, B]{inner: v, fn: m.fn}, nil
}

type mappedValue[A, B any] struct {
	inner Value[A]
	fn    func(A) B
}

func (m mappedValue[A, B]) Get() B           { return m.fn(m.inner.Get()) }
func (m mappedValue[A, B]) Shrink() bool     { return m.inner.Shrink() }
func (m mappedValue[A, B]) Complicate() bool { return m.inner.Complicate() }

type filtered[T any] struct {
	inner Strategy[T]
	pred  func(T) bool
}

// Filter returns a strategy producing only values for which pred holds.
//
// Generation redraws a bounded number of times before failing with
// FilteredError. Shrink steps that would leave the predicate are rejected.
func Filter[T any](s Strategy[T], pred func(T) bool) Strategy[T] {
	return filtered[T]{inner: s, pred: pred}
}

func (f filtered[T]) NewValue(rng *rand.Rand) (Value[T], error) {
	for i := 0; i < filterRetries; i++ {
		v, err := f.inner.NewValue(rng)
		if err != nil {
			return nil, err
		}
		if f.pred(v.Get()) {
			return filteredValue[T]{inner: v, pred: f.pred}, nil
		}
	}
	return nil, pkgerrors.WithMessagef(FilteredError, "after %v attempts", filterRetries)
}

type filteredValue[T any] struct {
	inner Value[T]
	pred  func(T) bool
}

func (f filteredValue[T]) Get() T { return f.inner.Get() }

func (f filteredValue[T]) Shrink() bool {
	if !f.inner.Shrink() {
		return false
	}
	if f.pred(f.inner.Get()) {
		return true
	}
	f.inner.Complicate()
	return false
}

func (f filteredValue[T]) Complicate() bool { return f.inner.Complicate() }

// A Weighted pairs a strategy with a selection weight for OneOfWeighted.
type Weighted[T any] struct {
	Weight   uint
	Strategy Strategy[T]
}

type oneOf[T any] struct {
	options []Weighted[T]
	total   uint
}

// OneOf returns a strategy that draws uniformly from the given strategies.
// Shrinking is delegated to the value of the chosen strategy; the choice
// itself is not revisited.
func OneOf[T any](options ...Strategy[T]) Strategy[T] {
	weighted := make([]Weighted[T], 0, len(options))
	for _, opt := range options {
		weighted = append(weighted, Weighted[T]{Weight: 1, Strategy: opt})
	}
	return OneOfWeighted(weighted...)
}

// OneOfWeighted returns a strategy that draws from the given strategies with
// probability proportional to their weights.
func OneOfWeighted[T any](options ...Weighted[T]) Strategy[T] {
	total := uint(0)
	for _, opt := range options {
		total += opt.Weight
	}
	return oneOf[T]{options: options, total: total}
}

func (o oneOf[T]) NewValue(rng *rand.Rand) (Value[T], error) {
	if o.total == 0 {
		return nil, errors.New("strategy: no options to choose from")
	}
	pick := uint(rng.Int63n(int64(o.total)))
	for _, opt := range o.options {
		if pick < opt.Weight {
			return opt.Strategy.NewValue(rng)
		}
		pick -= opt.Weight
	}
	// Unreachable: pick < total and the weights sum to total.
	return o.options[len(o.options)-1].Strategy.NewValue(rng)
}
