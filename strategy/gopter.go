package strategy

import (
	"math/rand"

	"github.com/leanovate/gopter"
	"github.com/pkg/errors"
)

type genStrategy[T any] struct {
	gen gopter.Gen
}

// FromGen adapts a gopter generator into a Strategy.
//
// The generator's own shrinker, if it carries one, is used to drive the
// shrink/complicate protocol: Shrink pulls the next candidate from the
// shrink stream of the current value, Complicate restores the previous value
// and lets the stream continue with its remaining, less aggressive
// candidates.
func FromGen[T any](gen gopter.Gen) Strategy[T] {
	return genStrategy[T]{gen: gen}
}

func (g genStrategy[T]) NewValue(rng *rand.Rand) (Value[T], error) {
	params := gopter.DefaultGenParameters()
	params.Rng = rng
	for i := 0; i < filterRetries; i++ {
		result := g.gen(params)
		v, ok := result.Retrieve()
		if !ok {
			// The generator's sieve rejected the drawn value.
			continue
		}
		typed, ok := v.(T)
		if !ok {
			var want T
			return nil, errors.Errorf("strategy: gopter generator produced %T, want %T", v, want)
		}
		return &genValue[T]{curr: typed, shrinker: result.Shrinker, sieve: result.Sieve}, nil
	}
	return nil, errors.WithMessagef(FilteredError, "after %v attempts", filterRetries)
}

type genValue[T any] struct {
	curr, prev T
	undo       bool
	shrinker   gopter.Shrinker
	sieve      func(interface{}) bool
	stream     gopter.Shrink
	exhausted  bool
}

func (gv *genValue[T]) Get() T { return gv.curr }

func (gv *genValue[T]) Shrink() bool {
	if gv.exhausted || gv.shrinker == nil {
		return false
	}
	if gv.undo {
		// The previous shrink was kept: restart the stream from the new,
		// smaller current value.
		gv.stream = nil
		gv.undo = false
	}
	if gv.stream == nil {
		gv.stream = gv.shrinker(gv.curr)
	}
	for {
		v, ok := gv.stream()
		if !ok {
			gv.exhausted = true
			return false
		}
		if gv.sieve != nil && !gv.sieve(v) {
			// Candidates outside the generator's own constraints are
			// skipped, e.g. below the minimum of a range generator.
			continue
		}
		typed, ok := v.(T)
		if !ok {
			continue
		}
		gv.prev = gv.curr
		gv.curr = typed
		gv.undo = true
		return true
	}
}

func (gv *genValue[T]) Complicate() bool {
	if !gv.undo {
		return false
	}
	// Keep the stream; the next Shrink continues with its remaining
	// candidates rather than re-proposing the rejected one.
	gv.curr = gv.prev
	gv.undo = false
	return true
}
