// Package sequence implements the candidate test case of a state-machine
// test: one generated initial state plus an ordered sequence of transitions,
// together with the three-phase shrink protocol that reduces a failing
// candidate to a minimal counterexample.
package sequence

import (
	"github.com/pkg/errors"
)

// SizeRange bounds the length of a generated transition sequence.
// Both bounds are inclusive.
type SizeRange struct {
	Min int
	Max int
}

func (sr SizeRange) check() error {
	if sr.Min < 0 || sr.Max < sr.Min {
		return errors.Errorf("sequence: invalid size range [%v, %v]", sr.Min, sr.Max)
	}
	return nil
}

// A Candidate is the concrete test case currently under test or under
// shrink: the initial reference state and the ordered transition sequence.
//
// Every transition in a Candidate satisfies the model precondition against
// the state obtained by folding Apply over all preceding transitions
// starting from the initial state.
type Candidate[S, T any] struct {
	Initial     S
	Transitions []T
}
