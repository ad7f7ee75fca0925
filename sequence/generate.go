package sequence

import (
	stderrors "errors"
	"math/rand"

	"github.com/pkg/errors"

	"gosm/statemachine"
	"gosm/strategy"
)

// Returned when generation could not fill the minimum number of valid
// transitions after bounded retries. A hard generation failure: the caller
// retries with fresh randomness or reports it. Never shrunk.
var GenerationExhaustedError = stderrors.New("sequence: could not generate the minimum number of valid transitions")

// Number of redraws attempted for a transition slot whose drawn transitions
// keep violating the precondition, before the slot is treated as unfillable.
// A policy constant: it affects generation efficiency, not correctness.
const transitionRetries = 10

// Generate builds a new candidate from the model's strategies.
//
// It draws an initial state, then appends transitions one at a time, each
// validated against the precondition on the evolving state and folded into
// it on success. The target length is drawn from sizes. Generation stops
// early if a slot is unfillable; stopping short of sizes.Min fails with
// GenerationExhaustedError.
//
// Randomness is consumed here only. Shrinking operates purely on the
// generated values and never redraws.
func Generate[S, T any](model statemachine.ReferenceModel[S, T], sizes SizeRange, rng *rand.Rand) (*Value[S, T], error) {
	if err := sizes.check(); err != nil {
		return nil, err
	}

	initial, err := model.InitialState().NewValue(rng)
	if err != nil {
		return nil, errors.WithMessage(err, "generating initial state")
	}

	target := sizes.Min + rng.Intn(sizes.Max-sizes.Min+1)
	state := initial.Get()
	transitions := make([]strategy.Value[T], 0, target)
	for len(transitions) < target {
		tv, ok, err := drawTransition(model, state, rng)
		if err != nil {
			return nil, errors.WithMessagef(err, "generating transition %v", len(transitions))
		}
		if !ok {
			break
		}
		transitions = append(transitions, tv)
		state = model.Apply(state, tv.Get())
	}

	if len(transitions) < sizes.Min {
		return nil, errors.WithMessagef(GenerationExhaustedError, "got %v of minimum %v transitions", len(transitions), sizes.Min)
	}

	return newValue(model, sizes.Min, initial, transitions), nil
}

// Draw a transition that satisfies the precondition in the given state.
// Reports ok=false if the slot is unfillable after the bounded retries.
func drawTransition[S, T any](model statemachine.ReferenceModel[S, T], state S, rng *rand.Rand) (strategy.Value[T], bool, error) {
	for i := 0; i < transitionRetries; i++ {
		tv, err := model.Transitions(state).NewValue(rng)
		if err != nil {
			if stderrors.Is(err, strategy.FilteredError) {
				// The strategy itself could not produce a value here.
				return nil, false, nil
			}
			return nil, false, err
		}
		if model.Precondition(state, tv.Get()) {
			return tv, true, nil
		}
	}
	return nil, false, nil
}

// FromCandidate wraps an existing concrete candidate, typically decoded from
// a persisted failing seed, so that it can be replayed and shrunk. The
// individual values do not shrink further, but the transition-deletion phase
// still applies.
func FromCandidate[S, T any](model statemachine.ReferenceModel[S, T], minSize int, c Candidate[S, T]) *Value[S, T] {
	transitions := make([]strategy.Value[T], 0, len(c.Transitions))
	for _, t := range c.Transitions {
		transitions = append(transitions, justValue[T]{value: t})
	}
	var initial strategy.Value[S] = justValue[S]{value: c.Initial}
	return newValue(model, minSize, initial, transitions)
}

// A non-shrinking value holding a fixed, already generated item.
type justValue[T any] struct {
	value T
}

func (j justValue[T]) Get() T           { return j.value }
func (j justValue[T]) Shrink() bool     { return false }
func (j justValue[T]) Complicate() bool { return false }
