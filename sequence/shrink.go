package sequence

import (
	"gosm/statemachine"
	"gosm/strategy"
)

// Shrinking proceeds in strict phase order. No phase is revisited once
// exhausted.
type phase int

const (
	// Remove transitions from the back while the sequence is longer than
	// the configured minimum.
	phaseDeleteTransition phase = iota
	// Shrink individual transitions in place, front to back.
	phaseShrinkTransition
	// Shrink the initial state.
	phaseShrinkInitial
	// All phases exhausted: the candidate is minimal.
	phaseDone
)

type editKind int

const (
	editNone editKind = iota
	editDelete
	editShrinkTransition
	editShrinkInitial
)

// The most recent reduction, recorded so that Complicate can revert it.
// Only one level of undo is kept: each successful shrink discards the
// ability to undo anything earlier.
type lastEdit struct {
	kind   editKind
	index  int // transition index, for editShrinkTransition
	length int // live length before the deletion, for editDelete
}

// Value is the shrinkable candidate under test: the generated initial state,
// the transition sequence with their per-value shrink handles, and a cursor
// tracking shrink progress.
//
// A Value is owned by a single shrink session and is not safe for concurrent
// use.
type Value[S, T any] struct {
	model   statemachine.ReferenceModel[S, T]
	minSize int

	initial     strategy.Value[S]
	transitions []strategy.Value[T]
	// Number of live transitions. The deletion phase truncates the sequence
	// by lowering this; the tail is kept so a deletion can be undone.
	length int

	ph    phase
	index int
	last  lastEdit
}

func newValue[S, T any](model statemachine.ReferenceModel[S, T], minSize int, initial strategy.Value[S], transitions []strategy.Value[T]) *Value[S, T] {
	return &Value[S, T]{
		model:       model,
		minSize:     minSize,
		initial:     initial,
		transitions: transitions,
		length:      len(transitions),

		ph: phaseDeleteTransition,
	}
}

// Len returns the number of live transitions.
func (v *Value[S, T]) Len() int {
	return v.length
}

// Candidate returns a concrete snapshot of the current candidate.
func (v *Value[S, T]) Candidate() Candidate[S, T] {
	transitions := make([]T, 0, v.length)
	for _, tv := range v.transitions[:v.length] {
		transitions = append(transitions, tv.Get())
	}
	return Candidate[S, T]{Initial: v.initial.Get(), Transitions: transitions}
}

// Shrink attempts the next reduction, in place, and reports whether one was
// produced. Every produced reduction leaves the candidate precondition-valid;
// reductions that would violate a precondition are rejected internally and
// never surface.
//
// Once Shrink returns false the candidate is minimal and no further
// reductions will ever be produced.
func (v *Value[S, T]) Shrink() bool {
	v.last = lastEdit{kind: editNone}
	for {
		switch v.ph {
		case phaseDeleteTransition:
			if ok := v.deleteLast(); ok {
				return true
			}
			v.ph = phaseShrinkTransition
			v.index = 0

		case phaseShrinkTransition:
			if ok := v.shrinkTransition(); ok {
				return true
			}
			v.ph = phaseShrinkInitial

		case phaseShrinkInitial:
			if !v.initial.Shrink() {
				v.ph = phaseDone
				return false
			}
			if v.valid() {
				v.last = lastEdit{kind: editShrinkInitial}
				return true
			}
			// The whole sequence must stay valid against the new initial
			// state. A rejected initial-state shrink ends the phase.
			v.initial.Complicate()
			v.ph = phaseDone
			return false

		default:
			return false
		}
	}
}

// Remove transitions from the back of the sequence. Reports whether a valid
// shorter sequence was produced.
func (v *Value[S, T]) deleteLast() bool {
	if v.length <= v.minSize {
		return false
	}
	prev := v.length
	for v.length > v.minSize {
		v.length--
		// Truncating a valid sequence cannot break the preconditions of the
		// remaining prefix; the check guards against model nondeterminism.
		if v.valid() {
			v.last = lastEdit{kind: editDelete, length: prev}
			return true
		}
	}
	v.length = prev
	return false
}

// Shrink the transition under the cursor, front to back. A shrunk transition
// must leave itself and every later transition precondition-valid under the
// updated fold; otherwise the shrink is undone and the cursor advances.
func (v *Value[S, T]) shrinkTransition() bool {
	for v.index < v.length {
		tv := v.transitions[v.index]
		if !tv.Shrink() {
			v.index++
			continue
		}
		if v.valid() {
			v.last = lastEdit{kind: editShrinkTransition, index: v.index}
			return true
		}
		tv.Complicate()
		v.index++
	}
	return false
}

// Complicate reverts the most recent reduction, restoring the prior
// candidate, and reports whether an undo was possible. It is called when a
// reduced candidate no longer reproduces the failure.
//
// A rejected reduction is not re-attempted: the cursor moves past it. A
// rejected deletion ends the deletion phase, since truncating even further
// would also drop the transition that turned out to be needed.
func (v *Value[S, T]) Complicate() bool {
	switch v.last.kind {
	case editDelete:
		v.length = v.last.length
		v.ph = phaseShrinkTransition
		v.index = 0

	case editShrinkTransition:
		v.transitions[v.last.index].Complicate()
		v.index = v.last.index + 1

	case editShrinkInitial:
		v.initial.Complicate()
		v.ph = phaseDone

	default:
		return false
	}
	v.last = lastEdit{kind: editNone}
	return true
}

// valid reports whether every live transition satisfies the precondition
// against the state obtained by folding Apply over all preceding transitions
// from the initial state.
func (v *Value[S, T]) valid() bool {
	state := v.initial.Get()
	for _, tv := range v.transitions[:v.length] {
		t := tv.Get()
		if !v.model.Precondition(state, t) {
			return false
		}
		state = v.model.Apply(state, t)
	}
	return true
}
