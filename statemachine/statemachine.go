// Package statemachine defines the capability interfaces connecting a user
// supplied reference model and system under test to the engine.
//
// The engine is parametric over the model defined State and Transition types
// and never inspects their structure. All model logic is reached through the
// ReferenceModel interface and all concrete behavior through the
// SystemUnderTest interface.
package statemachine

import (
	"gosm/strategy"
)

// ReferenceModel is an abstract, deterministic specification of the expected
// behavior of the system under test.
//
// S is the model state type and T the transition type. Both are owned by the
// model and opaque to the engine.
type ReferenceModel[S, T any] interface {
	// InitialState returns the strategy used to generate the initial state
	// of a test case.
	InitialState() strategy.Strategy[S]

	// Transitions returns the strategy used to generate the next transition
	// given the current state.
	//
	// The returned strategy may produce transitions that do not satisfy
	// Precondition. Those are discarded and redrawn by the generator.
	Transitions(state S) strategy.Strategy[T]

	// Apply applies the transition to the state and returns the resulting
	// state. It consumes the previous state: implementations must not alias
	// mutable data between the argument and the returned state.
	Apply(state S, transition T) S

	// Precondition reports whether the transition is valid in the given
	// state. It restricts both which transitions are generated and which
	// reductions are kept while shrinking.
	Precondition(state S, transition T) bool
}

// SystemUnderTest adapts the concrete implementation being validated.
//
// C is the concrete state type of the system under test.
type SystemUnderTest[S, T, C any] interface {
	// InitTest creates a fresh concrete state corresponding to the generated
	// initial reference state. It is called once per replay; concrete state
	// is never reused across replays.
	InitTest(refState S) C

	// Apply applies the transition to the concrete state and returns the
	// resulting state. refState is the reference state *before* the
	// transition is applied. Post-conditions are asserted here by
	// convention: a non-nil error is the failure cause of the test case.
	Apply(state C, refState S, transition T) (C, error)

	// CheckInvariants checks invariants on the concrete state after every
	// transition, with the reference state evolved past the same
	// transition. A non-nil error fails the test case.
	CheckInvariants(state C, refState S) error

	// Teardown cleans up the concrete state at the end of a passing replay.
	Teardown(state C, refState S)
}
