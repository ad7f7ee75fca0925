// Package executor replays a concrete candidate against the system under
// test, keeping the reference state synchronized and detecting the first
// failing transition.
package executor

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gosm/logging"
	"gosm/sequence"
	"gosm/statemachine"
)

// Index reported for a failure that occurred before any transition was
// applied: during InitTest or the invariant check on the initial state.
const InitialStateIndex = -1

// Outcome is the result of replaying one candidate.
type Outcome struct {
	// True if the replay failed.
	Failed bool
	// Index of the first failing transition. InitialStateIndex if the
	// failure occurred before the first transition.
	Index int
	// The failure cause: opaque application-level data threaded through
	// unchanged. nil on a pass.
	Cause error
}

// A Tracer receives one entry per applied transition. Used to record
// transition traces of a replay for post-mortem inspection.
type Tracer interface {
	Step(index int, transition, state string) error
}

// Executor replays candidates sequentially against a SUT and reference
// model.
//
// Each replay initializes a fresh SUT state from the candidate's initial
// state; concrete state is never reused across replays.
type Executor[S, T, C any] struct {
	model statemachine.ReferenceModel[S, T]
	sut   statemachine.SystemUnderTest[S, T, C]

	log     logging.Logger
	verbose bool

	// If true, panics raised by SUT callbacks are not caught and will stop
	// the test run. If false they are captured and become the failure cause.
	ignorePanics bool

	tracer Tracer
}

// New creates an Executor.
//
// log receives per-transition traces when verbose is set. tracer may be nil.
func New[S, T, C any](model statemachine.ReferenceModel[S, T], sut statemachine.SystemUnderTest[S, T, C], log logging.Logger, verbose bool, ignorePanics bool, tracer Tracer) *Executor[S, T, C] {
	return &Executor[S, T, C]{
		model: model,
		sut:   sut,

		log:     log,
		verbose: verbose,

		ignorePanics: ignorePanics,

		tracer: tracer,
	}
}

// RunSequential replays the candidate and returns the outcome.
//
// The SUT is initialized from the candidate's initial state, then the
// transitions are folded in order: the SUT apply (where post-conditions are
// asserted) sees the reference state before the transition, the reference
// state is advanced, and the invariants are checked on the updated pair.
// Replay stops at the first failure; no transitions after the first failure
// index are applied. Teardown runs only on normal completion.
func (e *Executor[S, T, C]) RunSequential(c sequence.Candidate[S, T]) Outcome {
	if e.verbose {
		e.log.Info("running test case",
			zap.Int("transitions", len(c.Transitions)),
			zap.String("initial", fmt.Sprintf("%v", c.Initial)),
		)
	}

	refState := c.Initial
	var sutState C
	if err := e.guard(func() { sutState = e.sut.InitTest(refState) }); err != nil {
		return Outcome{Failed: true, Index: InitialStateIndex, Cause: err}
	}

	// The invariants must already hold on the initial state.
	if err := e.invariants(sutState, refState); err != nil {
		return Outcome{Failed: true, Index: InitialStateIndex, Cause: err}
	}

	for i, transition := range c.Transitions {
		if e.verbose {
			e.log.Info("applying transition",
				zap.Int("index", i),
				zap.Int("of", len(c.Transitions)),
				zap.String("transition", fmt.Sprintf("%v", transition)),
			)
		}

		var applyErr error
		err := e.guard(func() { sutState, applyErr = e.sut.Apply(sutState, refState, transition) })
		if err == nil {
			err = applyErr
		}
		if err != nil {
			return Outcome{Failed: true, Index: i, Cause: err}
		}

		refState = e.model.Apply(refState, transition)

		if err := e.invariants(sutState, refState); err != nil {
			return Outcome{Failed: true, Index: i, Cause: err}
		}

		e.trace(i, transition, refState)
	}

	if err := e.guard(func() { e.sut.Teardown(sutState, refState) }); err != nil {
		index := len(c.Transitions) - 1
		if index < 0 {
			index = InitialStateIndex
		}
		return Outcome{Failed: true, Index: index, Cause: errors.WithMessage(err, "teardown")}
	}
	return Outcome{}
}

func (e *Executor[S, T, C]) invariants(sutState C, refState S) error {
	var checkErr error
	if err := e.guard(func() { checkErr = e.sut.CheckInvariants(sutState, refState) }); err != nil {
		return err
	}
	return checkErr
}

// Run f, converting a panic into an error unless panics are ignored.
// Panics in user callbacks are often caused by assertion helpers and are
// treated as a genuine failure cause.
func (e *Executor[S, T, C]) guard(f func()) (err error) {
	if !e.ignorePanics {
		defer func() {
			if p := recover(); p != nil {
				err = errors.Errorf("panic in state machine test: %v\nstack:\n%s", p, debug.Stack())
			}
		}()
	}
	f()
	return
}

func (e *Executor[S, T, C]) trace(index int, transition T, refState S) {
	if e.tracer == nil {
		return
	}
	err := e.tracer.Step(index, fmt.Sprintf("%v", transition), fmt.Sprintf("%v", refState))
	if err != nil {
		e.log.Warn("recording transition trace", zap.Int("index", index), zap.Error(err))
	}
}
