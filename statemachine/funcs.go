package statemachine

import (
	"gosm/strategy"
)

// ModelFuncs builds a ReferenceModel from plain functions, so small models
// can be declared inline without a named type.
//
// PreconditionFunc may be nil, in which case every transition is valid.
type ModelFuncs[S, T any] struct {
	InitialStateFunc func() strategy.Strategy[S]
	TransitionsFunc  func(state S) strategy.Strategy[T]
	ApplyFunc        func(state S, transition T) S
	PreconditionFunc func(state S, transition T) bool
}

func (m ModelFuncs[S, T]) InitialState() strategy.Strategy[S] {
	return m.InitialStateFunc()
}

func (m ModelFuncs[S, T]) Transitions(state S) strategy.Strategy[T] {
	return m.TransitionsFunc(state)
}

func (m ModelFuncs[S, T]) Apply(state S, transition T) S {
	return m.ApplyFunc(state, transition)
}

func (m ModelFuncs[S, T]) Precondition(state S, transition T) bool {
	if m.PreconditionFunc == nil {
		return true
	}
	return m.PreconditionFunc(state, transition)
}

// SUTFuncs builds a SystemUnderTest from plain functions.
//
// CheckInvariantsFunc and TeardownFunc may be nil.
type SUTFuncs[S, T, C any] struct {
	InitTestFunc        func(refState S) C
	ApplyFunc           func(state C, refState S, transition T) (C, error)
	CheckInvariantsFunc func(state C, refState S) error
	TeardownFunc        func(state C, refState S)
}

func (s SUTFuncs[S, T, C]) InitTest(refState S) C {
	return s.InitTestFunc(refState)
}

func (s SUTFuncs[S, T, C]) Apply(state C, refState S, transition T) (C, error) {
	return s.ApplyFunc(state, refState, transition)
}

func (s SUTFuncs[S, T, C]) CheckInvariants(state C, refState S) error {
	if s.CheckInvariantsFunc == nil {
		return nil
	}
	return s.CheckInvariantsFunc(state, refState)
}

func (s SUTFuncs[S, T, C]) Teardown(state C, refState S) {
	if s.TeardownFunc != nil {
		s.TeardownFunc(state, refState)
	}
}
