package shrinker

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"

	"gosm/executor"
	"gosm/logging"
	"gosm/sequence"
	"gosm/statemachine"
	"gosm/strategy"
)

// Counter that only increments. The invariant tolerates values up to 10, so
// the minimal failing sequence is exactly 11 increments.
var incrementModel = statemachine.ModelFuncs[int, string]{
	InitialStateFunc: func() strategy.Strategy[int] { return strategy.Just(0) },
	TransitionsFunc: func(state int) strategy.Strategy[string] {
		return strategy.Just("increment")
	},
	ApplyFunc: func(state int, transition string) int { return state + 1 },
}

func incrementRunner(limit int) func(sequence.Candidate[int, string]) executor.Outcome {
	sut := statemachine.SUTFuncs[int, string, struct{}]{
		InitTestFunc: func(refState int) struct{} { return struct{}{} },
		ApplyFunc: func(state struct{}, refState int, transition string) (struct{}, error) {
			return state, nil
		},
		CheckInvariantsFunc: func(state struct{}, refState int) error {
			if refState > limit {
				return errors.Errorf("counter %v exceeds %v", refState, limit)
			}
			return nil
		},
	}
	e := executor.New[int, string, struct{}](incrementModel, sut, logging.Nop(), false, false, nil)
	return e.RunSequential
}

func incrementCandidate(n int) sequence.Candidate[int, string] {
	transitions := make([]string, n)
	for i := range transitions {
		transitions[i] = "increment"
	}
	return sequence.Candidate[int, string]{Initial: 0, Transitions: transitions}
}

func TestMinimizeFindsMinimalCounterexample(t *testing.T) {
	run := incrementRunner(10)
	val := sequence.FromCandidate[int, string](incrementModel, 1, incrementCandidate(15))
	firstFail := run(val.Candidate())
	if !firstFail.Failed {
		t.Fatalf("the starting candidate must fail")
	}

	result := Minimize(val, run, firstFail, Budget{}, logging.Nop())
	if len(result.Candidate.Transitions) != 11 {
		t.Fatalf("minimal candidate has %v transitions. Expected: %v", len(result.Candidate.Transitions), 11)
	}
	if result.Outcome.Index != 10 {
		t.Fatalf("minimal candidate fails at index %v. Expected: %v", result.Outcome.Index, 10)
	}
	if result.TimedOut {
		t.Fatalf("the session should not run out of budget")
	}
}

func TestMinimizeMaxShrinks(t *testing.T) {
	run := incrementRunner(10)
	val := sequence.FromCandidate[int, string](incrementModel, 1, incrementCandidate(15))
	firstFail := run(val.Candidate())

	result := Minimize(val, run, firstFail, Budget{MaxShrinks: 2}, logging.Nop())
	if !result.TimedOut {
		t.Fatalf("expected the session to run out of budget")
	}
	if result.Shrinks != 2 {
		t.Fatalf("replayed %v reductions. Expected: %v", result.Shrinks, 2)
	}
	// Two back-truncations were kept before the budget ran out.
	if len(result.Candidate.Transitions) != 13 {
		t.Fatalf("best candidate has %v transitions. Expected: %v", len(result.Candidate.Transitions), 13)
	}
	if !result.Outcome.Failed {
		t.Fatalf("the reported candidate must still fail")
	}
}

func TestMinimizeFinishingAtBudgetNotTimedOut(t *testing.T) {
	// Minimizing 12 increments takes exactly two replays: the truncation to
	// 11 is kept, the truncation to 10 passes and is reverted, and nothing
	// else can shrink. A budget of two must not be reported as exhausted.
	run := incrementRunner(10)
	val := sequence.FromCandidate[int, string](incrementModel, 1, incrementCandidate(12))
	firstFail := run(val.Candidate())

	result := Minimize(val, run, firstFail, Budget{MaxShrinks: 2}, logging.Nop())
	if result.TimedOut {
		t.Fatalf("the session finished within its budget but was reported as exhausted")
	}
	if result.Shrinks != 2 {
		t.Fatalf("replayed %v reductions. Expected: %v", result.Shrinks, 2)
	}
	if len(result.Candidate.Transitions) != 11 {
		t.Fatalf("minimal candidate has %v transitions. Expected: %v", len(result.Candidate.Transitions), 11)
	}
}

func TestMinimizeTimeout(t *testing.T) {
	run := incrementRunner(10)
	val := sequence.FromCandidate[int, string](incrementModel, 1, incrementCandidate(15))
	firstFail := run(val.Candidate())

	result := Minimize(val, run, firstFail, Budget{Timeout: time.Nanosecond}, logging.Nop())
	if !result.TimedOut {
		t.Fatalf("expected the session to run out of budget")
	}
	if result.Shrinks != 0 {
		t.Fatalf("replayed %v reductions. Expected: %v", result.Shrinks, 0)
	}
	if len(result.Candidate.Transitions) != 15 {
		t.Fatalf("best candidate has %v transitions. Expected the starting candidate", len(result.Candidate.Transitions))
	}
}

func TestMinimizeShrinksTransitionValues(t *testing.T) {
	// Each transition adds an amount between 1 and 5; the invariant tolerates
	// sums up to 2. The minimized sequence must still fail, and truncating its
	// last transition must make it pass, regardless of the generated input.
	model := statemachine.ModelFuncs[int, int]{
		InitialStateFunc: func() strategy.Strategy[int] { return strategy.Just(0) },
		TransitionsFunc: func(state int) strategy.Strategy[int] {
			return strategy.IntRange(1, 5)
		},
		ApplyFunc: func(state int, transition int) int { return state + transition },
	}
	sut := statemachine.SUTFuncs[int, int, struct{}]{
		InitTestFunc: func(refState int) struct{} { return struct{}{} },
		ApplyFunc: func(state struct{}, refState int, transition int) (struct{}, error) {
			return state, nil
		},
		CheckInvariantsFunc: func(state struct{}, refState int) error {
			if refState > 2 {
				return errors.Errorf("sum %v exceeds 2", refState)
			}
			return nil
		},
	}
	e := executor.New[int, int, struct{}](model, sut, logging.Nop(), false, false, nil)

	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		val, err := sequence.Generate[int, int](model, sequence.SizeRange{Min: 1, Max: 15}, rng)
		if err != nil {
			t.Fatalf("seed %v: unexpected generation error: %v", seed, err)
		}
		firstFail := e.RunSequential(val.Candidate())
		if !firstFail.Failed {
			// A short sequence of small amounts can pass; there is nothing to
			// minimize then.
			continue
		}

		result := Minimize(val, e.RunSequential, firstFail, Budget{}, logging.Nop())
		sum := 0
		for _, amount := range result.Candidate.Transitions {
			if amount < 1 || amount > 5 {
				t.Fatalf("seed %v: shrinking produced the out-of-range amount %v", seed, amount)
			}
			sum += amount
		}
		if sum <= 2 {
			t.Fatalf("seed %v: the minimized candidate sums to %v and would pass", seed, sum)
		}
		last := result.Candidate.Transitions[len(result.Candidate.Transitions)-1]
		if len(result.Candidate.Transitions) > 1 && sum-last > 2 {
			t.Fatalf("seed %v: the last transition is redundant, sum without it is %v", seed, sum-last)
		}
	}
}
