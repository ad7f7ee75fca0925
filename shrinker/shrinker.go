// Package shrinker orchestrates the shrink loop: it repeatedly asks the
// candidate for the next reduction, replays the reduced candidate, keeps
// reductions that still reproduce the failure and reverts the ones that do
// not.
package shrinker

import (
	"time"

	"go.uber.org/zap"

	"gosm/executor"
	"gosm/logging"
	"gosm/sequence"
)

// Budget bounds a shrink session. A zero field means unlimited.
type Budget struct {
	// Maximum number of reduced candidates replayed.
	MaxShrinks int
	// Wall-clock budget for the whole session.
	Timeout time.Duration
}

// Result of a shrink session.
type Result[S, T any] struct {
	// The smallest known failing candidate.
	Candidate sequence.Candidate[S, T]
	// The outcome of replaying Candidate. Always a failure.
	Outcome executor.Outcome
	// Number of reduced candidates replayed.
	Shrinks int
	// True if the budget elapsed before the candidate was fully minimized.
	// Candidate is then the best found so far, not necessarily minimal.
	TimedOut bool
}

// Minimize shrinks a failing candidate to a minimal one that still fails.
//
// val must currently hold a candidate that fails with firstFail when
// replayed through run. After each reduction the candidate is replayed: if
// it still fails the reduction is kept and shrinking continues from there;
// if it passes the reduction is reverted and the next reduction is attempted
// instead. The session ends when no further reduction is possible or the
// budget elapses. The returned candidate always reproduces a failure; a
// passing candidate is never reported.
func Minimize[S, T any](val *sequence.Value[S, T], run func(sequence.Candidate[S, T]) executor.Outcome, firstFail executor.Outcome, budget Budget, log logging.Logger) Result[S, T] {
	best := val.Candidate()
	bestOutcome := firstFail

	var deadline time.Time
	if budget.Timeout > 0 {
		deadline = time.Now().Add(budget.Timeout)
	}

	shrinks := 0
	timedOut := false
	for {
		if !val.Shrink() {
			break
		}
		// The budget is checked only once a reduction is actually pending: a
		// session that finishes exactly at the budget is not cut short.
		if budget.MaxShrinks > 0 && shrinks >= budget.MaxShrinks {
			timedOut = true
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			timedOut = true
			break
		}
		shrinks++

		candidate := val.Candidate()
		out := run(candidate)
		if out.Failed {
			best = candidate
			bestOutcome = out
			log.Debug("kept reduction",
				zap.Int("transitions", len(candidate.Transitions)),
				zap.Int("failureIndex", out.Index),
			)
			continue
		}

		// The reduced candidate passes: revert it so a passing input is
		// never reported, and move on to the next reduction.
		val.Complicate()
	}

	if timedOut {
		log.Warn("shrink budget exhausted, reporting best candidate found so far",
			zap.Int("shrinks", shrinks),
			zap.Int("transitions", len(best.Transitions)),
		)
	}

	return Result[S, T]{
		Candidate: best,
		Outcome:   bestOutcome,
		Shrinks:   shrinks,
		TimedOut:  timedOut,
	}
}
