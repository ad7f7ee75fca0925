// Package gosm is a sequential state-machine property-testing engine.
//
// Given an abstract reference model of a stateful system and a concrete
// system under test (SUT), it generates randomized transition sequences,
// applies them to both model and SUT in lock-step while checking
// user-supplied post-conditions and invariants, and shrinks the first
// failing sequence to a minimal reproducible counterexample.
//
// A test is configured with Prepare and started with Run:
//
//	test := gosm.Prepare[State, Transition, Sut](model, sut,
//		gosm.Sizes(1, 20),
//		gosm.Seed(1234),
//	)
//	ok, desc := test.Run().Response()
package gosm

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"gosm/config"
	"gosm/executor"
	"gosm/logging"
	"gosm/record"
	"gosm/seedstore"
	"gosm/sequence"
	"gosm/shrinker"
	"gosm/statemachine"
)

// Number of consecutive exhausted generations tolerated before the run is
// aborted with the generation error.
const generationRetries = 5

// Prepare configures a state-machine test with the given reference model and
// system under test.
//
// See the RunOption constructors for a full overview of possible options.
// Default values are used where no option is provided: sequences of 1 to 50
// transitions, 100 runs, 1000 shrinks, a time-based seed and no persistence.
func Prepare[S, T, C any](model statemachine.ReferenceModel[S, T], sut statemachine.SystemUnderTest[S, T, C], opts ...RunOption) Test[S, T, C] {
	var (
		sizes = sequence.SizeRange{Min: 1, Max: 50}

		// Maximum number of generated candidates tested
		maxRuns = 100

		budget = shrinker.Budget{MaxShrinks: 1000}

		seed = time.Now().UnixNano()

		verbose      = false
		ignorePanics = false

		log logging.Logger

		rec *record.Recorder

		store     *seedstore.Store
		storeName string
		codec     seedstore.Codec[S, T]
	)

	for _, opt := range opts {
		switch t := opt.(type) {
		case config.SizesOption:
			sizes = t.Sizes
		case config.MaxRunsOption:
			maxRuns = t.MaxRuns
		case config.MaxShrinksOption:
			budget.MaxShrinks = t.N
		case config.TimeBudgetOption:
			budget.Timeout = t.D
		case config.SeedOption:
			seed = t.Seed
		case config.VerboseOption:
			verbose = true
		case config.IgnorePanicOption:
			ignorePanics = true
		case config.LoggerOption:
			log = t.Log
		case config.RecorderOption:
			rec = t.Rec
		case config.SeedStoreOption[S, T]:
			store = t.Store
			storeName = t.Name
			codec = t.Codec
		}
	}
	if log == nil {
		if verbose {
			log = logging.Console()
		} else {
			log = logging.Nop()
		}
	}

	return Test[S, T, C]{
		model: model,
		sut:   sut,

		sizes:   sizes,
		maxRuns: maxRuns,
		budget:  budget,
		seed:    seed,

		verbose:      verbose,
		ignorePanics: ignorePanics,

		log: log,
		rec: rec,

		store:     store,
		storeName: storeName,
		codec:     codec,
	}
}

// Stores a configured test. Can be used to run the test multiple times;
// configuration is read once by Prepare and treated as immutable.
type Test[S, T, C any] struct {
	model statemachine.ReferenceModel[S, T]
	sut   statemachine.SystemUnderTest[S, T, C]

	sizes   sequence.SizeRange
	maxRuns int
	budget  shrinker.Budget
	seed    int64

	verbose      bool
	ignorePanics bool

	log logging.Logger
	rec *record.Recorder

	store     *seedstore.Store
	storeName string
	codec     seedstore.Codec[S, T]
}

// Run generates and tests candidates until one fails or maxRuns is reached.
//
// If a seed store is configured, a previously persisted failing candidate is
// replayed before fresh generation. On failure the candidate is shrunk to a
// minimal counterexample, persisted, and reported in the Response.
func (t Test[S, T, C]) Run() Response[S, T] {
	rng := rand.New(rand.NewSource(t.seed))
	exec := executor.New(t.model, t.sut, t.log, t.verbose, t.ignorePanics, nil)

	if resp, ok := t.replayStored(exec); ok {
		return resp
	}

	exhausted := 0
	for run := 1; run <= t.maxRuns; run++ {
		val, err := sequence.Generate(t.model, t.sizes, rng)
		if err != nil {
			if errors.Is(err, sequence.GenerationExhaustedError) {
				exhausted++
				t.log.Warn("sequence generation exhausted",
					zap.Int("attempt", exhausted),
					zap.Error(err),
				)
				if exhausted >= generationRetries {
					return Response[S, T]{Err: err, Runs: run, Seed: t.seed}
				}
				continue
			}
			return Response[S, T]{Err: err, Runs: run, Seed: t.seed}
		}
		exhausted = 0

		out := exec.RunSequential(val.Candidate())
		if !out.Failed {
			continue
		}
		return t.minimize(val, out, exec, run)
	}

	return Response[S, T]{Passed: true, Runs: t.maxRuns, Seed: t.seed}
}

// Replay a persisted failing candidate, if one is stored for this test.
// Returns false if there is none or it no longer fails.
func (t Test[S, T, C]) replayStored(exec *executor.Executor[S, T, C]) (Response[S, T], bool) {
	if t.store == nil || t.codec == nil {
		return Response[S, T]{}, false
	}

	data, err := t.store.Get(t.storeName)
	if err != nil {
		if !errors.Is(err, seedstore.NotFoundError) {
			t.log.Warn("reading stored failing candidate", zap.Error(err))
		}
		return Response[S, T]{}, false
	}
	c, err := t.codec.Decode(data)
	if err != nil {
		t.log.Warn("decoding stored failing candidate", zap.Error(err))
		return Response[S, T]{}, false
	}

	t.log.Info("replaying stored failing candidate",
		zap.String("test", t.storeName),
		zap.Int("transitions", len(c.Transitions)),
	)
	out := exec.RunSequential(c)
	if !out.Failed {
		// The failure no longer reproduces. Keep the entry and continue
		// with fresh generation: deleting is the user's call.
		t.log.Info("stored candidate passed", zap.String("test", t.storeName))
		return Response[S, T]{}, false
	}

	val := sequence.FromCandidate(t.model, t.sizes.Min, c)
	return t.minimize(val, out, exec, 0), true
}

func (t Test[S, T, C]) minimize(val *sequence.Value[S, T], firstFail executor.Outcome, exec *executor.Executor[S, T, C], runs int) Response[S, T] {
	res := shrinker.Minimize(val, exec.RunSequential, firstFail, t.budget, t.log)

	t.persist(res.Candidate)
	t.trace(res.Candidate)

	return Response[S, T]{
		Runs: runs,
		Seed: t.seed,

		Minimal:      res.Candidate,
		FailureIndex: res.Outcome.Index,
		Cause:        res.Outcome.Cause,
		Shrinks:      res.Shrinks,
		TimedOut:     res.TimedOut,
	}
}

func (t Test[S, T, C]) persist(c sequence.Candidate[S, T]) {
	if t.store == nil || t.codec == nil {
		return
	}
	data, err := t.codec.Encode(c)
	if err != nil {
		t.log.Warn("encoding failing candidate", zap.Error(err))
		return
	}
	if err := t.store.Put(t.storeName, data); err != nil {
		t.log.Warn("storing failing candidate", zap.Error(err))
	}
}

// Replay the minimal candidate once more with the trace recorder attached,
// so the recorded trace covers exactly the reported counterexample.
func (t Test[S, T, C]) trace(c sequence.Candidate[S, T]) {
	if t.rec == nil {
		return
	}
	texec := executor.New(t.model, t.sut, t.log, t.verbose, t.ignorePanics, t.rec)
	texec.RunSequential(c)
}
