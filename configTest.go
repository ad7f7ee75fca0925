package gosm

import (
	"time"

	"gosm/config"
	"gosm/logging"
	"gosm/record"
	"gosm/seedstore"
	"gosm/sequence"
)

// An option used to configure a test
type RunOption interface {
	// noop method
	RunOpt()
}

// Configure the inclusive bounds on the number of transitions in a generated
// sequence.
//
// Default value is [1, 50]. Shrinking never deletes transitions below min.
func Sizes(min, max int) RunOption {
	return config.SizesOption{Sizes: sequence.SizeRange{Min: min, Max: max}}
}

// Configure the maximum number of generated candidates tested.
//
// Default value is 100.
func MaxRuns(maxRuns int) RunOption {
	return config.MaxRunsOption{MaxRuns: maxRuns}
}

// Configure the maximum number of reduced candidates replayed while
// shrinking. When the budget is exhausted the best candidate found so far is
// reported with the TimedOut flag set.
//
// Default value is 1000. Zero means unlimited.
func MaxShrinks(n int) RunOption {
	return config.MaxShrinksOption{N: n}
}

// Configure a wall-clock budget for the shrink session.
//
// Default is unlimited.
func TimeBudget(d time.Duration) RunOption {
	return config.TimeBudgetOption{D: d}
}

// Configure the seed used for candidate generation. Runs with the same seed,
// model and configuration generate the same candidates.
//
// Default value is time-based.
func Seed(seed int64) RunOption {
	return config.SeedOption{Seed: seed}
}

// Emit a trace of every applied transition through the logger.
func Verbose() RunOption {
	return config.VerboseOption{}
}

// Set the ignorePanic flag to true.
//
// If true, panics raised in SUT callbacks are not caught and will stop the
// test run; this makes it easier to inspect the state in a debugger at the
// point of the panic. If false they are captured and become the failure
// cause of the run, which is then shrunk as usual.
func IgnorePanic() RunOption {
	return config.IgnorePanicOption{}
}

// Use the provided logger.
//
// Default is a nop logger, or a console logger when Verbose is set.
func WithLogger(log logging.Logger) RunOption {
	return config.LoggerOption{Log: log}
}

// Record the transition trace of the minimal failing candidate to the
// provided recorder.
func WithRecorder(rec *record.Recorder) RunOption {
	return config.RecorderOption{Rec: rec}
}

// Persist minimal failing candidates to the store under the given test name,
// and replay a stored candidate before fresh generation.
//
// The codec must encode the model's State and Transition types;
// seedstore.YAML works for plain data types.
func WithSeedStore[S, T any](store *seedstore.Store, name string, codec seedstore.Codec[S, T]) RunOption {
	return config.SeedStoreOption[S, T]{Store: store, Name: name, Codec: codec}
}
