package gosm

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"gosm/sequence"
)

// Response contains the result of running a state-machine test.
type Response[S, T any] struct {
	// True if all runs passed.
	Passed bool
	// Number of generated candidates tested. 0 when the failure came from a
	// replayed stored candidate.
	Runs int
	// The seed the run was started with.
	Seed int64

	// Set when the run was aborted before completion, e.g. because
	// generation could not produce valid sequences.
	Err error

	// The minimal failing candidate, if the test failed.
	Minimal sequence.Candidate[S, T]
	// Index of the first failing transition in Minimal.
	// executor.InitialStateIndex if the failure precedes the first
	// transition.
	FailureIndex int
	// The failure cause, threaded through unchanged from the SUT callbacks.
	Cause error
	// Number of reduced candidates replayed while shrinking.
	Shrinks int
	// True if the shrink budget elapsed; Minimal is then the best candidate
	// found, not necessarily minimal.
	TimedOut bool
}

// Generate a response.
// Returns two parameters, result and description.
// Result is true if all runs passed, false otherwise.
// Description is a formatted string providing a detailed description of the
// result. If result is false it contains the minimal failing candidate with
// the failing transition marked.
func (r Response[S, T]) Response() (bool, string) {
	if r.Err != nil {
		return false, fmt.Sprintf("Test aborted after %v runs: %v", r.Runs, r.Err)
	}
	if r.Passed {
		return true, fmt.Sprintf("All %v runs passed. Seed: %v", r.Runs, r.Seed)
	}

	out := fmt.Sprintf("Test failed at transition %v: %v\nSeed: %v. Shrinks: %v.\n", r.FailureIndex, r.Cause, r.Seed, r.Shrinks)
	if r.TimedOut {
		out += "Shrink budget exhausted: the candidate may not be minimal.\n"
	}
	out += "Minimal failing candidate:\n"

	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 0, ' ', 0)
	fmt.Fprintf(wrt, "initial\t%v \n", r.Minimal.Initial)
	for i, transition := range r.Minimal.Transitions {
		marker := ""
		if i == r.FailureIndex {
			marker = "\t<- failed"
		}
		fmt.Fprintf(wrt, "-> %v\t%v%v \n", i, transition, marker)
	}
	wrt.Flush()
	out += buffer.String()
	return false, out
}
