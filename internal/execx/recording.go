package execx

import (
	"context"
	"sync"
)

// Scripted is a canned response for one RecordingRunner invocation.
type Scripted struct {
	Output Output
	Err    error
}

// RecordingRunner is a Runner test double. It records every Spec it
// receives and replays scripted responses in order. Once the script is
// exhausted it returns successful empty outputs.
//
// Safe for concurrent use, though the suite's flows are single-threaded.
type RecordingRunner struct {
	mu      sync.Mutex
	calls   []Spec
	script  []Scripted
	nextIdx int
}

// NewRecordingRunner returns a RecordingRunner replaying the given script.
func NewRecordingRunner(script ...Scripted) *RecordingRunner {
	return &RecordingRunner{script: script}
}

// Run records spec and returns the next scripted response.
func (r *RecordingRunner) Run(_ context.Context, spec Spec) (Output, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, spec)
	if r.nextIdx < len(r.script) {
		s := r.script[r.nextIdx]
		r.nextIdx++
		return s.Output, s.Err
	}
	return Output{}, nil
}

// Calls returns a copy of every recorded invocation, in order.
func (r *RecordingRunner) Calls() []Spec {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Spec, len(r.calls))
	copy(out, r.calls)
	return out
}
