package observers

import (
	"sync"
	"time"
)

// TraceEvent is one step of an agent run: a prompt render, a model call or
// a tool call. The sequence number orders events within a single run.
type TraceEvent struct {
	Seq    int       `json:"seq"`
	Stage  string    `json:"stage"`
	Name   string    `json:"name"`
	Input  string    `json:"input,omitempty"`
	Output string    `json:"output,omitempty"`
	Err    string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// TraceRecorder collects TraceEvents from callback handlers. Callbacks may
// fire from graph-internal goroutines, so access is mutex-protected.
type TraceRecorder struct {
	mu     sync.Mutex
	seq    int
	events []TraceEvent
}

func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{}
}

func (r *TraceRecorder) add(stage, name, input, output string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	ev := TraceEvent{
		Seq:    r.seq,
		Stage:  stage,
		Name:   name,
		Input:  truncate(input, maxTraceField),
		Output: truncate(output, maxTraceField),
		At:     time.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
	}
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events in order.
func (r *TraceRecorder) Events() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]TraceEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Reset clears the recorder so it can be reused for the next run.
func (r *TraceRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq = 0
	r.events = nil
}

const maxTraceField = 2000

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
