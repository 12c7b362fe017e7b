// Package runtime executes a request spec against the network.
//
// It is a boundary around net/http: it never reads or writes the project
// store, it only turns a RequestSpec into a RuntimeState snapshot.
package runtime

import "time"

// Step is the phase of one execution.
type Step string

const (
	// StepIdle means nothing has run yet.
	StepIdle Step = "idle"
	// StepRunning means the request is in flight.
	StepRunning Step = "running"
	// StepSuccess means the server answered with a 2xx status.
	StepSuccess Step = "success"
	// StepUnsuccess means the server answered with any other status.
	StepUnsuccess Step = "unsuccess"
	// StepError means no response was received at all.
	StepError Step = "error"
)

// KeyValue is one header as sent or received.
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// RequestSnapshot is the request actually sent, after substitution.
type RequestSnapshot struct {
	URL     string     `json:"url" yaml:"url"`
	Method  string     `json:"method" yaml:"method"`
	Body    string     `json:"body" yaml:"body"`
	Headers []KeyValue `json:"headers" yaml:"headers"`
}

// ResponseSnapshot is the response received. It is blank when the server was never reached.
type ResponseSnapshot struct {
	Status  int        `json:"status" yaml:"status"`
	Body    string     `json:"body" yaml:"body"`
	Headers []KeyValue `json:"headers" yaml:"headers"`
}

// RuntimeState is the observable result of one execution.
type RuntimeState struct {
	Step         Step             `json:"step" yaml:"step"`
	Request      RequestSnapshot  `json:"request" yaml:"request"`
	Response     ResponseSnapshot `json:"response" yaml:"response"`
	ErrorMessage string           `json:"errorMessage" yaml:"errorMessage"`
	StartedAt    time.Time        `json:"startedAt" yaml:"startedAt"`
	FinishedAt   time.Time        `json:"finishedAt" yaml:"finishedAt"`
}

// Idle returns the state before anything ran.
func Idle() RuntimeState {
	return RuntimeState{
		Step:     StepIdle,
		Request:  RequestSnapshot{Headers: []KeyValue{}},
		Response: ResponseSnapshot{Headers: []KeyValue{}},
	}
}

// Duration is how long the execution took, zero until it finished.
func (s RuntimeState) Duration() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Finished reports whether the execution reached a terminal step.
func (s RuntimeState) Finished() bool {
	return s.Step == StepSuccess || s.Step == StepUnsuccess || s.Step == StepError
}
