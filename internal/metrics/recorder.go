// Package metrics records lookup and HTTP request observations.
package metrics

import "time"

const OutcomeSuccess = "success"

// Recorder defines observability hooks for insight lookups and HTTP traffic.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// ObserveLookup records one insight lookup; outcome is "success" or an error kind.
	ObserveLookup(lookup string, d time.Duration, outcome string)
	ObserveRequest(route string, status int, d time.Duration)
	IncRefresh(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLookup(string, time.Duration, string) {}
func (NoopRecorder) ObserveRequest(string, int, time.Duration)   {}
func (NoopRecorder) IncRefresh(bool)                             {}
