package cddb

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker guards one mirror: when a mirror keeps failing, further
// lookups fail fast instead of tying up a connection slot. This is not a
// retry mechanism; a tripped breaker reports the failure once per call.
type CircuitBreaker interface {
	Execute(fn func() (any, error)) (any, error)
	State() gobreaker.State
}

// NewCircuitBreakerConfig returns a factory creating one breaker per
// mirror, for use as Config.NewCircuitBreaker. The breaker opens when at
// least 3 requests have been seen and 60% of them failed.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(addr string) CircuitBreaker {
	return func(addr string) CircuitBreaker {
		settings := gobreaker.Settings{
			Name:        addr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}
		return gobreaker.NewCircuitBreaker[any](settings)
	}
}
