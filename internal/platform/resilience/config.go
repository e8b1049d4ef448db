package resilience

import "time"

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = time.Minute
)

// CircuitBreakerConfig guards calls to the match provider. Zero values fall
// back to five failures, a one minute open window and a single probe.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled. A nil
// breaker lets every call through.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	threshold := cfg.FailureThreshold
	if threshold < 1 {
		threshold = defaultFailureThreshold
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = defaultOpenTimeout
	}
	return NewCircuitBreaker(threshold, openTimeout, cfg.HalfOpenMaxReq)
}
