package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"

	"modguard/pkg/metrics"
)

// Config defines circuit breaker configuration
type Config struct {
	Name          string
	MaxRequests   uint32
	Interval      time.Duration
	Timeout       time.Duration
	ReadyToTrip   func(counts gobreaker.Counts) bool
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultConfig returns a default circuit breaker configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.5
		},
	}
}

// Wrapper wraps a function with circuit breaker logic
type Wrapper struct {
	cb *gobreaker.CircuitBreaker
}

// NewWrapper creates a new circuit breaker wrapper
func NewWrapper(cfg Config) *Wrapper {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
	}

	if cfg.ReadyToTrip != nil {
		settings.ReadyToTrip = cfg.ReadyToTrip
	}

	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		updateStateMetrics(name, to)
		if cfg.OnStateChange != nil {
			cfg.OnStateChange(name, from, to)
		}
	}

	return &Wrapper{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn through the circuit breaker.
func (w *Wrapper) Execute(fn func() error) error {
	_, err := w.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	metrics.CircuitBreakerRequests.WithLabelValues(w.cb.Name(), w.cb.State().String()).Inc()
	return err
}

// State returns the current breaker state.
func (w *Wrapper) State() gobreaker.State {
	return w.cb.State()
}

func updateStateMetrics(name string, state gobreaker.State) {
	var code float64
	switch state {
	case gobreaker.StateClosed:
		code = 0
	case gobreaker.StateHalfOpen:
		code = 1
	case gobreaker.StateOpen:
		code = 2
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(code)
}
