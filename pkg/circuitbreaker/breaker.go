package circuitbreaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config holds circuit breaker configuration
type Config struct {
	Name        string
	MaxRequests uint32        // requests allowed while half-open
	Interval    time.Duration // closed-state window for resetting counts
	Timeout     time.Duration // open-state duration before probing again
	ReadyToTrip func(counts gobreaker.Counts) bool
}

// DefaultConfig trips after at least three requests with a 60% failure ratio.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
}

// New creates a circuit breaker that logs its state changes.
func New(cfg Config) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: cfg.ReadyToTrip,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Execute runs fn through the breaker.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, wrap(cb.Name(), err)
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %q: unexpected result type %T", cb.Name(), result)
	}
	return typed, nil
}

// IsOpen reports whether the breaker currently rejects calls.
func IsOpen(cb *gobreaker.CircuitBreaker) bool {
	return cb.State() == gobreaker.StateOpen
}

func wrap(name string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return fmt.Errorf("circuit breaker %q is open: %w", name, err)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("circuit breaker %q has too many requests: %w", name, err)
	default:
		return err
	}
}
