package compose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/giantswarm/composeenv/internal/sentinel"
)

// ErrIntervalNotPositive indicates a non-positive poll interval.
const ErrIntervalNotPositive = sentinel.Error("poll interval must be positive")

// ErrTimeoutNotPositive indicates a non-positive wait timeout.
const ErrTimeoutNotPositive = sentinel.Error("wait timeout must be positive")

// WaitSpec describes one readiness wait: which services, which target state,
// and the polling budget.
type WaitSpec struct {
	// Services are the logical service names that must satisfy Target.
	Services []string
	// Target is the readiness state to reach.
	Target Readiness
	// Timeout bounds the total wait.
	Timeout time.Duration
	// Interval is the sleep between poll attempts.
	Interval time.Duration
}

// Attempts returns the number of poll attempts the wait engine performs:
// max(1, floor(Timeout/Interval)). At least one attempt always occurs, even
// when the timeout is shorter than the interval.
func (s WaitSpec) Attempts() int {
	if s.Interval <= 0 {
		return 1
	}
	n := int(s.Timeout / s.Interval)
	if n < 1 {
		return 1
	}
	return n
}

// TimeoutError reports that one or more services never satisfied the target
// readiness within the timeout. Unsatisfied names every service still short
// of the target at the final attempt.
type TimeoutError struct {
	Target      Readiness
	Timeout     time.Duration
	Unsatisfied []string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("services not %s after %s: %s",
		e.Target, e.Timeout, strings.Join(e.Unsatisfied, ", "))
}

// StatusFunc returns the current per-service state of a stack, keyed by
// logical service name.
type StatusFunc func(ctx context.Context) (map[string]ServiceInfo, error)

// Wait polls query until every service in spec satisfies the target
// readiness or the polling budget is exhausted. It performs exactly
// spec.Attempts() checks, sleeping spec.Interval between attempts (non-busy),
// and returns a *TimeoutError naming the unsatisfied services on exhaustion.
//
// A query error counts as a failed attempt rather than aborting the wait;
// transient engine hiccups during startup are expected.
func Wait(ctx context.Context, clk Clock, log *slog.Logger, spec WaitSpec, query StatusFunc) error {
	if len(spec.Services) == 0 {
		return nil
	}
	if spec.Interval <= 0 {
		return ErrIntervalNotPositive
	}
	if spec.Timeout <= 0 {
		return ErrTimeoutNotPositive
	}
	if log == nil {
		log = slog.Default()
	}
	if clk == nil {
		clk = RealClock()
	}

	attempts := spec.Attempts()
	unsatisfied := append([]string{}, spec.Services...)

	for attempt := 1; attempt <= attempts; attempt++ {
		services, err := query(ctx)
		if err != nil {
			log.Debug("service status query failed",
				"target", spec.Target.String(), "attempt", attempt, "error", err)
		} else {
			unsatisfied = unsatisfied[:0]
			for _, name := range spec.Services {
				info, ok := services[name]
				if !ok || !spec.Target.Satisfied(info.Status) {
					unsatisfied = append(unsatisfied, name)
				}
			}
			if len(unsatisfied) == 0 {
				log.Debug("wait succeeded",
					"target", spec.Target.String(), "attempt", attempt)
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s services: %w", spec.Target, ctx.Err())
		case <-clk.After(spec.Interval):
		}
	}

	return &TimeoutError{
		Target:      spec.Target,
		Timeout:     spec.Timeout,
		Unsatisfied: append([]string{}, unsatisfied...),
	}
}
