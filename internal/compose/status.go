package compose

import (
	"fmt"
	"strings"
)

// Readiness is the target state a service must reach before the wrapped test
// unit is allowed to proceed.
type Readiness int

const (
	// Running is satisfied when the engine reports the service as up.
	Running Readiness = iota
	// Healthy is satisfied only when the engine's health check passes.
	// A plain running status does not satisfy Healthy.
	Healthy
)

// String returns the readiness name.
func (r Readiness) String() string {
	switch r {
	case Running:
		return "running"
	case Healthy:
		return "healthy"
	default:
		return fmt.Sprintf("Readiness(%d)", int(r))
	}
}

// IsValid reports whether r is a recognized Readiness value.
func (r Readiness) IsValid() bool {
	return r == Running || r == Healthy
}

// Satisfied classifies a free-text engine status against the target
// readiness using case-insensitive substring rules:
//
//   - Running: status contains "up" or "running".
//   - Healthy: status contains "healthy".
//
// The substrings are an external contract with the engine's status
// vocabulary ("Up 3 seconds", "running", "Up 10 seconds (healthy)",
// "Exited (0)"); they are pinned by targeted tests rather than derived from
// an enum.
func (r Readiness) Satisfied(status string) bool {
	s := strings.ToLower(status)
	switch r {
	case Running:
		return strings.Contains(s, "up") || strings.Contains(s, "running")
	case Healthy:
		return strings.Contains(s, "healthy")
	default:
		return false
	}
}
