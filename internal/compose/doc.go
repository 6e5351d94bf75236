// Package compose drives the container engine's compose CLI for one stack:
// starting and stopping a project, querying per-service status, capturing
// logs, and waiting for services to reach a target readiness state.
//
// All engine interaction goes through the bounded runner in
// internal/process; nothing in this package blocks without a timeout.
package compose
