// Package core implements the composeenv lifecycle harness: configuration
// resolution against process-wide properties, the setup/cleanup state machine
// around one stack instance per test unit, and the stack registry used to
// purge projects left behind by crashed runs.
package core
