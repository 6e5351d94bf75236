// Package process runs external commands with a bounded execution budget.
//
// Run executes a command, enforces the caller's timeout, captures stdout and
// stderr verbatim, and reports the exit code. On Linux the command runs in
// its own process group with a parent-death signal so that no container
// engine invocation outlives the test binary.
package process
