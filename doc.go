// Package composeenv starts a multi-service container stack for the duration
// of a test unit, waits until the stack is usable, publishes connection
// details for test code, and guarantees teardown on every exit path.
//
// Stacks are described by standard compose definition files and driven
// through the engine CLI (docker compose by default; any compatible CLI such
// as podman compose can be substituted). Each setup derives a unique project
// name, so concurrent test processes sharing one engine daemon do not
// interfere.
//
// # Basic Usage
//
//	ctx := context.Background()
//
//	stack := composeenv.New(
//	    composeenv.WithStackName("shop"),
//	    composeenv.WithFiles("testdata/compose.yaml"),
//	    composeenv.WithTestClass("CheckoutTest"),
//	    composeenv.WithWaitForHealthy("db"),
//	)
//
//	err := stack.Around(ctx, func(ctx context.Context, run *composeenv.Run) error {
//	    port := run.State.Services["db"].Ports[0].Host
//	    // connect to 127.0.0.1:port and exercise the system under test
//	    return nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Around tears the stack down even when the test function fails or panics.
// For frameworks with separate before/after hooks, call Setup and Cleanup
// directly and carry the returned *Run between them.
//
// # Configuration Sources
//
// Every stack field can come from declared options or from process-wide
// properties (environment variables by default, e.g. COMPOSEENV_STACK_NAME
// for composeenv.stack.name). Supplying the same field from both sources is
// a configuration error, reported before any engine process is touched.
//
// # State File
//
// After the stack is ready, a JSON state file with per-service container
// ids, names, states, and published ports is written to a deterministic
// location under the output directory, and its path is published under the
// composeenv.state.file property for out-of-process consumers.
package composeenv
