package core

import (
	"os"
	"strings"
	"sync"
)

// Properties is the process-wide property collaborator: the override source
// read by the configuration resolver and the publication target for the
// state-file path and resolved project name. It is externally substitutable
// so tests can run against an in-memory implementation.
//
// Keys use the documented dotted namespace (e.g. "composeenv.stack.name").
type Properties interface {
	// Get returns the value for a dotted key and whether it was set.
	Get(key string) (string, bool)
	// Set publishes a value under a dotted key.
	Set(key, value string)
}

// envProperties backs Properties with the process environment. Dotted keys
// map to upper-snake variable names: "composeenv.stack.name" becomes
// "COMPOSEENV_STACK_NAME".
type envProperties struct{}

// EnvProperties returns the default Properties implementation backed by the
// process environment.
func EnvProperties() Properties {
	return envProperties{}
}

func (envProperties) Get(key string) (string, bool) {
	v, ok := os.LookupEnv(envKey(key))
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (envProperties) Set(key, value string) {
	// Setenv only fails for invalid names; keys here come from package
	// constants, so the error is unreachable in practice.
	_ = os.Setenv(envKey(key), value)
}

// envKey converts a dotted property key to its environment variable form.
func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// MapProperties is an in-memory Properties implementation for tests.
// Safe for concurrent use.
type MapProperties struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMapProperties returns an empty in-memory property store.
func NewMapProperties() *MapProperties {
	return &MapProperties{values: make(map[string]string)}
}

// Get implements Properties.
func (p *MapProperties) Get(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set implements Properties.
func (p *MapProperties) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}
