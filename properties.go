package composeenv

import "github.com/giantswarm/composeenv/internal/core"

// Properties is the process-wide property collaborator: the override source
// read during configuration resolution and the publication target for the
// state-file path and resolved project name. Keys use the dotted composeenv
// namespace.
//
// Properties is a type alias to the internal interface so custom
// implementations supplied via WithProperties satisfy it directly.
type Properties = core.Properties

// Property keys recognized as configuration overrides. With the default
// environment-backed properties, each dotted key maps to its upper-snake
// environment variable (composeenv.stack.name → COMPOSEENV_STACK_NAME).
const (
	PropStackName   = core.PropStackName
	PropStackFiles  = core.PropStackFiles
	PropEnvFiles    = core.PropEnvFiles
	PropProjectName = core.PropProjectName
	PropLifecycle   = core.PropLifecycle
	PropWaitRunning = core.PropWaitRunning
	PropWaitHealthy = core.PropWaitHealthy
	PropTimeoutSec  = core.PropTimeoutSec
	PropPollSec     = core.PropPollSec
	PropOutputDir   = core.PropOutputDir
)

// Property keys published after a successful Setup.
const (
	// PropStateFile carries the path of the written state file.
	PropStateFile = core.PropStateFile

	// PropComposeProject carries the resolved unique project name.
	PropComposeProject = core.PropComposeProject
)

// EnvProperties returns the default Properties implementation, backed by the
// process environment.
//
//nolint:ireturn // Returns the Properties interface by design.
func EnvProperties() Properties {
	return core.EnvProperties()
}

// MapProperties is an in-memory Properties implementation, useful in tests
// that must not touch the process environment. Safe for concurrent use.
type MapProperties = core.MapProperties

// NewMapProperties returns an empty in-memory property store.
func NewMapProperties() *MapProperties {
	return core.NewMapProperties()
}
