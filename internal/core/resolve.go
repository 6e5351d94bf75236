package core

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/giantswarm/composeenv/internal/sentinel"
)

// Property keys read by the resolver as overrides for declared configuration.
const (
	PropStackName   = "composeenv.stack.name"
	PropStackFiles  = "composeenv.stack.files"
	PropEnvFiles    = "composeenv.stack.envfiles"
	PropProjectName = "composeenv.project.name"
	PropLifecycle   = "composeenv.lifecycle"
	PropWaitRunning = "composeenv.wait.running"
	PropWaitHealthy = "composeenv.wait.healthy"
	PropTimeoutSec  = "composeenv.timeout.seconds"
	PropPollSec     = "composeenv.poll.seconds"
	PropOutputDir   = "composeenv.output.dir"
)

// Property keys published after a successful setup.
const (
	PropStateFile      = "composeenv.state.file"
	PropComposeProject = "composeenv.compose.project"
)

// ErrInvalidPropertyValue is wrapped into errors returned for property
// override values that cannot be parsed.
const ErrInvalidPropertyValue = sentinel.Error("invalid property value")

// Resolution defaults applied when neither declared configuration nor a
// property override names a field.
const (
	DefaultTimeout        = 60 * time.Second
	DefaultPollInterval   = 2 * time.Second
	DefaultCommandTimeout = 2 * time.Minute
	DefaultEngineBinary   = "docker"

	// defaultDirName is the directory name under the system temp directory
	// used for composeenv's own output and bookkeeping.
	defaultDirName = "composeenv"
)

// DefaultComposeCommand is the engine compose invocation used when none is
// configured.
func DefaultComposeCommand() []string {
	return []string{"docker", "compose"}
}

// DefaultOutputDir is where state files land when no output directory is
// configured.
func DefaultOutputDir() string {
	return filepath.Join(os.TempDir(), defaultDirName, "out")
}

// DefaultBaseDataDir is where the stack registry lives when no base data
// directory is configured.
func DefaultBaseDataDir() string {
	return filepath.Join(os.TempDir(), defaultDirName)
}

// ConflictError reports a field named by both declared configuration and a
// property override. Exactly one source may supply any field.
type ConflictError struct {
	// Field is the human-readable field name, e.g. "stack name".
	Field string
	// Key is the property key that collided with the declaration.
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("configuration conflict: %s is declared in code and overridden by property %s; supply it from one source only", e.Field, e.Key)
}

// Resolve merges declared configuration with property overrides, applies
// defaults, and validates the result. Declared zero values count as "not
// declared"; a field carried by both sources is a *ConflictError.
func Resolve(declared Config, props Properties) (Config, error) {
	cfg := declared
	var err error

	if cfg.StackName, err = resolveString(declared.StackName, props, PropStackName, "stack name"); err != nil {
		return Config{}, err
	}
	if cfg.Files, err = resolveList(declared.Files, props, PropStackFiles, "stack definition files"); err != nil {
		return Config{}, err
	}
	if cfg.EnvFiles, err = resolveList(declared.EnvFiles, props, PropEnvFiles, "env files"); err != nil {
		return Config{}, err
	}
	if cfg.ProjectName, err = resolveString(declared.ProjectName, props, PropProjectName, "project name"); err != nil {
		return Config{}, err
	}
	if cfg.WaitForRunning, err = resolveList(declared.WaitForRunning, props, PropWaitRunning, "running wait targets"); err != nil {
		return Config{}, err
	}
	if cfg.WaitForHealthy, err = resolveList(declared.WaitForHealthy, props, PropWaitHealthy, "healthy wait targets"); err != nil {
		return Config{}, err
	}
	if cfg.OutputDir, err = resolveString(declared.OutputDir, props, PropOutputDir, "output directory"); err != nil {
		return Config{}, err
	}
	if cfg.Scope, err = resolveScope(declared.Scope, props); err != nil {
		return Config{}, err
	}
	if cfg.Timeout, err = resolveSeconds(declared.Timeout, props, PropTimeoutSec, "readiness timeout"); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = resolveSeconds(declared.PollInterval, props, PropPollSec, "poll interval"); err != nil {
		return Config{}, err
	}

	if cfg.Scope == ScopeUnspecified {
		cfg.Scope = ScopeClass
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = cfg.StackName
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir()
	}
	if cfg.BaseDataDir == "" {
		cfg.BaseDataDir = DefaultBaseDataDir()
	}
	if len(cfg.ComposeCommand) == 0 {
		cfg.ComposeCommand = DefaultComposeCommand()
	}
	if cfg.EngineBinary == "" {
		cfg.EngineBinary = DefaultEngineBinary
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
	// The method identifier only participates in naming and state-file
	// layout under method scope.
	if cfg.Scope == ScopeClass {
		cfg.TestMethod = ""
	}

	cfg.Files = slices.Clone(cfg.Files)
	cfg.EnvFiles = slices.Clone(cfg.EnvFiles)
	cfg.WaitForRunning = slices.Clone(cfg.WaitForRunning)
	cfg.WaitForHealthy = slices.Clone(cfg.WaitForHealthy)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolveString(declared string, props Properties, key, field string) (string, error) {
	v, ok := props.Get(key)
	if !ok {
		return declared, nil
	}
	if declared != "" {
		return "", &ConflictError{Field: field, Key: key}
	}
	return v, nil
}

func resolveList(declared []string, props Properties, key, field string) ([]string, error) {
	v, ok := props.Get(key)
	if !ok {
		return declared, nil
	}
	if len(declared) != 0 {
		return nil, &ConflictError{Field: field, Key: key}
	}
	return splitList(v), nil
}

func resolveScope(declared Scope, props Properties) (Scope, error) {
	v, ok := props.Get(PropLifecycle)
	if !ok {
		return declared, nil
	}
	if declared != ScopeUnspecified {
		return ScopeUnspecified, &ConflictError{Field: "lifecycle scope", Key: PropLifecycle}
	}
	scope, err := ParseScope(strings.TrimSpace(v))
	if err != nil {
		return ScopeUnspecified, fmt.Errorf("property %s: %q is not a lifecycle scope: %w", PropLifecycle, v, ErrInvalidPropertyValue)
	}
	return scope, nil
}

func resolveSeconds(declared time.Duration, props Properties, key, field string) (time.Duration, error) {
	v, ok := props.Get(key)
	if !ok {
		return declared, nil
	}
	if declared != 0 {
		return 0, &ConflictError{Field: field, Key: key}
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("property %s: %q is not a positive number of seconds: %w", key, v, ErrInvalidPropertyValue)
	}
	return time.Duration(n) * time.Second, nil
}

// splitList parses comma-separated property text into a list, trimming
// whitespace and dropping empty items.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
