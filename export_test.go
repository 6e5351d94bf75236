package composeenv

import "time"

// ConfigSnapshot holds a copy of stackConfig fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	StackName      string
	Files          []string
	EnvFiles       []string
	ProjectName    string
	Scope          Scope
	TestClass      string
	TestMethod     string
	WaitForRunning []string
	WaitForHealthy []string
	Timeout        time.Duration
	PollInterval   time.Duration
	OutputDir      string
	BaseDataDir    string
	ComposeCommand []string
	EngineBinary   string
	CommandTimeout time.Duration
	Env            map[string]string
	HasProperties  bool
}

// ApplyOptionsForTesting applies the given options to an empty stackConfig
// and returns a ConfigSnapshot of the result. An empty config is the real
// starting point: defaults are applied during resolution on Setup, not at
// construction.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := stackConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return ConfigSnapshot{
		StackName:      cfg.StackName,
		Files:          cfg.Files,
		EnvFiles:       cfg.EnvFiles,
		ProjectName:    cfg.ProjectName,
		Scope:          cfg.Scope,
		TestClass:      cfg.TestClass,
		TestMethod:     cfg.TestMethod,
		WaitForRunning: cfg.WaitForRunning,
		WaitForHealthy: cfg.WaitForHealthy,
		Timeout:        cfg.Timeout,
		PollInterval:   cfg.PollInterval,
		OutputDir:      cfg.OutputDir,
		BaseDataDir:    cfg.BaseDataDir,
		ComposeCommand: cfg.ComposeCommand,
		EngineBinary:   cfg.EngineBinary,
		CommandTimeout: cfg.CommandTimeout,
		Env:            cfg.Env,
		HasProperties:  cfg.props != nil,
	}
}
