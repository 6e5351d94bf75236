package composeenv_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/giantswarm/composeenv"
)

func TestOptions_Apply(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opt   composeenv.Option
		check func(t *testing.T, snap composeenv.ConfigSnapshot)
	}{
		"WithStackName": {
			opt: composeenv.WithStackName("shop"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.StackName != "shop" {
					t.Errorf("StackName = %q", snap.StackName)
				}
			},
		},
		"WithFiles": {
			opt: composeenv.WithFiles("a.yaml", "b.yaml"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if !reflect.DeepEqual(snap.Files, []string{"a.yaml", "b.yaml"}) {
					t.Errorf("Files = %v", snap.Files)
				}
			},
		},
		"WithEnvFiles": {
			opt: composeenv.WithEnvFiles("dev.env"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if !reflect.DeepEqual(snap.EnvFiles, []string{"dev.env"}) {
					t.Errorf("EnvFiles = %v", snap.EnvFiles)
				}
			},
		},
		"WithProjectName": {
			opt: composeenv.WithProjectName("shop-ci"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.ProjectName != "shop-ci" {
					t.Errorf("ProjectName = %q", snap.ProjectName)
				}
			},
		},
		"WithScope": {
			opt: composeenv.WithScope(composeenv.ScopeMethod),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.Scope != composeenv.ScopeMethod {
					t.Errorf("Scope = %v", snap.Scope)
				}
			},
		},
		"WithTestClass": {
			opt: composeenv.WithTestClass("CheckoutTest"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.TestClass != "CheckoutTest" {
					t.Errorf("TestClass = %q", snap.TestClass)
				}
			},
		},
		"WithTestMethod": {
			opt: composeenv.WithTestMethod("placesOrder"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.TestMethod != "placesOrder" {
					t.Errorf("TestMethod = %q", snap.TestMethod)
				}
			},
		},
		"WithWaitForRunning": {
			opt: composeenv.WithWaitForRunning("db", "web"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if !reflect.DeepEqual(snap.WaitForRunning, []string{"db", "web"}) {
					t.Errorf("WaitForRunning = %v", snap.WaitForRunning)
				}
			},
		},
		"WithWaitForHealthy": {
			opt: composeenv.WithWaitForHealthy("db"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if !reflect.DeepEqual(snap.WaitForHealthy, []string{"db"}) {
					t.Errorf("WaitForHealthy = %v", snap.WaitForHealthy)
				}
			},
		},
		"WithTimeout": {
			opt: composeenv.WithTimeout(90 * time.Second),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.Timeout != 90*time.Second {
					t.Errorf("Timeout = %v", snap.Timeout)
				}
			},
		},
		"WithPollInterval": {
			opt: composeenv.WithPollInterval(5 * time.Second),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.PollInterval != 5*time.Second {
					t.Errorf("PollInterval = %v", snap.PollInterval)
				}
			},
		},
		"WithOutputDir": {
			opt: composeenv.WithOutputDir("/ci/out"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.OutputDir != "/ci/out" {
					t.Errorf("OutputDir = %q", snap.OutputDir)
				}
			},
		},
		"WithBaseDataDir": {
			opt: composeenv.WithBaseDataDir("/ci/data"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.BaseDataDir != "/ci/data" {
					t.Errorf("BaseDataDir = %q", snap.BaseDataDir)
				}
			},
		},
		"WithComposeCommand": {
			opt: composeenv.WithComposeCommand("podman", "compose"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if !reflect.DeepEqual(snap.ComposeCommand, []string{"podman", "compose"}) {
					t.Errorf("ComposeCommand = %v", snap.ComposeCommand)
				}
			},
		},
		"WithEngineBinary": {
			opt: composeenv.WithEngineBinary("podman"),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.EngineBinary != "podman" {
					t.Errorf("EngineBinary = %q", snap.EngineBinary)
				}
			},
		},
		"WithCommandTimeout": {
			opt: composeenv.WithCommandTimeout(time.Minute),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.CommandTimeout != time.Minute {
					t.Errorf("CommandTimeout = %v", snap.CommandTimeout)
				}
			},
		},
		"WithEnv": {
			opt: composeenv.WithEnv(map[string]string{"TAG": "1.2.3"}),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if snap.Env["TAG"] != "1.2.3" {
					t.Errorf("Env = %v", snap.Env)
				}
			},
		},
		"WithProperties": {
			opt: composeenv.WithProperties(composeenv.NewMapProperties()),
			check: func(t *testing.T, snap composeenv.ConfigSnapshot) {
				if !snap.HasProperties {
					t.Error("properties not set")
				}
			},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tc.check(t, composeenv.ApplyOptionsForTesting(tc.opt))
		})
	}
}

func TestOptions_NothingDeclaredByDefault(t *testing.T) {
	t.Parallel()

	snap := composeenv.ApplyOptionsForTesting()
	if snap.StackName != "" || len(snap.Files) != 0 || snap.Timeout != 0 || snap.Scope != 0 {
		t.Errorf("empty option list must declare nothing, got %+v", snap)
	}
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	tests := map[string]func(){
		"empty stack name":         func() { composeenv.WithStackName("") },
		"no files":                 func() { composeenv.WithFiles() },
		"empty file path":          func() { composeenv.WithFiles("a.yaml", "") },
		"empty env file path":      func() { composeenv.WithEnvFiles("") },
		"empty project name":       func() { composeenv.WithProjectName("") },
		"invalid scope":            func() { composeenv.WithScope(composeenv.Scope(99)) },
		"empty test class":         func() { composeenv.WithTestClass("") },
		"empty test method":        func() { composeenv.WithTestMethod("") },
		"empty wait target":        func() { composeenv.WithWaitForRunning("db", "") },
		"zero timeout":             func() { composeenv.WithTimeout(0) },
		"negative poll interval":   func() { composeenv.WithPollInterval(-time.Second) },
		"empty output dir":         func() { composeenv.WithOutputDir("") },
		"empty base data dir":      func() { composeenv.WithBaseDataDir("") },
		"no compose command":       func() { composeenv.WithComposeCommand() },
		"empty compose command":    func() { composeenv.WithComposeCommand("docker", "") },
		"empty engine binary":      func() { composeenv.WithEngineBinary("") },
		"zero command timeout":     func() { composeenv.WithCommandTimeout(0) },
		"nil properties":           func() { composeenv.WithProperties(nil) },
	}

	for name, fn := range tests {
		fn := fn
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}
