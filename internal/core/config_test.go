package core

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		StackName:      "shop",
		Files:          []string{"compose.yaml"},
		TestClass:      "CheckoutTest",
		Scope:          ScopeClass,
		Timeout:        60 * time.Second,
		PollInterval:   2 * time.Second,
		OutputDir:      "/out",
		BaseDataDir:    "/data",
		ComposeCommand: []string{"docker", "compose"},
		EngineBinary:   "docker",
		CommandTimeout: 2 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := map[string]struct {
		mutate  func(*Config)
		wantErr error
	}{
		"empty stack name": {
			mutate:  func(c *Config) { c.StackName = "" },
			wantErr: ErrEmptyStackName,
		},
		"no files": {
			mutate:  func(c *Config) { c.Files = nil },
			wantErr: ErrNoFiles,
		},
		"empty test class": {
			mutate:  func(c *Config) { c.TestClass = "" },
			wantErr: ErrEmptyTestClass,
		},
		"method scope without method": {
			mutate:  func(c *Config) { c.Scope = ScopeMethod },
			wantErr: ErrEmptyTestMethod,
		},
		"unspecified scope": {
			mutate:  func(c *Config) { c.Scope = ScopeUnspecified },
			wantErr: ErrInvalidScope,
		},
		"zero timeout": {
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrTimeoutInvalid,
		},
		"negative poll interval": {
			mutate:  func(c *Config) { c.PollInterval = -time.Second },
			wantErr: ErrIntervalInvalid,
		},
		"empty output dir": {
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: ErrEmptyOutputDir,
		},
		"empty base data dir": {
			mutate:  func(c *Config) { c.BaseDataDir = "" },
			wantErr: ErrEmptyBaseDataDir,
		},
		"no compose command": {
			mutate:  func(c *Config) { c.ComposeCommand = nil },
			wantErr: ErrNoComposeCommand,
		},
		"empty engine binary": {
			mutate:  func(c *Config) { c.EngineBinary = "" },
			wantErr: ErrEmptyEngineBinary,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}

	t.Run("all violations reported at once", func(t *testing.T) {
		t.Parallel()
		err := Config{}.Validate()
		for _, want := range []error{ErrEmptyStackName, ErrNoFiles, ErrEmptyTestClass, ErrTimeoutInvalid, ErrEmptyEngineBinary} {
			if !errors.Is(err, want) {
				t.Errorf("missing %v in %v", want, err)
			}
		}
	})
}

func TestScope(t *testing.T) {
	t.Parallel()

	if got := ScopeClass.String(); got != "class" {
		t.Errorf("ScopeClass.String() = %q", got)
	}
	if got := ScopeMethod.String(); got != "method" {
		t.Errorf("ScopeMethod.String() = %q", got)
	}

	if s, err := ParseScope("class"); err != nil || s != ScopeClass {
		t.Errorf("ParseScope(class) = %v, %v", s, err)
	}
	if s, err := ParseScope("method"); err != nil || s != ScopeMethod {
		t.Errorf("ParseScope(method) = %v, %v", s, err)
	}
	if _, err := ParseScope("suite"); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("ParseScope(suite) error = %v, want ErrInvalidScope", err)
	}
}
