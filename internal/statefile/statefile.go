package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/giantswarm/composeenv/internal/compose"
	"github.com/giantswarm/composeenv/internal/fileutil"
	"github.com/giantswarm/composeenv/internal/sentinel"
)

// ErrEmptyClass is returned when no test class identifier was provided; the
// class identifier is part of the deterministic path and cannot be defaulted.
const ErrEmptyClass = sentinel.Error("test class identifier must not be empty")

// Lifecycle strings written to the state file. These are a cross-tool
// contract with consuming test code; do not rename.
const (
	LifecycleClass  = "class"
	LifecycleMethod = "method"
)

// fileSuffix terminates every state file name.
const fileSuffix = "-state.json"

// document is the on-disk state file shape. Field names are a cross-tool
// contract; consuming test code unmarshals them by name.
type document struct {
	StackName      string                  `json:"stackName"`
	Lifecycle      string                  `json:"lifecycle"`
	TestClass      string                  `json:"testClass"`
	TestMethod     string                  `json:"testMethod,omitempty"`
	ComposeProject string                  `json:"composeProject"`
	Services       map[string]serviceEntry `json:"services"`
	Timestamp      string                  `json:"timestamp"`
}

// serviceEntry is one service's connectivity record in the state file.
type serviceEntry struct {
	ContainerID    string      `json:"containerId"`
	ContainerName  string      `json:"containerName"`
	State          string      `json:"state"`
	PublishedPorts []portEntry `json:"publishedPorts"`
}

// portEntry is one published port in a serviceEntry.
type portEntry struct {
	Container int    `json:"container"`
	Host      int    `json:"host"`
	Protocol  string `json:"protocol"`
}

// Spec describes one state file to write.
type Spec struct {
	// OutputDir is the build output directory the file tree lives under.
	OutputDir string
	// TestClass identifies the test class/suite. Required.
	TestClass string
	// TestMethod identifies the test method. Empty under class scope.
	TestMethod string
	// Timestamp is the generation time, recorded as RFC 3339.
	Timestamp time.Time
}

// Path computes the deterministic state-file location for the given stack:
// <outputDir>/<stackName>/<testClass>-state.json under class scope, or
// <outputDir>/<stackName>/<testClass>/<testMethod>-state.json under method
// scope.
func (s Spec) Path(stackName string) string {
	if s.TestMethod == "" {
		return filepath.Join(s.OutputDir, stackName, s.TestClass+fileSuffix)
	}
	return filepath.Join(s.OutputDir, stackName, s.TestClass, s.TestMethod+fileSuffix)
}

// Write serializes the stack state to the deterministic path, creating
// parent directories as needed, and returns the path written.
func Write(state *compose.StackState, spec Spec) (string, error) {
	if spec.TestClass == "" {
		return "", ErrEmptyClass
	}

	lifecycle := LifecycleClass
	if spec.TestMethod != "" {
		lifecycle = LifecycleMethod
	}

	doc := document{
		StackName:      state.Stack,
		Lifecycle:      lifecycle,
		TestClass:      spec.TestClass,
		TestMethod:     spec.TestMethod,
		ComposeProject: state.Project,
		Services:       make(map[string]serviceEntry, len(state.Services)),
		Timestamp:      spec.Timestamp.Format(time.RFC3339),
	}

	for name, info := range state.Services {
		entry := serviceEntry{
			ContainerID:    info.ContainerID,
			ContainerName:  info.ContainerName,
			State:          info.Status,
			PublishedPorts: []portEntry{},
		}
		for _, p := range info.Ports {
			entry.PublishedPorts = append(entry.PublishedPorts, portEntry{
				Container: p.Container,
				Host:      p.Host,
				Protocol:  p.Protocol,
			})
		}
		sort.Slice(entry.PublishedPorts, func(i, j int) bool {
			return entry.PublishedPorts[i].Container < entry.PublishedPorts[j].Container
		})
		doc.Services[name] = entry
	}

	path := spec.Path(state.Stack)
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal state file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write state file %s: %w", path, err)
	}
	return path, nil
}
