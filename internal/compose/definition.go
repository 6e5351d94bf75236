package compose

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/giantswarm/composeenv/internal/sentinel"
)

// ErrUnknownService is returned (wrapped with the offending name) when a wait
// target names a service that no compose file declares.
const ErrUnknownService = sentinel.Error("service not declared in any compose file")

// composeDocument is the minimal shape read from a compose file. Only the
// service names matter here; everything else is the engine's business.
type composeDocument struct {
	Services map[string]yaml.Node `yaml:"services"`
}

// DeclaredServices parses the given compose files and returns the union of
// declared service names, sorted. Later files may add or override services;
// for name discovery the union is sufficient. A file that fails to parse
// fails the whole call, surfacing broken definitions before anything starts.
func DeclaredServices(files []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read compose file %s: %w", f, err)
		}
		var doc composeDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse compose file %s: %w", f, err)
		}
		for name := range doc.Services {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// ValidateTargets checks that every wait-target service is declared in the
// given set of service names. Returns a wrapped ErrUnknownService naming the
// first missing target.
func ValidateTargets(declared, targets []string) error {
	for _, target := range targets {
		if !slices.Contains(declared, target) {
			return fmt.Errorf("%w: %s", ErrUnknownService, target)
		}
	}
	return nil
}
