package composeenv

import "github.com/giantswarm/composeenv/internal/core"

// stackConfig holds configuration for a Harness. The unexported type wraps
// core.Config via embedding, keeping internal/core types out of the public
// API signature while avoiding field-by-field duplication.
//
// Unlike typical option patterns, no defaults are applied here: zero values
// mean "not declared", and the resolver distinguishes declared values from
// property overrides to detect fields supplied by both sources. Defaults
// land during resolution, on Setup.
type stackConfig struct {
	core.Config

	// props is the property collaborator, kept outside core.Config because
	// it is a dependency, not a declared field.
	props Properties
}
