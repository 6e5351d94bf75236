// Package naming derives collision-resistant, engine-legal compose project
// names from test identifiers.
package naming
