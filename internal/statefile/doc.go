// Package statefile serializes stack connectivity data to a deterministic
// JSON path so consuming test code can find it without hardcoded paths.
package statefile
