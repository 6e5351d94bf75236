// Package fileutil provides small file system helpers.
//
// EnsureDir and EnsureDirForFile create directories recursively. They are
// used for preparing the base data directory, the state-file output tree,
// and the stack registry location.
package fileutil
