// Package report summarizes the files written by a build task: their count,
// total size and SHA256 digests. Tasks call Log after running when the build
// is verbose.
package report
