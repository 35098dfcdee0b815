// Package watch reports file changes below a directory tree in debounced
// batches. It wraps fsnotify, follows directories created while watching and
// collapses repeated events on one path into a single Event per batch.
package watch
