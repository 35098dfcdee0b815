package glob

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File is one selected source file.
type File struct {
	// Path is relative to the project root.
	Path string

	// Rel is relative to the static base of the pattern
	// that selected the file; it names the output inside
	// the dist directory.
	Rel string
}

// Set is a list of include patterns minus a list of
// exclude patterns. Empty patterns are ignored.
type Set struct {
	Include []string
	Exclude []string
}

// Base returns the leading part of pattern free of glob
// syntax, "." when there is none.
func Base(pattern string) string {
	base, _ := doublestar.SplitPattern(clean(pattern))
	if base == "" {
		return "."
	}

	return base
}

// Match reports whether name, relative to the project
// root, is selected by se.
func (se Set) Match(name string) bool {
	name = clean(name)

	return anyMatch(se.Include, name) && !anyMatch(se.Exclude, name)
}

// Files lists the regular files of fsys selected by se.
// Files come in include order, sorted within one
// include, each listed once.
func (se Set) Files(fsys fs.FS) ([]File, error) {
	const errCtx = "listing files"

	seen := make(map[string]struct{})

	var files []File

	for _, pattern := range se.Include {
		pattern = clean(pattern)
		if pattern == "" {
			continue
		}

		matches, err := doublestar.Glob(
			fsys, pattern, doublestar.WithFilesOnly(),
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, pattern, err,
			)
		}

		sort.Strings(matches)

		base := Base(pattern)

		for _, ma := range matches {
			if _, dup := seen[ma]; dup {
				continue
			}

			if anyMatch(se.Exclude, ma) {
				continue
			}

			seen[ma] = struct{}{}
			files = append(files, File{Path: ma, Rel: relTo(base, ma)})
		}
	}

	return files, nil
}

func anyMatch(patterns []string, name string) bool {
	for _, pattern := range patterns {
		pattern = clean(pattern)
		if pattern == "" {
			continue
		}

		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}

	return false
}

func relTo(base string, name string) string {
	if base == "." {
		return name
	}

	return strings.TrimPrefix(name, base+"/")
}

func clean(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return ""
	}

	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}

	if pattern == "." {
		return pattern
	}

	return strings.TrimSuffix(pattern, "/")
}
