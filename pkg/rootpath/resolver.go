// Package rootpath attributes source files to the package root that owns
// them.
//
// A package root is the nearest ancestor directory containing a marker file
// (go.mod by default). Only the existence of the marker is checked; its
// content is never read.
package rootpath

import (
	"os"
	"path/filepath"
)

// DefaultMarker is the manifest file that identifies a package root.
const DefaultMarker = "go.mod"

// Resolver finds package roots by walking up the directory tree.
type Resolver struct {
	// Marker is the manifest filename. Empty means DefaultMarker.
	Marker string

	// Entry is the directory used when no file is given. Empty means the
	// process working directory.
	Entry string
}

// Resolve returns the nearest directory at or above the directory of file
// that contains the marker. When file is empty the search starts at the
// entry directory. If no marker is found before the filesystem root, the
// starting directory is returned.
func (r Resolver) Resolve(file string) string {
	start := r.start(file)

	marker := r.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	dir := start
	for {
		if isFile(filepath.Join(dir, marker)) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// Root returns the process root, the package root of the entry directory.
func (r Resolver) Root() string {
	return r.Resolve("")
}

func (r Resolver) start(file string) string {
	if file == "" {
		return r.entry()
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	return filepath.Dir(file)
}

func (r Resolver) entry() string {
	dir := r.Entry
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return string(filepath.Separator)
		}
		dir = wd
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Clean(dir)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var defaultResolver Resolver

// Resolve resolves file with the default resolver.
func Resolve(file string) string {
	return defaultResolver.Resolve(file)
}

// Root returns the process root using the default resolver.
func Root() string {
	return defaultResolver.Root()
}
