package project

import (
	"os"
	"path/filepath"
)

// MaxDepth is the number of directories inspected before giving up
const MaxDepth = 8

// DefaultMarkers are the files or directories that identify a project root
var DefaultMarkers = []string{
	"go.mod",
	"pyproject.toml",
	"requirements.txt",
	"README.md",
	".git",
}

// LocateRoot walks up from start looking for a directory that contains one of
// DefaultMarkers. An empty start means the working directory.
// It always returns a path: when no marker is found it returns the canonical
// start directory.
func LocateRoot(start string) string {
	return LocateRootWith(start, DefaultMarkers, MaxDepth)
}

// LocateRootWith is LocateRoot with explicit markers and depth bound
func LocateRootWith(start string, markers []string, maxDepth int) string {
	origin := Canonical(startDir(start))

	dir := origin
	for i := 0; i < maxDepth; i++ {
		if hasMarker(dir, markers) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return origin
}

// Canonical returns an absolute, symlink-free form of path.
// Paths that cannot be evaluated (e.g. they do not exist) are returned
// absolute and cleaned.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func startDir(start string) string {
	if start != "" {
		return start
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func hasMarker(dir string, markers []string) bool {
	for _, m := range markers {
		if _, err := os.Lstat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	return false
}
