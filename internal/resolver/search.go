package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// OutcomeKind classifies the result of a sandbox search
type OutcomeKind int

const (
	// OutcomeNotFound means the search completed without a match
	OutcomeNotFound OutcomeKind = iota
	// OutcomeFound means Path holds the first match
	OutcomeFound
	// OutcomeError means the search hit a filesystem error and found nothing
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeError:
		return "error"
	default:
		return "not-found"
	}
}

// SearchOutcome is the result of Search.
// Path is slash-separated and relative to the searched filesystem.
type SearchOutcome struct {
	Kind OutcomeKind
	Path string
	Err  error
}

// Found reports whether the search produced a path
func (o SearchOutcome) Found() bool {
	return o.Kind == OutcomeFound
}

func found(p string) SearchOutcome { return SearchOutcome{Kind: OutcomeFound, Path: p} }
func notFound() SearchOutcome { return SearchOutcome{Kind: OutcomeNotFound} }
func searchError(err error) SearchOutcome { return SearchOutcome{Kind: OutcomeError, Err: err} }

// Search looks for a regular file named filename one level below the root of
// fsys (*/filename), then two levels below (*/*/filename). Each level stops at
// the first match; directories are visited in name order. It never walks
// deeper than two levels.
//
// Filesystem errors do not abort the search of other directories. If nothing
// is found, the first error encountered is reported as OutcomeError.
func Search(fsys fs.FS, filename string) SearchOutcome {
	if filename == "" || strings.ContainsRune(filename, '/') || !fs.ValidPath(filename) {
		return notFound()
	}

	top, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return searchError(fmt.Errorf("read sandbox root: %w", err))
	}

	var firstErr error
	record := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	datasets := subdirs(fsys, ".", top, record)

	for _, dir := range datasets {
		candidate := path.Join(dir, filename)
		ok, err := isRegular(fsys, candidate)
		if err != nil {
			record(err)
			continue
		}
		if ok {
			return found(candidate)
		}
	}

	for _, dir := range datasets {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			record(fmt.Errorf("read %s: %w", dir, err))
			continue
		}
		for _, sub := range subdirs(fsys, dir, entries, record) {
			candidate := path.Join(sub, filename)
			ok, err := isRegular(fsys, candidate)
			if err != nil {
				record(err)
				continue
			}
			if ok {
				return found(candidate)
			}
		}
	}

	if firstErr != nil {
		return searchError(firstErr)
	}
	return notFound()
}

// subdirs returns the directories among entries, following symlinks
func subdirs(fsys fs.FS, parent string, entries []fs.DirEntry, record func(error)) []string {
	var dirs []string
	for _, e := range entries {
		name := path.Join(parent, e.Name())
		if e.IsDir() {
			dirs = append(dirs, name)
			continue
		}
		if e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		info, err := fs.Stat(fsys, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				record(fmt.Errorf("stat %s: %w", name, err))
			}
			continue
		}
		if info.IsDir() {
			dirs = append(dirs, name)
		}
	}
	return dirs
}

func isRegular(fsys fs.FS, name string) (bool, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
	return info.Mode().IsRegular(), nil
}
