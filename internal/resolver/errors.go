package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrNotFound matches any *NotFoundError via errors.Is
var ErrNotFound = errors.New("data file not found")

// NotFoundError is returned when no tier produced an existing path
type NotFoundError struct {
	Filename    string
	OverrideVar string
	LocalSubdir string
	Candidates  int
	SandboxRoot string
	Sandboxed   bool

	// SearchErr is the filesystem error hit by the sandbox search, if any
	SearchErr error
}

// Tried lists the tiers that were attempted, in order
func (e *NotFoundError) Tried() []string {
	tried := []string{
		e.OverrideVar + " env var",
		e.LocalSubdir + "/",
	}
	if e.Candidates > 0 {
		tried = append(tried, fmt.Sprintf("%d extra candidate(s)", e.Candidates))
	}
	if e.Sandboxed {
		tried = append(tried, "sandbox "+e.SandboxRoot+"/")
	} else {
		tried = append(tried, "sandbox "+e.SandboxRoot+"/ (not detected)")
	}
	return tried
}

// Remediation tells the user how to make the file resolvable
func (e *NotFoundError) Remediation() string {
	return fmt.Sprintf("put the file under '%s/' or set %s", e.LocalSubdir, e.OverrideVar)
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %q\nTried: %s\nRemediation: %s",
		e.Filename, strings.Join(e.Tried(), ", "), e.Remediation())
}

// Is makes the error match ErrNotFound and fs.ErrNotExist
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == fs.ErrNotExist
}

func (e *NotFoundError) Unwrap() error {
	return e.SearchErr
}
