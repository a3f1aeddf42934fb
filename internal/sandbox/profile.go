package sandbox

import (
	"io/fs"
	"os"
)

const (
	// KaggleInputRoot is the read-only dataset mount inside Kaggle kernels
	KaggleInputRoot = "/kaggle/input"

	// KaggleEnvVar is set by the Kaggle kernel runtime
	KaggleEnvVar = "KAGGLE_KERNEL_RUN_TYPE"
)

// Profile describes the hosted notebook environment the process runs in
type Profile interface {
	// IsSandboxed reports whether the process runs inside a hosted sandbox
	IsSandboxed() bool
	// SandboxRoot is the input mount searched for data files
	SandboxRoot() string
}

// LookupFunc has the signature of os.LookupEnv
type LookupFunc func(key string) (string, bool)

// StatFunc has the signature of os.Stat
type StatFunc func(name string) (fs.FileInfo, error)

// Mount detects a sandbox by its input mount directory or, optionally, by a
// runtime variable
type Mount struct {
	root   string
	envVar string
	lookup LookupFunc
	stat   StatFunc
}

// NewMount creates a profile that is sandboxed when root is a directory or
// envVar is set. An empty envVar disables the variable check.
// If lookup or stat is nil, os.LookupEnv and os.Stat are used.
func NewMount(root, envVar string, lookup LookupFunc, stat StatFunc) *Mount {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if stat == nil {
		stat = os.Stat
	}
	return &Mount{
		root:   root,
		envVar: envVar,
		lookup: lookup,
		stat:   stat,
	}
}

// NewKaggle creates the Kaggle kernel profile
func NewKaggle(lookup LookupFunc, stat StatFunc) *Mount {
	return NewMount(KaggleInputRoot, KaggleEnvVar, lookup, stat)
}

// IsSandboxed is true when the input mount exists or the runtime variable is
// set, even to an empty value
func (m *Mount) IsSandboxed() bool {
	if info, err := m.stat(m.root); err == nil && info.IsDir() {
		return true
	}
	if m.envVar == "" {
		return false
	}
	_, ok := m.lookup(m.envVar)
	return ok
}

// SandboxRoot returns the input mount
func (m *Mount) SandboxRoot() string {
	return m.root
}

// Static is a Profile with fixed answers
type Static struct {
	Sandboxed bool
	Root      string
}

func (s Static) IsSandboxed() bool { return s.Sandboxed }
func (s Static) SandboxRoot() string { return s.Root }

// Detect returns the profile for the current process
func Detect(lookup LookupFunc) Profile {
	return NewKaggle(lookup, nil)
}
