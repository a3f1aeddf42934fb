package resolver

import (
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/mfittko/datapath/internal/project"
	"github.com/mfittko/datapath/internal/sandbox"
	"github.com/mfittko/datapath/internal/validation"
)

const (
	// DefaultOverrideVar names the variable holding an explicit file path
	DefaultOverrideVar = "DATA_PATH"

	// DefaultLocalSubdir is where data files live relative to the project root
	DefaultLocalSubdir = "data/raw"
)

// Tier identifies which resolution step produced a path
type Tier string

const (
	TierOverride      Tier = "override"
	TierLocal         Tier = "local"
	TierCandidate     Tier = "candidate"
	TierSandboxHint   Tier = "sandbox-hint"
	TierSandboxSearch Tier = "sandbox-search"
)

// Config holds resolver configuration
type Config struct {
	// OverrideVar is the environment variable checked first
	OverrideVar string
	// Start is where the project root search begins (empty: working directory)
	Start string
	// Markers identify the project root
	Markers []string
}

// DefaultConfig returns the default resolver configuration
func DefaultConfig() Config {
	return Config{
		OverrideVar: DefaultOverrideVar,
		Markers:     project.DefaultMarkers,
	}
}

// Request describes one file to resolve
type Request struct {
	Filename        string
	LocalSubdir     string
	SandboxHint     string
	ExtraCandidates []string
}

// Resolution is a successfully resolved path
type Resolution struct {
	Path string `json:"path"`
	Tier Tier   `json:"tier"`
}

// Resolver finds data files across local checkouts and hosted sandboxes.
// It only reads the filesystem and is safe for concurrent use.
type Resolver struct {
	cfg     Config
	profile sandbox.Profile
	lookup  sandbox.LookupFunc
	logger  *slog.Logger
}

// New creates a new Resolver.
// If lookup is nil, os.LookupEnv is used. If profile is nil, the sandbox is
// detected with the same lookup.
func New(cfg Config, profile sandbox.Profile, lookup sandbox.LookupFunc) *Resolver {
	if cfg.OverrideVar == "" {
		cfg.OverrideVar = DefaultOverrideVar
	}
	if len(cfg.Markers) == 0 {
		cfg.Markers = project.DefaultMarkers
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if profile == nil {
		profile = sandbox.Detect(lookup)
	}
	return &Resolver{
		cfg:     cfg,
		profile: profile,
		lookup:  lookup,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for tier tracing
func (r *Resolver) WithLogger(logger *slog.Logger) *Resolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Config returns the resolver configuration
func (r *Resolver) Config() Config {
	return r.cfg
}

// Root returns the project root the local tier is anchored to
func (r *Resolver) Root() string {
	return project.LocateRootWith(r.cfg.Start, r.cfg.Markers, project.MaxDepth)
}

// Resolve returns the first existing location of req.Filename, trying in order:
// the override variable, <root>/<LocalSubdir>/<Filename>, the extra
// candidates, and finally the sandbox input mount when a sandbox is detected.
// It returns a *NotFoundError when every tier misses. Filename must be
// relative and stay below the directories it is joined to.
func (r *Resolver) Resolve(req Request) (*Resolution, error) {
	if err := validation.Required("filename", req.Filename); err != nil {
		return nil, err
	}
	if err := validation.RelativePath("filename", req.Filename); err != nil {
		return nil, err
	}

	localSubdir := req.LocalSubdir
	if localSubdir == "" {
		localSubdir = DefaultLocalSubdir
	}

	if p, ok := r.fromOverride(); ok {
		return r.hit(TierOverride, p), nil
	}

	root := r.Root()
	r.logger.Debug("project root located", "root", root)

	local := project.Canonical(under(root, filepath.Join(localSubdir, req.Filename)))
	if exists(local) {
		return r.hit(TierLocal, local), nil
	}
	r.logger.Debug("local path missing", "path", local)

	for _, c := range req.ExtraCandidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		p := project.Canonical(under(root, expandHome(c)))
		if exists(p) {
			return r.hit(TierCandidate, p), nil
		}
		r.logger.Debug("candidate missing", "candidate", c, "path", p)
	}

	nf := &NotFoundError{
		Filename:    req.Filename,
		OverrideVar: r.cfg.OverrideVar,
		LocalSubdir: localSubdir,
		Candidates:  len(req.ExtraCandidates),
		SandboxRoot: r.profile.SandboxRoot(),
		Sandboxed:   r.profile.IsSandboxed(),
	}
	if !nf.Sandboxed || nf.SandboxRoot == "" {
		r.logger.Debug("no sandbox detected", "root", nf.SandboxRoot)
		return nil, nf
	}

	base := nf.SandboxRoot
	if req.SandboxHint != "" {
		hinted := filepath.Join(base, req.SandboxHint, req.Filename)
		if exists(hinted) {
			return r.hit(TierSandboxHint, project.Canonical(hinted)), nil
		}
		r.logger.Debug("sandbox hint missing", "path", hinted)
	}

	outcome := Search(os.DirFS(base), req.Filename)
	switch outcome.Kind {
	case OutcomeFound:
		p := project.Canonical(filepath.Join(base, filepath.FromSlash(outcome.Path)))
		return r.hit(TierSandboxSearch, p), nil
	case OutcomeError:
		nf.SearchErr = outcome.Err
	}

	return nil, nf
}

func (r *Resolver) fromOverride() (string, bool) {
	value, ok := r.lookup(r.cfg.OverrideVar)
	if !ok || value == "" {
		return "", false
	}

	p := project.Canonical(expandHome(value))
	if !exists(p) {
		r.logger.Debug("override path missing", "var", r.cfg.OverrideVar, "path", p)
		return "", false
	}
	return p, true
}

func (r *Resolver) hit(tier Tier, p string) *Resolution {
	r.logger.Debug("resolved", "tier", tier, "path", p)
	return &Resolution{Path: p, Tier: tier}
}

// under interprets p relative to root unless it is already absolute
func under(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// expandHome replaces a leading ~ or ~user with the matching home directory.
// Paths that cannot be expanded are returned unchanged.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}

	name, rest, _ := strings.Cut(p[1:], string(filepath.Separator))
	if filepath.Separator != '/' && strings.ContainsRune(name, '/') {
		name, rest, _ = strings.Cut(p[1:], "/")
	}

	var home string
	if name == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		home = h
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return p
		}
		home = u.HomeDir
	}

	return filepath.Join(home, rest)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
