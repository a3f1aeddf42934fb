package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mfittko/datapath/internal/validation"
)

// ProjectFile is the optional per-project settings file at the project root
const ProjectFile = "datapath.toml"

// Project holds per-project resolution defaults. Zero values mean "not set".
type Project struct {
	LocalSubdir string   `toml:"local_subdir"`
	SandboxHint string   `toml:"sandbox_hint"`
	Candidates  []string `toml:"candidates"`
	OverrideVar string   `toml:"override_var"`
	SandboxRoot string   `toml:"sandbox_root"`
}

// LoadProject decodes a project file. A missing file yields an empty Project.
func LoadProject(path string) (*Project, error) {
	out := &Project{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return out, nil
	}
	md, err := toml.DecodeFile(path, out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	return out, nil
}

// LoadProjectFrom loads ProjectFile from the given project root
func LoadProjectFrom(root string) (*Project, error) {
	return LoadProject(filepath.Join(root, ProjectFile))
}

// Validate checks project values the same way the equivalent flags are checked
func (p *Project) Validate() error {
	var errs validation.Errors
	errs.Add(validation.RelativePath("sandbox_hint", p.SandboxHint))
	errs.Add(validation.EnvVarName("override_var", p.OverrideVar))
	for _, c := range p.Candidates {
		errs.Add(validation.Required("candidates", c))
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
