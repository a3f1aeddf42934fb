package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mfittko/datapath/internal/config"
	"github.com/mfittko/datapath/internal/output"
	"github.com/mfittko/datapath/internal/project"
	"github.com/mfittko/datapath/internal/resolver"
	"github.com/mfittko/datapath/internal/sandbox"
	"github.com/mfittko/datapath/internal/validation"
	"github.com/spf13/cobra"
)

// resolveOptions are the resolve flags merged with the project file
type resolveOptions struct {
	localSubdir string
	hint        string
	candidates  []string
	start       string
	overrideVar string
	sandboxRoot string
	dataPath    string
}

func newResolveCmd(a *app) *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve <filename>",
		Short: "Print the location of a data file",
		Long: `Print the absolute path of the first existing location of <filename>.

Resolution order:
  1. the override variable (DATA_PATH) if it names an existing file
  2. <project root>/<local-subdir>/<filename>
  3. each --candidate, relative paths anchored at the project root
  4. inside a detected sandbox: <sandbox root>/<hint>/<filename>, then
     <sandbox root>/*/<filename>, then <sandbox root>/*/*/<filename>

Flags override values from datapath.toml. Exits with code 2 when the file
cannot be found.

Examples:
  datapath resolve train.csv
  datapath resolve train.csv --hint titanic
  datapath resolve train.csv --candidate fixtures/train.csv -o json
  DATA_PATH=~/Downloads/train.csv datapath resolve train.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.localSubdir, "local-subdir", "", "Data directory relative to the project root (default: "+resolver.DefaultLocalSubdir+")")
	cmd.Flags().StringVar(&opts.hint, "hint", "", "Sandbox dataset directory to try before searching")
	cmd.Flags().StringArrayVar(&opts.candidates, "candidate", nil, "Extra candidate path, may be repeated")
	cmd.Flags().StringVar(&opts.start, "start", "", "Directory to start the project root search from (default: working directory)")
	cmd.Flags().StringVar(&opts.overrideVar, "override-var", "", "Environment variable holding an explicit file path (default: "+resolver.DefaultOverrideVar+")")
	cmd.Flags().StringVar(&opts.sandboxRoot, "sandbox-root", "", "Sandbox input mount to use instead of Kaggle detection")
	cmd.Flags().StringVar(&opts.dataPath, "data-path", "", "Explicit file path, same as setting the override variable")

	return cmd
}

// mergeOptions fills unset flags from the project file. Candidates given as
// flags come before the project's candidates.
func mergeOptions(flags resolveOptions, p *config.Project) resolveOptions {
	merged := flags
	if merged.localSubdir == "" {
		merged.localSubdir = p.LocalSubdir
	}
	if merged.hint == "" {
		merged.hint = p.SandboxHint
	}
	if merged.overrideVar == "" {
		merged.overrideVar = p.OverrideVar
	}
	if merged.sandboxRoot == "" {
		merged.sandboxRoot = p.SandboxRoot
	}
	merged.candidates = append(append([]string{}, flags.candidates...), p.Candidates...)
	return merged
}

func (o resolveOptions) validate(filename string) error {
	var errs validation.Errors
	errs.Add(validation.Required("filename", filename))
	errs.Add(validation.Filename("filename", filename))
	errs.Add(validation.RelativePath("hint", o.hint))
	errs.Add(validation.EnvVarName("override-var", o.overrideVar))
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// profileFor returns an explicit mount profile when a sandbox root is
// configured and Kaggle detection otherwise
func profileFor(sandboxRoot string, lookup sandbox.LookupFunc) sandbox.Profile {
	if sandboxRoot != "" {
		return sandbox.NewMount(sandboxRoot, "", lookup, nil)
	}
	return sandbox.Detect(lookup)
}

func (a *app) resolve(filename string, flags resolveOptions) error {
	root := project.LocateRoot(flags.start)
	proj, err := config.LoadProjectFrom(root)
	if err != nil {
		return err
	}
	if err := proj.Validate(); err != nil {
		return a.validationFailed(err)
	}

	opts := mergeOptions(flags, proj)
	if err := opts.validate(filename); err != nil {
		return a.validationFailed(err)
	}

	rcfg := resolver.DefaultConfig()
	rcfg.Start = opts.start
	if opts.overrideVar != "" {
		rcfg.OverrideVar = opts.overrideVar
	}
	if opts.dataPath != "" {
		a.cfg.SetFlag(rcfg.OverrideVar, opts.dataPath)
	}

	r := resolver.New(rcfg, profileFor(opts.sandboxRoot, a.cfg.Lookup), a.cfg.Lookup).
		WithLogger(a.logger)

	res, err := r.Resolve(resolver.Request{
		Filename:        filename,
		LocalSubdir:     opts.localSubdir,
		SandboxHint:     opts.hint,
		ExtraCandidates: opts.candidates,
	})

	var nf *resolver.NotFoundError
	if errors.As(err, &nf) {
		if perr := a.formatter.Print(&output.Result{
			Success:     false,
			Error:       fmt.Sprintf("could not find %q (tried: %s)", nf.Filename, strings.Join(nf.Tried(), ", ")),
			Remediation: nf.Remediation(),
			Data: map[string]interface{}{
				"filename": nf.Filename,
				"tried":    nf.Tried(),
			},
		}); perr != nil {
			return perr
		}
		return ExitCodeError{Code: exitNotFound}
	}
	if err != nil {
		return err
	}

	if a.formatter.Format() == output.FormatJSON {
		return a.formatter.Print(&output.Result{
			Success: true,
			Data: map[string]interface{}{
				"path": res.Path,
				"tier": string(res.Tier),
			},
		})
	}
	return a.formatter.Print(&output.Result{Success: true, Message: res.Path})
}
