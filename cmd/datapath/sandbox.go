package main

import (
	"github.com/mfittko/datapath/internal/output"
	"github.com/spf13/cobra"
)

func newSandboxCmd(a *app) *cobra.Command {
	var sandboxRoot string

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Report whether a hosted notebook sandbox is detected",
		Long: `Report whether datapath considers itself inside a hosted notebook sandbox
and which input mount it would search.

Kaggle is detected by the /kaggle/input directory or the
KAGGLE_KERNEL_RUN_TYPE variable (from the environment or the env file).

Examples:
  datapath sandbox
  datapath sandbox --sandbox-root /mnt/inputs -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := profileFor(sandboxRoot, a.cfg.Lookup)
			return a.formatter.Print(&output.Result{
				Success: true,
				Data: map[string]interface{}{
					"sandboxed": profile.IsSandboxed(),
					"root":      profile.SandboxRoot(),
				},
			})
		},
	}

	cmd.Flags().StringVar(&sandboxRoot, "sandbox-root", "", "Sandbox input mount to use instead of Kaggle detection")

	return cmd
}
