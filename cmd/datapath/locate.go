package main

import (
	"os"
	"path/filepath"

	"github.com/mfittko/datapath/internal/config"
	"github.com/mfittko/datapath/internal/output"
	"github.com/mfittko/datapath/internal/project"
	"github.com/spf13/cobra"
)

func newRootLocateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "root [start]",
		Short: "Print the project root",
		Long: `Print the project root: the nearest directory at or above [start]
(default: working directory) that contains go.mod, pyproject.toml,
requirements.txt, README.md or .git. At most 8 directories are inspected;
without a match the start directory itself is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := ""
			if len(args) == 1 {
				start = args[0]
			}
			return a.locateRoot(start)
		},
	}
}

func (a *app) locateRoot(start string) error {
	root := project.LocateRoot(start)

	if a.formatter.Format() != output.FormatJSON {
		return a.formatter.Print(&output.Result{Success: true, Message: root})
	}

	data := map[string]interface{}{"root": root}
	projectFile := filepath.Join(root, config.ProjectFile)
	if _, err := os.Stat(projectFile); err == nil {
		data["project_file"] = projectFile
	}
	return a.formatter.Print(&output.Result{Success: true, Data: data})
}
