package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mfittko/datapath/internal/config"
	"github.com/mfittko/datapath/internal/output"
	"github.com/mfittko/datapath/internal/validation"
	"github.com/spf13/cobra"
)

var version = "dev"

// ExitCodeError ends the process with Code after the result was already printed
type ExitCodeError struct {
	Code int
}

func (e ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

const exitNotFound = 2

// app carries state shared by all subcommands of one invocation
type app struct {
	cfg       *config.Config
	formatter *output.Formatter
	logger    *slog.Logger

	// Global flags
	envFile      string
	outputFormat string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "datapath",
		Short: "Locate data files across local checkouts and hosted notebook sandboxes",
		Long: `datapath resolves the location of a named data file.

It tries, in order: the DATA_PATH environment variable, <project root>/data/raw,
any extra candidate paths, and finally the input mount of a hosted notebook
sandbox (Kaggle) when one is detected. The first existing path wins.

Project defaults can be kept in datapath.toml at the project root; environment
variables can also come from config/datapath.env.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Path to environment file (default: "+config.DefaultEnvFile+" if exists)")
	cmd.PersistentFlags().StringVarP(&a.outputFormat, "output", "o", string(output.FormatText), "Output format: text or json")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newResolveCmd(a))
	cmd.AddCommand(newRootLocateCmd(a))
	cmd.AddCommand(newSandboxCmd(a))

	return cmd
}

// init loads configuration in precedence order (lowest to highest priority):
// env-file, environment variables, command-line flags
func (a *app) init(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if err := validation.OneOf("output", a.outputFormat, output.Formats); err != nil {
		return err
	}
	format, err := output.ParseFormat(a.outputFormat)
	if err != nil {
		return err
	}
	a.formatter = output.New(format)
	a.formatter.SetWriter(cmd.OutOrStdout())

	a.cfg = config.New()
	a.cfg.LoadFromEnvironment()

	if a.envFile == "" {
		if _, err := os.Stat(config.DefaultEnvFile); err == nil {
			a.envFile = config.DefaultEnvFile
		}
	}
	if a.envFile != "" {
		a.logger.Debug("loading env file", "path", a.envFile)
		if err := a.cfg.LoadEnvFile(a.envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	return nil
}

// validationFailed prints err as a validation result and ends with exit code 1
func (a *app) validationFailed(err error) error {
	if perr := a.formatter.PrintValidation(output.NewValidationResult(err)); perr != nil {
		return perr
	}
	return ExitCodeError{Code: 1}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr ExitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
