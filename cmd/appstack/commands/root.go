// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Root returns the root command for the appstack CLI.
//
// The root command installs the logger used by every subcommand: console
// output on stderr by default, JSON lines with --log-json. --verbose enables
// debug messages such as skipped resources and individual API calls.
func Root() *cobra.Command {
	var (
		verbose bool
		logJSON bool
	)

	cmd := &cobra.Command{
		Use:           "appstack",
		Short:         "Provision application stacks on Kubernetes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(logr.NewContext(cmd.Context(), newLogger(verbose, logJSON)))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log JSON lines instead of console output")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Render())
	cmd.AddCommand(Apply())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

func newLogger(verbose, logJSON bool) logr.Logger {
	opts := zap.Options{
		Development: verbose,
		DestWriter:  os.Stderr,
	}
	if logJSON {
		return zap.New(zap.UseFlagOptions(&opts), zap.JSONEncoder())
	}
	return zap.New(zap.UseFlagOptions(&opts), zap.ConsoleEncoder())
}
