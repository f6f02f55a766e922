package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/appstack/cmd/appstack/handlers"
)

// Validate returns the command that checks a stack file.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a stack file for errors and warnings",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to stack file (default: appstack.yaml)")

	return cmd
}
