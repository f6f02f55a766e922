package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/appstack/cmd/appstack/handlers"
	"github.com/imamik/appstack/internal/config"
)

// Init returns the command for interactively creating a stack file.
//
// Flags:
//
//	--output, -o: Path to output file (default "appstack.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a stack file",
		Long: `Interactively create a stack file.

This command asks about:

  - Stack name and an optional existing namespace
  - Container image, port and resource preset
  - Public exposure (domain and DNS zone, only with a port)
  - Replicas and availability

Everything else keeps its default and can be added by editing the file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")

	return cmd
}
