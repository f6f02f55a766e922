package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/appstack/cmd/appstack/handlers"
)

// Render returns the command that prints the manifests of a stack without
// contacting any provider.
func Render() *cobra.Command {
	var (
		configPath string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the Kubernetes manifests of a stack",
		Long: `Resolve a stack offline and print the Kubernetes manifests apply would send.

No cloud API is called. The address and DNS record are simulated, and the
ingress is annotated with the placeholder address 0.0.0.0.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), configPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to stack file (default: appstack.yaml)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write manifests to this file instead of stdout")

	return cmd
}
