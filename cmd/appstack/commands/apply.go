package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/appstack/cmd/appstack/handlers"
)

// Apply returns the command for resolving stacks against the live providers.
//
// Optional flags:
//
//	--config, -c: Stack file, repeatable (default: auto-detect appstack.yaml)
//	--output, -o: Report format: table, yaml or json (default: table on a terminal, yaml otherwise)
//	--tui: Show a live progress view (single stack only)
//	--metrics-textfile: Write resolver metrics in the Prometheus text format
//	--upload-outputs: Upload the JSON report of each stack to S3
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (public stacks)
//	CF_API_TOKEN: Cloudflare API token (public stacks, cloudflare provider)
//	AZURE_DNS_ZONE_RESOURCE_IDS: Azure DNS zones (public stacks, azure provider)
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the resources of a stack",
		Long: `Create or update every resource a stack needs.

Each resource is created only when the stack asks for it: a namespace when
none is given, an address, DNS record, certificate and ingress when a domain,
DNS zone and container port are all set, a disruption budget when
availability bounds are set. Existing resources are updated in place.

If no config file is specified, it looks for appstack.yaml in the current
directory. Use 'appstack init' to create one.

Examples:
  # Apply appstack.yaml in the current directory
  appstack apply

  # Apply several stacks in parallel
  appstack apply -c api.yaml -c worker.yaml

  # Print the report as JSON and keep the metrics for node_exporter
  appstack apply -c api.yaml -o json --metrics-textfile /var/lib/node_exporter/appstack.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.ConfigPaths, "config", "c", nil, "Path to stack file, repeatable (default: appstack.yaml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Report format: table, yaml or json")
	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Show a live progress view")
	cmd.Flags().StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write resolver metrics to this file")
	cmd.Flags().BoolVar(&opts.UploadOutputs, "upload-outputs", false, "Upload the JSON report to S3")

	return cmd
}
