package commands

import (
	"github.com/spf13/cobra"

	"github.com/genieops/teamsgenie/cmd/teamsgenie/handlers"
)

// Deploy returns the command running the full provisioning pipeline.
//
// Optional flags:
//
//	--config, -c: Path to the configuration file (default: auto-detect teamsgenie.env)
//
// The ambient Azure credential (az login or AZURE_* environment variables)
// must be able to reach both ARM and Microsoft Graph.
func Deploy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision Azure resources and deploy the bot",
		Long: `Provision everything the Teams bot needs and deploy it.

The pipeline runs seven phases in order: prerequisite checks, Entra app
registration, Azure infrastructure (resource group, Key Vault, App Service),
Bot Service with the Teams channel, the Teams app package, the code deploy,
and a summary with the deployment record.

A fatal error halts the run immediately. Nothing already created is rolled
back; fix the cause and re-run, or clean up in the portal.

Examples:
  # Deploy using teamsgenie.env in the current directory
  teamsgenie deploy

  # Deploy using a specific config file
  teamsgenie deploy -c production.env`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: teamsgenie.env)")

	return cmd
}
