package commands

import (
	"github.com/spf13/cobra"

	"github.com/genieops/teamsgenie/cmd/teamsgenie/handlers"
)

// Package returns the command rebuilding the Teams app package offline.
func Package() *cobra.Command {
	var (
		configPath string
		appID      string
	)

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Rebuild the Teams app package without touching Azure",
		Long: `Render the manifest, validate it and rebuild the app package.

Useful after changing the branding keys or the icons. The app id is taken
from --app-id, or from the deployment record of a previous run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Package(cmd.Context(), configPath, appID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: teamsgenie.env)")
	cmd.Flags().StringVar(&appID, "app-id", "", "Application (client) id of the deployed bot")

	return cmd
}
