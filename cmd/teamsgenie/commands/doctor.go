package commands

import (
	"github.com/spf13/cobra"

	"github.com/genieops/teamsgenie/cmd/teamsgenie/handlers"
)

// Doctor returns the command running the standalone prerequisite checks.
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, tools and Azure credentials",
		Long: `Check everything a deployment needs without changing anything.

Verifies the configuration file parses and has the required keys, reports on
optional client tools, and confirms the ambient Azure credential can acquire
tokens for ARM and Microsoft Graph.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: teamsgenie.env)")

	return cmd
}
