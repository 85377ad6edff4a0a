package commands

import (
	"github.com/spf13/cobra"

	"github.com/genieops/teamsgenie/cmd/teamsgenie/handlers"
	"github.com/genieops/teamsgenie/internal/config"
)

// Init returns the command writing a starter configuration file.
func Init() *cobra.Command {
	var (
		outputPath  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a deployment configuration file",
		Long: `Create a deployment configuration file.

By default a commented skeleton is written for you to fill in. With
--interactive, a short form collects the required values.

Examples:
  # Write a skeleton teamsgenie.env
  teamsgenie init

  # Answer the questions interactively
  teamsgenie init --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, interactive)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Collect values with an interactive form")

	return cmd
}
