// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the teamsgenie CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teamsgenie",
		Short: "Deploy a Databricks Genie bot to Microsoft Teams on Azure",
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Package())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
