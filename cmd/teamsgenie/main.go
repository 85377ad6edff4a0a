// Package main is the entry point for the teamsgenie CLI.
//
// teamsgenie provisions everything a Databricks Genie bot needs to run in
// Microsoft Teams: the Entra ID application with SSO wiring, Key Vault,
// App Service, Bot Service with the Teams channel, the Teams app package,
// and the application code deployment.
//
// Commands: init, doctor, deploy, package, version.
//
// For detailed usage information, run:
//
//	teamsgenie --help
package main

import (
	"fmt"
	"os"

	"github.com/genieops/teamsgenie/cmd/teamsgenie/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
