package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration form.
	runWizard = wizard.RunWizard

	// writeEnvFile writes the configuration file.
	writeEnvFile = wizard.WriteEnv
)

// Init writes a starter configuration file. With interactive set, the
// values come from the huh form; otherwise an empty skeleton is written for
// the operator to fill in.
func Init(ctx context.Context, outputPath string, interactive bool) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	result := &wizard.Result{Location: config.DefaultLocation}
	if interactive {
		printWelcome()
		r, err := runWizard(ctx)
		if err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
		result = r
	}

	if err := writeEnvFile(result, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, interactive)
	return nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("teamsgenie - Databricks Genie for Microsoft Teams")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println("This form collects the settings needed to deploy the bot.")
	fmt.Println("You need the Entra tenant, the Databricks workspace URL and the Genie space id.")
	fmt.Println()
}

func printInitSuccess(outputPath string, interactive bool) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Next Steps")
	fmt.Println("----------")
	if !interactive {
		fmt.Printf("  1. Fill in the required keys in %s\n", outputPath)
		fmt.Println()
	}
	fmt.Println("  2. Sign in to Azure:")
	fmt.Println("     az login --tenant <tenant-id>")
	fmt.Println()
	fmt.Println("  3. Deploy:")
	fmt.Println("     teamsgenie deploy")
	fmt.Println()
}
