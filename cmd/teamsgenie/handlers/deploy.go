// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/platform/azure"
	"github.com/genieops/teamsgenie/internal/provisioning"
	"github.com/genieops/teamsgenie/internal/provisioning/channel"
	"github.com/genieops/teamsgenie/internal/provisioning/deploy"
	"github.com/genieops/teamsgenie/internal/provisioning/identity"
	"github.com/genieops/teamsgenie/internal/provisioning/infrastructure"
	"github.com/genieops/teamsgenie/internal/provisioning/manifest"
	"github.com/genieops/teamsgenie/internal/provisioning/summary"
	"github.com/genieops/teamsgenie/internal/util/naming"
	"github.com/genieops/teamsgenie/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile locates the default configuration file.
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads the configuration from a file.
	loadConfigFile = config.LoadFile

	// newSuffix generates the per-run resource name suffix.
	newSuffix = naming.Suffix

	// checkCredential probes ARM and Graph token acquisition.
	checkCredential = prerequisites.CheckCredential

	// checkTools runs the optional client-tool checks.
	checkTools = prerequisites.CheckDefault

	// newCloudClient builds the real control-plane client.
	newCloudClient = func(tenantID, subscriptionID string) (azure.CloudManager, error) {
		return azure.NewRealClient(tenantID, subscriptionID)
	}

	// runPhases executes the provisioning pipeline.
	runPhases = provisioning.RunPhases
)

// deployPhases is the full pipeline in dependency order.
func deployPhases() []provisioning.Phase {
	return []provisioning.Phase{
		identity.NewProvisioner(),
		infrastructure.NewProvisioner(),
		channel.NewProvisioner(),
		manifest.NewGenerator(),
		deploy.NewDeployer(),
		summary.NewReporter(),
	}
}

// Deploy runs the full provisioning pipeline: identity, infrastructure,
// channel, app package, code deploy and summary. A fatal phase error halts
// the run immediately; nothing already created is rolled back.
func Deploy(ctx context.Context, configPath string) error {
	cfg, err := prepareConfig(configPath)
	if err != nil {
		return err
	}

	if err := runPreflight(ctx); err != nil {
		return err
	}

	log.Printf("Deploying bot: %s", cfg.BotName)
	fmt.Print(cfg.Summary())

	cloud, err := newCloudClient(cfg.TenantID, cfg.SubscriptionID)
	if err != nil {
		return fmt.Errorf("initializing azure clients: %w", err)
	}

	pctx := provisioning.NewContext(ctx, cfg, cloud)
	return runPhases(pctx, deployPhases())
}

// prepareConfig loads, resolves and validates the deployment configuration.
// Every derived name incorporates the same per-run suffix.
func prepareConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'teamsgenie init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Printf("Using config: %s", configPath)

	cfg.Resolve(newSuffix())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runPreflight verifies the ambient credential and reports on client tools.
func runPreflight(ctx context.Context) error {
	log.Println("Checking prerequisites...")

	results := checkTools()
	for _, r := range results.Results {
		if r.Found {
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			log.Printf("  Found %s (%s)", r.Tool.Name, version)
		}
	}
	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}

	if err := checkCredential(ctx); err != nil {
		return fmt.Errorf("azure credential check failed: %w", err)
	}
	return nil
}
