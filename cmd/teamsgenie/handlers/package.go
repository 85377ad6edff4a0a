package handlers

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/provisioning"
	"github.com/genieops/teamsgenie/internal/provisioning/identity"
	"github.com/genieops/teamsgenie/internal/provisioning/manifest"
	"github.com/genieops/teamsgenie/internal/provisioning/summary"
)

// readDeploymentRecord reads a previous run's record file. Replaceable in tests.
var readDeploymentRecord = func() (map[string]string, error) {
	return godotenv.Read(summary.RecordFile)
}

// Package rebuilds the Teams app package without touching Azure. The app id
// comes from the flag, or failing that from the deployment record of a
// previous run.
func Package(ctx context.Context, configPath, appID string) error {
	cfg := loadOptionalConfig(configPath)

	botName := cfg.BotName
	if appID == "" || botName == "" {
		record, err := readDeploymentRecord()
		if err == nil {
			if appID == "" {
				appID = record["MICROSOFT_APP_ID"]
			}
			if botName == "" {
				botName = record["BOT_NAME"]
			}
		}
	}
	if appID == "" {
		return fmt.Errorf("app id unknown: pass --app-id or run from a directory containing %s", summary.RecordFile)
	}
	if botName == "" {
		return fmt.Errorf("bot name unknown: set BOT_NAME in the config or run from a directory containing %s", summary.RecordFile)
	}
	cfg.BotName = botName

	pctx := provisioning.NewContext(ctx, cfg, nil)
	pctx.State.Identity = provisioning.IdentityRecord{
		AppID:  appID,
		AppURI: identity.BotIDURI(appID),
	}

	if err := manifest.NewGenerator().Provision(pctx); err != nil {
		return err
	}

	fmt.Printf("Teams app package: %s\n", pctx.State.PackagePath)
	for _, w := range pctx.State.Warnings {
		fmt.Printf("warning: %s\n", w.String())
	}
	return nil
}

// loadOptionalConfig loads the config when one can be found. The package
// command works without one as long as the deployment record exists.
func loadOptionalConfig(configPath string) *config.Config {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return &config.Config{}
		}
		configPath = path
	}
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return &config.Config{}
	}
	return cfg
}
