package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/platform/azure"
	"github.com/genieops/teamsgenie/internal/platform/azure/fakes"
	"github.com/genieops/teamsgenie/internal/provisioning"
	"github.com/genieops/teamsgenie/internal/util/prerequisites"
)

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origFindConfigFile := findConfigFile
	origLoadConfigFile := loadConfigFile
	origNewSuffix := newSuffix
	origCheckCredential := checkCredential
	origCheckTools := checkTools
	origNewCloudClient := newCloudClient
	origRunPhases := runPhases
	origFileExists := fileExists
	origRunWizard := runWizard
	origWriteEnvFile := writeEnvFile
	origReadDeploymentRecord := readDeploymentRecord

	t.Cleanup(func() {
		findConfigFile = origFindConfigFile
		loadConfigFile = origLoadConfigFile
		newSuffix = origNewSuffix
		checkCredential = origCheckCredential
		checkTools = origCheckTools
		newCloudClient = origNewCloudClient
		runPhases = origRunPhases
		fileExists = origFileExists
		runWizard = origRunWizard
		writeEnvFile = origWriteEnvFile
		readDeploymentRecord = origReadDeploymentRecord
	})
}

func stubValidConfig(t *testing.T) {
	t.Helper()
	loadConfigFile = func(string) (*config.Config, error) {
		return &config.Config{
			TenantID:       "tenant-id",
			SubscriptionID: "sub-id",
			DatabricksHost: "https://adb-123.azuredatabricks.net",
			GenieSpaceID:   "space-1",
		}, nil
	}
	newSuffix = func() string { return "abc123" }
	checkTools = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	checkCredential = func(context.Context) error { return nil }
}

func TestDeployRunsPipeline(t *testing.T) {
	saveAndRestoreFactories(t)
	stubValidConfig(t)

	fake := fakes.NewFakeCloud()
	newCloudClient = func(tenantID, subscriptionID string) (azure.CloudManager, error) {
		assert.Equal(t, "tenant-id", tenantID)
		assert.Equal(t, "sub-id", subscriptionID)
		return fake, nil
	}

	var gotPhases []string
	runPhases = func(ctx *provisioning.Context, phases []provisioning.Phase) error {
		for _, p := range phases {
			gotPhases = append(gotPhases, p.Name())
		}
		assert.Same(t, fake, ctx.Cloud)
		return nil
	}

	require.NoError(t, Deploy(context.Background(), "teamsgenie.env"))
	assert.Equal(t, []string{"identity", "infrastructure", "channel", "package", "deploy", "summary"}, gotPhases)
}

func TestDeployNoConfigFile(t *testing.T) {
	saveAndRestoreFactories(t)

	findConfigFile = func() (string, error) {
		return "", errors.New("config file teamsgenie.env not found")
	}

	err := Deploy(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teamsgenie init")
}

func TestDeployInvalidConfigHaltsBeforeProvisioning(t *testing.T) {
	saveAndRestoreFactories(t)
	stubValidConfig(t)
	loadConfigFile = func(string) (*config.Config, error) {
		return &config.Config{TenantID: "tenant-id"}, nil
	}

	var provisioned bool
	runPhases = func(*provisioning.Context, []provisioning.Phase) error {
		provisioned = true
		return nil
	}

	err := Deploy(context.Background(), "teamsgenie.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABRICKS_HOST")
	assert.False(t, provisioned)
}

func TestDeployCredentialFailureFatal(t *testing.T) {
	saveAndRestoreFactories(t)
	stubValidConfig(t)
	checkCredential = func(context.Context) error {
		return errors.New("no token for https://graph.microsoft.com/.default")
	}

	err := Deploy(context.Background(), "teamsgenie.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential check failed")
}

func TestPrepareConfigDerivesNames(t *testing.T) {
	saveAndRestoreFactories(t)
	stubValidConfig(t)

	cfg, err := prepareConfig("teamsgenie.env")
	require.NoError(t, err)

	assert.Equal(t, "genie-bot-abc123", cfg.BotName)
	assert.Equal(t, "genie-bot-abc123-rg", cfg.ResourceGroup)
	assert.Equal(t, "genie-bot-abc123-plan", cfg.AppServicePlan)
	assert.Equal(t, config.DefaultLocation, cfg.Location)
}
