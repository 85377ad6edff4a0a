package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDerivesNamesFromOneSuffix(t *testing.T) {
	cfg := &Config{}
	cfg.Resolve("abc123")

	assert.Equal(t, "genie-bot-abc123", cfg.BotName)
	assert.Equal(t, "genie-bot-abc123-rg", cfg.ResourceGroup)
	assert.Equal(t, "genie-bot-abc123-kv", cfg.KeyVaultName)
	assert.Equal(t, "genie-bot-abc123-plan", cfg.AppServicePlan)
	assert.Equal(t, "genie-bot-abc123", cfg.AppName)
	assert.Equal(t, DefaultLocation, cfg.Location)
}

func TestResolveKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		BotName:  "my-bot",
		Location: "westeurope",
	}
	cfg.Resolve("abc123")

	assert.Equal(t, "my-bot", cfg.BotName)
	assert.Equal(t, "my-bot-rg", cfg.ResourceGroup)
	assert.Equal(t, "westeurope", cfg.Location)
}

func TestResolveIsDeterministic(t *testing.T) {
	a := &Config{}
	a.Resolve("xyz789")
	b := &Config{}
	b.Resolve("xyz789")

	assert.Equal(t, a, b)

	// Re-resolving an already resolved config must not change it.
	resolved := *a
	a.Resolve("other0")
	assert.Equal(t, &resolved, a)
}

func TestValidateReportsFirstMissingField(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantKey string
	}{
		{
			name:    "empty config reports tenant first",
			cfg:     Config{},
			wantKey: "TENANT_ID",
		},
		{
			name:    "missing databricks host",
			cfg:     Config{TenantID: "t"},
			wantKey: "DATABRICKS_HOST",
		},
		{
			name:    "missing genie space reported before optional fields",
			cfg:     Config{TenantID: "t", DatabricksHost: "https://adb.example.net"},
			wantKey: "GENIE_SPACE_ID",
		},
		{
			name:    "missing subscription",
			cfg:     Config{TenantID: "t", DatabricksHost: "h", GenieSpaceID: "g"},
			wantKey: "SUBSCRIPTION_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := Config{
		TenantID:       "tenant",
		DatabricksHost: "https://adb.example.net",
		GenieSpaceID:   "space",
		SubscriptionID: "sub",
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileEnvFormat(t *testing.T) {
	t.Setenv("AZURE_SUBSCRIPTION_ID", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "teamsgenie.env")
	content := "TENANT_ID=tenant-1\nDATABRICKS_HOST=https://adb.example.net\nGENIE_SPACE_ID=space-1\nSUBSCRIPTION_ID=sub-1\nBOT_NAME=custom-bot\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "tenant-1", cfg.TenantID)
	assert.Equal(t, "https://adb.example.net", cfg.DatabricksHost)
	assert.Equal(t, "space-1", cfg.GenieSpaceID)
	assert.Equal(t, "sub-1", cfg.SubscriptionID)
	assert.Equal(t, "custom-bot", cfg.BotName)
}

func TestLoadFileYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamsgenie.yaml")
	content := "TENANT_ID: tenant-2\nDATABRICKS_HOST: https://adb.example.net\nGENIE_SPACE_ID: space-2\nSUBSCRIPTION_ID: sub-2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "tenant-2", cfg.TenantID)
	assert.Equal(t, "space-2", cfg.GenieSpaceID)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadFileEnvironmentOverlay(t *testing.T) {
	t.Setenv("AZURE_SUBSCRIPTION_ID", "sub-from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "teamsgenie.env")
	content := "TENANT_ID=tenant\nDATABRICKS_HOST=host\nGENIE_SPACE_ID=space\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sub-from-env", cfg.SubscriptionID)
}

func TestSummaryMasksSecrets(t *testing.T) {
	cfg := &Config{
		TenantID:               "tenant",
		DatabricksClientID:     "client",
		DatabricksClientSecret: "super-secret",
	}
	out := cfg.Summary()
	assert.Contains(t, out, "tenant")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "super-secret")
}
