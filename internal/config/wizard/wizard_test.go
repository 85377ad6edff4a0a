package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genieops/teamsgenie/internal/config"
)

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("12345678-1234-1234-1234-123456789abc"))
	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("not-a-guid"))
	assert.Error(t, ValidateTenantID("12345678-1234-1234-1234"))
}

func TestValidateDatabricksHost(t *testing.T) {
	assert.NoError(t, ValidateDatabricksHost("https://adb-123.4.azuredatabricks.net"))
	assert.Error(t, ValidateDatabricksHost("http://adb-123.4.azuredatabricks.net"))
	assert.Error(t, ValidateDatabricksHost("adb-123.4.azuredatabricks.net"))
	assert.Error(t, ValidateDatabricksHost("https://adb-123.4.azuredatabricks.net/"))
}

func TestValidateGenieSpaceID(t *testing.T) {
	assert.NoError(t, ValidateGenieSpaceID("01ef1234abcd"))
	assert.Error(t, ValidateGenieSpaceID(""))
	assert.Error(t, ValidateGenieSpaceID("   "))
}

func TestWriteEnvRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamsgenie.env")
	result := &Result{
		TenantID:       "12345678-1234-1234-1234-123456789abc",
		SubscriptionID: "sub-id",
		DatabricksHost: "https://adb-123.4.azuredatabricks.net",
		GenieSpaceID:   "space-1",
		Location:       "westeurope",
	}

	require.NoError(t, WriteEnv(result, path))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, result.TenantID, cfg.TenantID)
	assert.Equal(t, result.DatabricksHost, cfg.DatabricksHost)
	assert.Equal(t, result.GenieSpaceID, cfg.GenieSpaceID)
	assert.Equal(t, "westeurope", cfg.Location)
	// Unset optional keys stay commented out, not empty assignments.
	assert.Empty(t, cfg.BotName)
}

func TestWriteEnvIsOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamsgenie.env")
	require.NoError(t, WriteEnv(&Result{TenantID: "t"}, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteEnvDocumentsOptionalKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamsgenie.env")
	require.NoError(t, WriteEnv(&Result{}, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{"DATABRICKS_CLIENT_ID", "DEVELOPER_NAME", "BOT_NAME"} {
		assert.Contains(t, string(raw), key)
	}
}
