package summary

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/platform/azure/fakes"
	"github.com/genieops/teamsgenie/internal/provisioning"
)

func newTestContext() *provisioning.Context {
	cfg := &config.Config{
		TenantID:       "tenant-id",
		SubscriptionID: "sub-id",
		DatabricksHost: "https://adb-123.azuredatabricks.net",
		GenieSpaceID:   "space-1",
		BotName:        "genie-bot-test01",
	}
	cfg.Resolve("test01")

	ctx := provisioning.NewContext(context.Background(), cfg, fakes.NewFakeCloud())
	ctx.Sleep = func(time.Duration) {}
	ctx.State.Identity = provisioning.IdentityRecord{
		AppID:        "app-id",
		ObjectID:     "object-id",
		ClientSecret: "super-secret",
		AppURI:       "api://botid-app-id",
		ScopeID:      "scope-id",
	}
	ctx.State.VaultURI = "https://kv.vault.azure.net/"
	ctx.State.PublicURL = "https://site.azurewebsites.net"
	ctx.State.PackagePath = "manifest/genie-bot-package.zip"
	return ctx
}

func newTestReporter(t *testing.T) (*Reporter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r := &Reporter{
		OutputPath: filepath.Join(t.TempDir(), RecordFile),
		Out:        &out,
	}
	return r, &out
}

func TestProvisionWritesRecord(t *testing.T) {
	r, _ := newTestReporter(t)
	ctx := newTestContext()

	require.NoError(t, r.Provision(ctx))

	raw, err := os.ReadFile(r.OutputPath)
	require.NoError(t, err)
	record := string(raw)

	assert.Contains(t, record, "MICROSOFT_APP_ID=app-id")
	assert.Contains(t, record, "MICROSOFT_APP_PASSWORD=super-secret")
	assert.Contains(t, record, "APP_IDENTIFIER_URI=api://botid-app-id")
	assert.Contains(t, record, "KEY_VAULT_URL=https://kv.vault.azure.net/")
	assert.Contains(t, record, "PUBLIC_URL=https://site.azurewebsites.net")
	assert.Contains(t, record, "TENANT_ID=tenant-id")
}

func TestProvisionRecordIsOwnerOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	r, _ := newTestReporter(t)
	ctx := newTestContext()

	require.NoError(t, r.Provision(ctx))

	info, err := os.Stat(r.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestProvisionPrintsNextSteps(t *testing.T) {
	r, out := newTestReporter(t)
	ctx := newTestContext()

	require.NoError(t, r.Provision(ctx))

	s := out.String()
	assert.Contains(t, s, "Deployment complete")
	assert.Contains(t, s, "Next steps")
	assert.Contains(t, s, "manifest/genie-bot-package.zip")
	assert.Contains(t, s, "curl https://site.azurewebsites.net/health")
	// The secret itself is never echoed to the terminal.
	assert.NotContains(t, s, "super-secret")
}

func TestProvisionListsWarnings(t *testing.T) {
	r, out := newTestReporter(t)
	ctx := newTestContext()
	ctx.State.Warnings = []provisioning.Warning{
		{
			Phase:       "identity",
			Step:        "grant admin consent",
			Err:         errors.New("insufficient privileges"),
			Remediation: "grant consent in the Entra portal",
		},
	}

	require.NoError(t, r.Provision(ctx))

	s := out.String()
	assert.Contains(t, s, "manual follow-up")
	assert.Contains(t, s, "grant admin consent")
	assert.Contains(t, s, "grant consent in the Entra portal")
}
