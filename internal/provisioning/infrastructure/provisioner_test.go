package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/platform/azure/fakes"
	"github.com/genieops/teamsgenie/internal/provisioning"
)

func newTestContext(fake *fakes.FakeCloud) *provisioning.Context {
	cfg := &config.Config{
		TenantID:       "tenant-id",
		SubscriptionID: "sub-id",
		DatabricksHost: "https://adb-123.azuredatabricks.net",
		GenieSpaceID:   "space-1",
		BotName:        "genie-bot-test01",
	}
	cfg.Resolve("test01")

	ctx := provisioning.NewContext(context.Background(), cfg, fake)
	ctx.Sleep = func(time.Duration) {}
	ctx.State.Identity = provisioning.IdentityRecord{
		AppID:        "app-id",
		ObjectID:     "object-id",
		ClientSecret: "client-secret",
		AppURI:       "api://botid-app-id",
		ScopeID:      "scope-id",
	}
	return ctx
}

func TestProvisionCreatesHosting(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	cfg := ctx.Config
	assert.Equal(t, cfg.Location, fake.ResourceGroups[cfg.ResourceGroup])
	assert.Contains(t, fake.Vaults, cfg.KeyVaultName)
	assert.Contains(t, fake.Plans, cfg.AppServicePlan)

	assert.Equal(t, fake.VaultURI, ctx.State.VaultURI)
	assert.Equal(t, fake.HostName, ctx.State.SiteHost)
	assert.Equal(t, "https://"+fake.HostName, ctx.State.PublicURL)
	assert.Equal(t, fake.PrincipalID, ctx.State.PrincipalID)

	assert.Contains(t, fake.AccessGrants, cfg.KeyVaultName+"->"+fake.PrincipalID)
}

func TestProvisionWritesRequiredSecrets(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, "app-id", fake.Secrets[SecretAppID])
	assert.Equal(t, "client-secret", fake.Secrets[SecretAppPassword])
	assert.Equal(t, "tenant-id", fake.Secrets[SecretTenantID])
	assert.Equal(t, "https://adb-123.azuredatabricks.net", fake.Secrets[SecretDatabricksHost])
	assert.Equal(t, "space-1", fake.Secrets[SecretGenieSpaceID])

	// Unconfigured OAuth pair is skipped, not written.
	assert.NotContains(t, fake.Secrets, SecretDatabricksClientID)
	assert.NotContains(t, fake.Secrets, SecretDatabricksClientSecret)
}

func TestProvisionWritesOptionalSecretsWhenConfigured(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)
	ctx.Config.DatabricksClientID = "sp-client"
	ctx.Config.DatabricksClientSecret = "sp-secret"

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, "sp-client", fake.Secrets[SecretDatabricksClientID])
	assert.Equal(t, "sp-secret", fake.Secrets[SecretDatabricksClientSecret])
}

func TestProvisionHostConfiguration(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	spec := fake.WebAppSpec
	assert.Equal(t, RuntimeStack, spec.RuntimeStack)
	assert.Equal(t, StartupCommand, spec.StartupCommand)
	assert.NotEmpty(t, spec.PlanID)

	assert.Equal(t, fake.VaultURI, spec.AppSettings["KEY_VAULT_URL"])
	assert.Equal(t, "https://"+ctx.Config.AppName+".azurewebsites.net", spec.AppSettings["BOT_PUBLIC_URL"])
	assert.Equal(t, "8000", spec.AppSettings["WEBSITES_PORT"])
	assert.Equal(t, "true", spec.AppSettings["SCM_DO_BUILD_DURING_DEPLOYMENT"])
}

func TestProvisionReconcilesPublicURLSetting(t *testing.T) {
	fake := fakes.NewFakeCloud()
	fake.HostName = "genie-bot-test01.canadacentral-01.azurewebsites.net"
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, "https://"+fake.HostName, ctx.State.PublicURL)
	assert.Equal(t, "https://"+fake.HostName, fake.UpdatedSettings["BOT_PUBLIC_URL"])
}

func TestProvisionKeepsPublicURLWhenHostMatches(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)
	fake.HostName = ctx.Config.AppName + ".azurewebsites.net"

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.False(t, fake.Called("UpdateAppSetting"))
}

func TestProvisionEveryStepFatal(t *testing.T) {
	for _, method := range []string{
		"EnsureResourceGroup",
		"CreateVault",
		"SetSecret",
		"CreatePlan",
		"CreateWebApp",
		"UpdateAppSetting",
		"GrantSecretAccess",
	} {
		t.Run(method, func(t *testing.T) {
			fake := fakes.NewFakeCloud()
			fake.Err[method] = errors.New("boom")
			ctx := newTestContext(fake)

			require.Error(t, NewProvisioner().Provision(ctx))
			assert.Empty(t, ctx.State.Warnings)
		})
	}
}
