package channel

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
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
		ClientSecret: "client-secret",
		AppURI:       "api://botid-app-id",
	}
	ctx.State.SiteHost = "genie-bot-test01-app.azurewebsites.net"
	ctx.State.PublicURL = "https://genie-bot-test01-app.azurewebsites.net"
	return ctx
}

func TestProvisionCreatesBotWithMessagingEndpoint(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, "app-id", fake.BotAppID)
	assert.Equal(t, "https://genie-bot-test01-app.azurewebsites.net/api/messages", fake.BotEndpoint)
	assert.True(t, fake.TeamsEnabled)
}

func TestProvisionOAuthConnection(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))

	conn := fake.Connection
	assert.Equal(t, OAuthConnectionName, conn.Name)
	assert.Equal(t, "app-id", conn.ClientID)
	assert.Equal(t, "client-secret", conn.ClientSecret)
	assert.Equal(t, "tenant-id", conn.TenantID)
	assert.Equal(t, "api://botid-app-id/access_as_user openid profile", conn.Scopes)
	// The exchange URL and the identifier URI must match exactly.
	assert.Equal(t, ctx.State.Identity.AppURI, conn.TokenExchangeURL)
}

func TestProvisionBotCreationFatal(t *testing.T) {
	fake := fakes.NewFakeCloud()
	fake.Err["CreateBot"] = errors.New("quota exceeded")
	ctx := newTestContext(fake)

	require.Error(t, NewProvisioner().Provision(ctx))
	assert.False(t, fake.Called("EnableTeamsChannel"))
}

func TestProvisionChannelExistsDowngraded(t *testing.T) {
	fake := fakes.NewFakeCloud()
	fake.Err["EnableTeamsChannel"] = &azcore.ResponseError{StatusCode: http.StatusConflict}
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))
	require.Len(t, ctx.State.Warnings, 1)
	assert.Equal(t, "enable teams channel", ctx.State.Warnings[0].Step)
	// The run continues to the OAuth connection.
	assert.True(t, fake.Called("CreateOAuthConnection"))
}

func TestProvisionChannelPermissionErrorFatal(t *testing.T) {
	fake := fakes.NewFakeCloud()
	fake.Err["EnableTeamsChannel"] = &azcore.ResponseError{StatusCode: http.StatusForbidden}
	ctx := newTestContext(fake)

	require.Error(t, NewProvisioner().Provision(ctx))
	assert.False(t, fake.Called("CreateOAuthConnection"))
}

func TestProvisionConnectionFailureDowngraded(t *testing.T) {
	fake := fakes.NewFakeCloud()
	fake.Err["CreateOAuthConnection"] = errors.New("provider unavailable")
	ctx := newTestContext(fake)

	require.NoError(t, NewProvisioner().Provision(ctx))
	require.Len(t, ctx.State.Warnings, 1)
	assert.Equal(t, "register oauth connection", ctx.State.Warnings[0].Step)
	assert.Contains(t, ctx.State.Warnings[0].Remediation, OAuthConnectionName)
}
