package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/botservice/armbotservice"
)

// aadV2ServiceProviderID identifies the "Azure Active Directory v2" OAuth
// service provider in Bot Service connection settings.
const aadV2ServiceProviderID = "30dd229c-58e3-4a48-bdfd-91ec48eb906c"

// Bot resources are metadata-only and always live in the "global" location
// regardless of where the compute runs.
const botLocation = "global"

// CreateBot registers a single-tenant Azure Bot bound to the application
// identity, pointing at the site's messaging endpoint.
func (c *RealClient) CreateBot(ctx context.Context, resourceGroup, botName, displayName, appID, tenantID, endpoint string) error {
	_, err := c.bots.Create(ctx, resourceGroup, botName, armbotservice.Bot{
		Location: to.Ptr(botLocation),
		Kind:     to.Ptr(armbotservice.KindAzurebot),
		SKU: &armbotservice.SKU{
			Name: to.Ptr(armbotservice.SKUNameF0),
		},
		Properties: &armbotservice.BotProperties{
			DisplayName:    to.Ptr(displayName),
			Endpoint:       to.Ptr(endpoint),
			MsaAppID:       to.Ptr(appID),
			MsaAppType:     to.Ptr(armbotservice.MsaAppTypeSingleTenant),
			MsaAppTenantID: to.Ptr(tenantID),
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to create bot %s: %w", botName, err)
	}
	return nil
}

// EnableTeamsChannel enables the Microsoft Teams channel on the bot.
func (c *RealClient) EnableTeamsChannel(ctx context.Context, resourceGroup, botName string) error {
	_, err := c.channels.Create(ctx, resourceGroup, botName, armbotservice.ChannelNameMsTeamsChannel, armbotservice.BotChannel{
		Location: to.Ptr(botLocation),
		Properties: &armbotservice.MsTeamsChannel{
			ChannelName: to.Ptr("MsTeamsChannel"),
			Properties: &armbotservice.MsTeamsChannelProperties{
				IsEnabled: to.Ptr(true),
			},
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to enable Teams channel on %s: %w", botName, err)
	}
	return nil
}

// CreateOAuthConnection registers the OAuth connection setting the hosted
// application references by name for SSO token exchange. The token exchange
// URL must equal the application's identifier URI exactly.
func (c *RealClient) CreateOAuthConnection(ctx context.Context, resourceGroup, botName string, spec OAuthConnectionSpec) error {
	_, err := c.botConns.Create(ctx, resourceGroup, botName, spec.Name, armbotservice.ConnectionSetting{
		Location: to.Ptr(botLocation),
		Properties: &armbotservice.ConnectionSettingProperties{
			ServiceProviderID:          to.Ptr(aadV2ServiceProviderID),
			ServiceProviderDisplayName: to.Ptr("Azure Active Directory v2"),
			ClientID:                   to.Ptr(spec.ClientID),
			ClientSecret:               to.Ptr(spec.ClientSecret),
			Scopes:                     to.Ptr(spec.Scopes),
			Parameters: []*armbotservice.ConnectionSettingParameter{
				{Key: to.Ptr("tenantID"), Value: to.Ptr(spec.TenantID)},
				{Key: to.Ptr("tokenExchangeUrl"), Value: to.Ptr(spec.TokenExchangeURL)},
			},
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to create OAuth connection %s on %s: %w", spec.Name, botName, err)
	}
	return nil
}
