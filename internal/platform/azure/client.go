package azure

import (
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/botservice/armbotservice"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
)

// graphScopes is the default scope set for the Graph client; the effective
// permissions come from the signed-in identity.
var graphScopes = []string{"https://graph.microsoft.com/.default"}

// RealClient implements CloudManager against the live Azure control plane.
type RealClient struct {
	credential     azcore.TokenCredential
	tenantID       string
	subscriptionID string

	graph      *msgraphsdk.GraphServiceClient
	groups     *armresources.ResourceGroupsClient
	vaults     *armkeyvault.VaultsClient
	plans      *armappservice.PlansClient
	webApps    *armappservice.WebAppsClient
	bots       *armbotservice.BotsClient
	channels   *armbotservice.ChannelsClient
	botConns   *armbotservice.BotConnectionClient
	httpClient *http.Client
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithHTTPClient sets a custom HTTP client for the SCM (zip deploy) requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.httpClient = hc
	}
}

// WithCredential sets a custom token credential (useful for testing).
func WithCredential(cred azcore.TokenCredential) ClientOption {
	return func(c *RealClient) {
		c.credential = cred
	}
}

// NewRealClient builds a client for the given tenant and subscription using
// the default Azure credential chain (environment, managed identity, az CLI).
func NewRealClient(tenantID, subscriptionID string, opts ...ClientOption) (*RealClient, error) {
	c := &RealClient{
		tenantID:       tenantID,
		subscriptionID: subscriptionID,
		httpClient:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.credential == nil {
		cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{TenantID: tenantID})
		if err != nil {
			return nil, fmt.Errorf("failed to get Azure credentials: %w", err)
		}
		c.credential = cred
	}

	graph, err := msgraphsdk.NewGraphServiceClientWithCredentials(c.credential, graphScopes)
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}
	c.graph = graph

	if c.groups, err = armresources.NewResourceGroupsClient(subscriptionID, c.credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create resource groups client: %w", err)
	}
	if c.vaults, err = armkeyvault.NewVaultsClient(subscriptionID, c.credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create key vault client: %w", err)
	}
	if c.plans, err = armappservice.NewPlansClient(subscriptionID, c.credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create app service plans client: %w", err)
	}
	if c.webApps, err = armappservice.NewWebAppsClient(subscriptionID, c.credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create web apps client: %w", err)
	}
	if c.bots, err = armbotservice.NewBotsClient(subscriptionID, c.credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create bot service client: %w", err)
	}
	if c.channels, err = armbotservice.NewChannelsClient(subscriptionID, c.credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create bot channels client: %w", err)
	}
	if c.botConns, err = armbotservice.NewBotConnectionClient(subscriptionID, c.credential, nil); err != nil {
		return nil, fmt.Errorf("failed to create bot connection client: %w", err)
	}

	return c, nil
}

var _ CloudManager = (*RealClient)(nil)
