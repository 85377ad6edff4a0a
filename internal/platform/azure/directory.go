package azure

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/google/uuid"
	graphapplications "github.com/microsoftgraph/msgraph-sdk-go/applications"
	graphmodels "github.com/microsoftgraph/msgraph-sdk-go/models"
	graphserviceprincipals "github.com/microsoftgraph/msgraph-sdk-go/serviceprincipals"
)

// CreateApplication registers a single-tenant application in Entra ID.
func (c *RealClient) CreateApplication(ctx context.Context, displayName string) (AppIdentity, error) {
	app := graphmodels.NewApplication()
	app.SetDisplayName(to.Ptr(displayName))
	app.SetSignInAudience(to.Ptr("AzureADMyOrg"))

	created, err := c.graph.Applications().Post(ctx, app, nil)
	if err != nil {
		return AppIdentity{}, fmt.Errorf("failed to create app registration: %w", err)
	}

	appID := created.GetAppId()
	objectID := created.GetId()
	if appID == nil || *appID == "" || strings.EqualFold(*appID, "null") {
		return AppIdentity{}, fmt.Errorf("app registration returned no application id")
	}
	if objectID == nil || *objectID == "" {
		return AppIdentity{}, fmt.Errorf("app registration returned no object id")
	}

	return AppIdentity{AppID: *appID, ObjectID: *objectID}, nil
}

// SetIdentifierURI sets the application ID URI and pins issued tokens to the
// v2 format. Both are required by the Teams SSO token exchange.
func (c *RealClient) SetIdentifierURI(ctx context.Context, objectID, uri string) error {
	patch := graphmodels.NewApplication()
	patch.SetIdentifierUris([]string{uri})

	api := graphmodels.NewApiApplication()
	api.SetRequestedAccessTokenVersion(to.Ptr(int32(2)))
	patch.SetApi(api)

	if _, err := c.graph.Applications().ByApplicationId(objectID).Patch(ctx, patch, nil); err != nil {
		return fmt.Errorf("failed to set identifier URI %s: %w", uri, err)
	}
	return nil
}

// AddAPIScope exposes a delegated permission scope on the application.
func (c *RealClient) AddAPIScope(ctx context.Context, objectID string, scope APIScope) error {
	scopeID, err := uuid.Parse(scope.ID)
	if err != nil {
		return fmt.Errorf("invalid scope id %q: %w", scope.ID, err)
	}

	s := graphmodels.NewPermissionScope()
	s.SetId(&scopeID)
	s.SetTypeEscaped(to.Ptr("User"))
	s.SetValue(to.Ptr(scope.Value))
	s.SetIsEnabled(to.Ptr(true))
	s.SetAdminConsentDisplayName(to.Ptr(scope.AdminConsentDisplayName))
	s.SetAdminConsentDescription(to.Ptr(scope.AdminConsentDescription))
	s.SetUserConsentDisplayName(to.Ptr(scope.UserConsentDisplayName))
	s.SetUserConsentDescription(to.Ptr(scope.UserConsentDescription))

	api := graphmodels.NewApiApplication()
	api.SetOauth2PermissionScopes([]graphmodels.PermissionScopeable{s})

	patch := graphmodels.NewApplication()
	patch.SetApi(api)

	if _, err := c.graph.Applications().ByApplicationId(objectID).Patch(ctx, patch, nil); err != nil {
		return fmt.Errorf("failed to add API scope %s: %w", scope.Value, err)
	}
	return nil
}

// PreauthorizeClients pre-authorizes client applications for the given scope.
// The az CLI has no command for this; through Graph it is a plain patch of
// the application's api block.
func (c *RealClient) PreauthorizeClients(ctx context.Context, objectID, scopeID string, clientAppIDs []string) error {
	apps := make([]graphmodels.PreAuthorizedApplicationable, 0, len(clientAppIDs))
	for _, clientID := range clientAppIDs {
		p := graphmodels.NewPreAuthorizedApplication()
		p.SetAppId(to.Ptr(clientID))
		p.SetDelegatedPermissionIds([]string{scopeID})
		apps = append(apps, p)
	}

	api := graphmodels.NewApiApplication()
	api.SetPreAuthorizedApplications(apps)

	patch := graphmodels.NewApplication()
	patch.SetApi(api)

	if _, err := c.graph.Applications().ByApplicationId(objectID).Patch(ctx, patch, nil); err != nil {
		return fmt.Errorf("failed to pre-authorize client applications: %w", err)
	}
	return nil
}

// RequireResourceAccess requests a delegated permission on an external
// resource application.
func (c *RealClient) RequireResourceAccess(ctx context.Context, objectID, resourceAppID, permissionID string) error {
	permID, err := uuid.Parse(permissionID)
	if err != nil {
		return fmt.Errorf("invalid permission id %q: %w", permissionID, err)
	}

	access := graphmodels.NewResourceAccess()
	access.SetId(&permID)
	access.SetTypeEscaped(to.Ptr("Scope"))

	required := graphmodels.NewRequiredResourceAccess()
	required.SetResourceAppId(to.Ptr(resourceAppID))
	required.SetResourceAccess([]graphmodels.ResourceAccessable{access})

	patch := graphmodels.NewApplication()
	patch.SetRequiredResourceAccess([]graphmodels.RequiredResourceAccessable{required})

	if _, err := c.graph.Applications().ByApplicationId(objectID).Patch(ctx, patch, nil); err != nil {
		return fmt.Errorf("failed to require resource access on %s: %w", resourceAppID, err)
	}
	return nil
}

// EnsureServicePrincipal creates the service principal for appID, tolerating
// an existing one.
func (c *RealClient) EnsureServicePrincipal(ctx context.Context, appID string) (string, error) {
	sp := graphmodels.NewServicePrincipal()
	sp.SetAppId(to.Ptr(appID))

	created, err := c.graph.ServicePrincipals().Post(ctx, sp, nil)
	if err != nil {
		if IsAlreadyExists(err) {
			return c.findServicePrincipal(ctx, appID)
		}
		return "", fmt.Errorf("failed to create service principal for %s: %w", appID, err)
	}

	objectID := created.GetId()
	if objectID == nil || *objectID == "" {
		return "", fmt.Errorf("service principal for %s returned no object id", appID)
	}
	return *objectID, nil
}

// GrantAdminConsent grants the delegated scope for all principals in the
// tenant via an oauth2PermissionGrant between the two service principals.
func (c *RealClient) GrantAdminConsent(ctx context.Context, appID, resourceAppID, scope string) error {
	clientSP, err := c.findServicePrincipal(ctx, appID)
	if err != nil {
		return fmt.Errorf("failed to resolve service principal for %s: %w", appID, err)
	}
	resourceSP, err := c.findServicePrincipal(ctx, resourceAppID)
	if err != nil {
		return fmt.Errorf("failed to resolve service principal for resource %s: %w", resourceAppID, err)
	}

	grant := graphmodels.NewOAuth2PermissionGrant()
	grant.SetClientId(to.Ptr(clientSP))
	grant.SetConsentType(to.Ptr("AllPrincipals"))
	grant.SetResourceId(to.Ptr(resourceSP))
	grant.SetScope(to.Ptr(scope))

	if _, err := c.graph.Oauth2PermissionGrants().Post(ctx, grant, nil); err != nil {
		return fmt.Errorf("failed to grant admin consent for %s: %w", scope, err)
	}
	return nil
}

// AddRedirectURI appends a web redirect URI, preserving existing entries.
func (c *RealClient) AddRedirectURI(ctx context.Context, objectID, uri string) error {
	app, err := c.graph.Applications().ByApplicationId(objectID).Get(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to read application %s: %w", objectID, err)
	}

	var uris []string
	if web := app.GetWeb(); web != nil {
		uris = web.GetRedirectUris()
	}
	if slices.Contains(uris, uri) {
		return nil
	}
	uris = append(uris, uri)

	web := graphmodels.NewWebApplication()
	web.SetRedirectUris(uris)

	patch := graphmodels.NewApplication()
	patch.SetWeb(web)

	if _, err := c.graph.Applications().ByApplicationId(objectID).Patch(ctx, patch, nil); err != nil {
		return fmt.Errorf("failed to add redirect URI %s: %w", uri, err)
	}
	return nil
}

// AddClientSecret mints a client secret. The returned secret text is not
// retrievable again, so callers must persist it immediately.
func (c *RealClient) AddClientSecret(ctx context.Context, objectID, displayName string, validity time.Duration) (string, error) {
	credential := graphmodels.NewPasswordCredential()
	credential.SetDisplayName(to.Ptr(displayName))
	credential.SetEndDateTime(to.Ptr(time.Now().UTC().Add(validity)))

	body := graphapplications.NewItemAddPasswordPostRequestBody()
	body.SetPasswordCredential(credential)

	created, err := c.graph.Applications().ByApplicationId(objectID).AddPassword().Post(ctx, body, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create client secret: %w", err)
	}

	secret := created.GetSecretText()
	if secret == nil || *secret == "" {
		return "", fmt.Errorf("client secret creation returned an empty secret")
	}
	return *secret, nil
}

func (c *RealClient) findServicePrincipal(ctx context.Context, appID string) (string, error) {
	cfg := &graphserviceprincipals.ServicePrincipalsRequestBuilderGetRequestConfiguration{
		QueryParameters: &graphserviceprincipals.ServicePrincipalsRequestBuilderGetQueryParameters{
			Filter: to.Ptr(fmt.Sprintf("appId eq '%s'", appID)),
		},
	}
	res, err := c.graph.ServicePrincipals().Get(ctx, cfg)
	if err != nil {
		return "", err
	}
	principals := res.GetValue()
	if len(principals) == 0 || principals[0].GetId() == nil {
		return "", fmt.Errorf("no service principal found for appId %s", appID)
	}
	return *principals[0].GetId(), nil
}
