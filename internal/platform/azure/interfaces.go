// Package azure wraps the Azure control plane (ARM and Microsoft Graph)
// behind narrow, per-concern interfaces so the provisioning phases stay
// independent of SDK types and can be tested against fakes.
package azure

import (
	"context"
	"time"
)

// AppIdentity is the result of registering an application in Entra ID.
type AppIdentity struct {
	// AppID is the application (client) id.
	AppID string

	// ObjectID is the directory object id of the application; every
	// follow-up Graph call addresses the application through it.
	ObjectID string
}

// APIScope describes a delegated permission scope exposed by the application.
type APIScope struct {
	ID                      string
	Value                   string
	AdminConsentDisplayName string
	AdminConsentDescription string
	UserConsentDisplayName  string
	UserConsentDescription  string
}

// DirectoryManager defines the Microsoft Graph operations used by the
// identity provisioner. Calls are strictly ordered: everything after
// CreateApplication consumes the object id it returned.
type DirectoryManager interface {
	// CreateApplication registers a single-tenant application.
	CreateApplication(ctx context.Context, displayName string) (AppIdentity, error)

	// SetIdentifierURI sets the application's public identifier URI and
	// pins the issued access tokens to the v2 format required by SSO.
	SetIdentifierURI(ctx context.Context, objectID, uri string) error

	// AddAPIScope exposes a delegated permission scope on the application.
	AddAPIScope(ctx context.Context, objectID string, scope APIScope) error

	// PreauthorizeClients pre-authorizes the given client application ids
	// for an already-registered scope.
	PreauthorizeClients(ctx context.Context, objectID, scopeID string, clientAppIDs []string) error

	// RequireResourceAccess requests a delegated permission on an external
	// resource application.
	RequireResourceAccess(ctx context.Context, objectID, resourceAppID, permissionID string) error

	// EnsureServicePrincipal creates the service principal for appID and
	// returns its object id. An existing principal is returned as-is.
	EnsureServicePrincipal(ctx context.Context, appID string) (string, error)

	// GrantAdminConsent grants the delegated scope of resourceAppID to the
	// application's service principal for all principals in the tenant.
	GrantAdminConsent(ctx context.Context, appID, resourceAppID, scope string) error

	// AddRedirectURI appends a web redirect URI to the application.
	AddRedirectURI(ctx context.Context, objectID, uri string) error

	// AddClientSecret mints a client secret with the given label and
	// validity. The secret text is only ever returned once.
	AddClientSecret(ctx context.Context, objectID, displayName string, validity time.Duration) (string, error)
}

// ResourceManager defines the ARM resource-group operations.
type ResourceManager interface {
	EnsureResourceGroup(ctx context.Context, name, location string) error
}

// VaultManager defines the Key Vault operations: vault creation, secret
// writes and access-policy grants.
type VaultManager interface {
	// CreateVault creates a Key Vault and returns its URI.
	CreateVault(ctx context.Context, resourceGroup, name, location string) (string, error)

	// SetSecret writes a secret value into the vault at vaultURI.
	SetSecret(ctx context.Context, vaultURI, name, value string) error

	// GrantSecretAccess grants get+list on secrets to the given principal.
	GrantSecretAccess(ctx context.Context, resourceGroup, vaultName, principalID string) error
}

// WebAppSpec carries the host configuration applied when the site is created.
type WebAppSpec struct {
	PlanID         string
	RuntimeStack   string
	StartupCommand string
	AppSettings    map[string]string
}

// SiteInfo is the result of creating the web app.
type SiteInfo struct {
	// DefaultHostName is the platform-assigned public host name.
	DefaultHostName string

	// PrincipalID is the system-assigned managed identity, used for the
	// vault access grant.
	PrincipalID string
}

// SiteManager defines the App Service operations.
type SiteManager interface {
	// CreatePlan creates a Linux hosting plan and returns its resource id.
	CreatePlan(ctx context.Context, resourceGroup, name, location string) (string, error)

	// CreateWebApp creates the site with a system-assigned identity and
	// the given host configuration.
	CreateWebApp(ctx context.Context, resourceGroup, name, location string, spec WebAppSpec) (SiteInfo, error)

	// UpdateAppSetting sets a single app setting, preserving the others.
	UpdateAppSetting(ctx context.Context, resourceGroup, appName, key, value string) error

	// DeployZip pushes an application archive through the site's SCM
	// endpoint and waits for the deployment to complete.
	DeployZip(ctx context.Context, resourceGroup, appName string, archive []byte) error
}

// OAuthConnectionSpec describes the token-exchange connection registered on
// the bot resource.
type OAuthConnectionSpec struct {
	Name             string
	ClientID         string
	ClientSecret     string
	Scopes           string
	TenantID         string
	TokenExchangeURL string
}

// BotManager defines the Bot Service operations.
type BotManager interface {
	// CreateBot registers a single-tenant Azure Bot bound to the identity.
	CreateBot(ctx context.Context, resourceGroup, botName, displayName, appID, tenantID, endpoint string) error

	// EnableTeamsChannel enables the Microsoft Teams channel on the bot.
	EnableTeamsChannel(ctx context.Context, resourceGroup, botName string) error

	// CreateOAuthConnection registers the OAuth connection setting used by
	// the hosted application for SSO token exchange.
	CreateOAuthConnection(ctx context.Context, resourceGroup, botName string, spec OAuthConnectionSpec) error
}

// CloudManager combines all control-plane interfaces.
type CloudManager interface {
	DirectoryManager
	ResourceManager
	VaultManager
	SiteManager
	BotManager
}
