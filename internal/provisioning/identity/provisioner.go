// Package identity provisions the Entra ID application the bot runs as:
// registration, SSO scope exposure, Teams client pre-authorization, the
// Databricks delegated permission, redirect URI and client secret.
package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/genieops/teamsgenie/internal/platform/azure"
	"github.com/genieops/teamsgenie/internal/provisioning"
)

// Well-known identifiers of the SSO handshake. These are fixed platform
// values, not configuration.
const (
	// TeamsDesktopClientID is the Microsoft Teams desktop and mobile client.
	TeamsDesktopClientID = "1fec8e78-bce4-4aaf-ab1b-5451cc387264"

	// TeamsWebClientID is the Microsoft Teams web client.
	TeamsWebClientID = "5e3ce6c0-2b1f-4285-8d4b-75ee78787346"

	// DatabricksResourceAppID is the AzureDatabricks first-party application.
	DatabricksResourceAppID = "2ff814a6-3304-4ab8-85cb-cd0e6f879c1d"

	// DatabricksUserImpersonationID is the user_impersonation delegated
	// permission on the AzureDatabricks application.
	DatabricksUserImpersonationID = "739272be-e143-11e8-9f32-f2801f1b9fd1"

	// BotFrameworkRedirectURI is where the Bot Framework token service
	// completes the OAuth flow.
	BotFrameworkRedirectURI = "https://token.botframework.com/.auth/web/redirect"

	// ScopeValue is the delegated scope the Teams clients request.
	ScopeValue = "access_as_user"
)

const (
	secretDisplayName = "teamsgenie-deploy"
	secretValidity    = 365 * 24 * time.Hour

	// principalSettleDelay gives the directory time to propagate a freshly
	// created service principal before consent is granted against it.
	principalSettleDelay = 15 * time.Second
)

// BotIDURI returns the application's public identifier URI. The manifest's
// webApplicationInfo resource and the OAuth connection's token-exchange URL
// must both equal this value exactly.
func BotIDURI(appID string) string {
	return fmt.Sprintf("api://botid-%s", appID)
}

// Provisioner implements the identity phase.
type Provisioner struct{}

// NewProvisioner creates a new identity provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string {
	return "identity"
}

// Provision registers the application and builds out its SSO surface. The
// steps are strictly ordered; everything after registration addresses the
// application by the object id it returned.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	id := &ctx.State.Identity

	steps := []provisioning.Step{
		{
			Name:   "create app registration",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				provisioning.LogResourceCreating(ctx.Observer, p.Name(), "app registration", ctx.Config.BotName)
				app, err := ctx.Cloud.CreateApplication(ctx, ctx.Config.BotName)
				if err != nil {
					return err
				}
				id.AppID = app.AppID
				id.ObjectID = app.ObjectID
				provisioning.LogResourceCreated(ctx.Observer, p.Name(), "app registration", ctx.Config.BotName, app.AppID)
				return nil
			},
		},
		{
			Name:   "set identifier uri",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				id.AppURI = BotIDURI(id.AppID)
				return ctx.Cloud.SetIdentifierURI(ctx, id.ObjectID, id.AppURI)
			},
		},
		{
			Name:   "expose sso scope",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				id.ScopeID = uuid.NewString()
				return ctx.Cloud.AddAPIScope(ctx, id.ObjectID, azure.APIScope{
					ID:                      id.ScopeID,
					Value:                   ScopeValue,
					AdminConsentDisplayName: "Teams can access the user's profile",
					AdminConsentDescription: "Allows Teams to call the app's web APIs as the current user.",
					UserConsentDisplayName:  "Teams can access your profile",
					UserConsentDescription:  "Allows Teams to call this app's APIs with the same rights you have.",
				})
			},
		},
		{
			Name:   "preauthorize teams clients",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				return ctx.Cloud.PreauthorizeClients(ctx, id.ObjectID, id.ScopeID, []string{
					TeamsDesktopClientID,
					TeamsWebClientID,
				})
			},
		},
		{
			Name:   "require databricks permission",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				return ctx.Cloud.RequireResourceAccess(ctx, id.ObjectID, DatabricksResourceAppID, DatabricksUserImpersonationID)
			},
		},
		{
			Name:        "create service principal",
			Policy:      provisioning.PolicyWarnAlways,
			Remediation: "grant admin consent in the Entra portal; the service principal is created along the way",
			Run: func(ctx *provisioning.Context) error {
				_, err := ctx.Cloud.EnsureServicePrincipal(ctx, id.AppID)
				return err
			},
		},
		{
			Name:        "grant admin consent",
			Policy:      provisioning.PolicyWarnAlways,
			Remediation: "run 'az ad app permission admin-consent --id <app-id>' or use the Entra portal (API permissions > Grant admin consent)",
			Run: func(ctx *provisioning.Context) error {
				// The principal created above needs a moment to propagate
				// through the directory before consent resolves it.
				ctx.Sleep(principalSettleDelay)
				return ctx.Cloud.GrantAdminConsent(ctx, id.AppID, DatabricksResourceAppID, "user_impersonation")
			},
		},
		{
			Name:   "register redirect uri",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				return ctx.Cloud.AddRedirectURI(ctx, id.ObjectID, BotFrameworkRedirectURI)
			},
		},
		{
			Name:   "create client secret",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				secret, err := ctx.Cloud.AddClientSecret(ctx, id.ObjectID, secretDisplayName, secretValidity)
				if err != nil {
					return err
				}
				id.ClientSecret = secret
				return nil
			},
		},
	}

	return provisioning.RunSteps(ctx, p.Name(), steps)
}
