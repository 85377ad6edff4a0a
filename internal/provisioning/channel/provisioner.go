// Package channel provisions the Azure Bot resource, enables the Microsoft
// Teams channel on it, and registers the OAuth connection used for SSO token
// exchange.
package channel

import (
	"fmt"

	"github.com/genieops/teamsgenie/internal/platform/azure"
	"github.com/genieops/teamsgenie/internal/provisioning"
	"github.com/genieops/teamsgenie/internal/provisioning/identity"
)

// OAuthConnectionName is the connection setting name the hosted application
// resolves at startup. Hard contract, do not change.
const OAuthConnectionName = "TeamsSSO"

// Provisioner implements the channel phase.
type Provisioner struct{}

// NewProvisioner creates a new channel provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string {
	return "channel"
}

// Provision registers the bot and its Teams surface. Bot creation is fatal;
// channel enablement tolerates an already-enabled channel on re-runs; the
// OAuth connection tolerates any failure since the portal fallback is an
// accepted operational outcome.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	id := ctx.State.Identity
	endpoint := ctx.State.PublicURL + "/api/messages"

	steps := []provisioning.Step{
		{
			Name:   "create bot resource",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				provisioning.LogResourceCreating(ctx.Observer, p.Name(), "azure bot", cfg.BotName)
				err := ctx.Cloud.CreateBot(ctx, cfg.ResourceGroup, cfg.BotName, cfg.BotName, id.AppID, cfg.TenantID, endpoint)
				if err != nil {
					return err
				}
				provisioning.LogResourceCreated(ctx.Observer, p.Name(), "azure bot", cfg.BotName, id.AppID)
				return nil
			},
		},
		{
			Name:        "enable teams channel",
			Policy:      provisioning.PolicyWarnIfExists,
			Remediation: "enable the Microsoft Teams channel on the bot resource in the portal",
			Run: func(ctx *provisioning.Context) error {
				return ctx.Cloud.EnableTeamsChannel(ctx, cfg.ResourceGroup, cfg.BotName)
			},
		},
		{
			Name:        "register oauth connection",
			Policy:      provisioning.PolicyWarnAlways,
			Remediation: fmt.Sprintf("add an OAuth connection named %s on the bot resource (Settings > Configuration) with the app's client id and secret", OAuthConnectionName),
			Run: func(ctx *provisioning.Context) error {
				return ctx.Cloud.CreateOAuthConnection(ctx, cfg.ResourceGroup, cfg.BotName, azure.OAuthConnectionSpec{
					Name:         OAuthConnectionName,
					ClientID:     id.AppID,
					ClientSecret: id.ClientSecret,
					Scopes:       fmt.Sprintf("%s/%s openid profile", id.AppURI, identity.ScopeValue),
					TenantID:     cfg.TenantID,
					// Must equal the identifier URI exactly or the
					// token-exchange handshake fails at runtime.
					TokenExchangeURL: id.AppURI,
				})
			},
		},
	}

	return provisioning.RunSteps(ctx, p.Name(), steps)
}
