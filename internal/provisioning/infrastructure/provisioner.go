// Package infrastructure provisions the Azure hosting for the bot: resource
// group, Key Vault with the runtime secrets, App Service plan and web app,
// and the managed-identity access grant that lets the app read its secrets.
package infrastructure

import (
	"fmt"

	"github.com/genieops/teamsgenie/internal/platform/azure"
	"github.com/genieops/teamsgenie/internal/provisioning"
)

// Vault secret names the hosted application resolves at startup. These are a
// hard contract with the app's configuration loader.
const (
	SecretAppID          = "microsoft-app-id"
	SecretAppPassword    = "microsoft-app-password"
	SecretTenantID       = "microsoft-app-tenant-id"
	SecretDatabricksHost = "databricks-host"
	SecretGenieSpaceID   = "genie-space-id"

	// Optional Databricks OAuth service principal.
	SecretDatabricksClientID     = "databricks-client-id"
	SecretDatabricksClientSecret = "databricks-client-secret"
)

// Host configuration contract with the application entry point.
const (
	// RuntimeStack pins the Linux runtime version.
	RuntimeStack = "PYTHON|3.11"

	// StartupCommand names the app's entry module. It must match the
	// deployed source exactly or the site never comes up.
	StartupCommand = "python -m aiohttp.web -H 0.0.0.0 -P 8000 app_azure:init_func"

	appPort = "8000"

	// publicURLSetting tells the hosted app the URL it is reachable on.
	publicURLSetting = "BOT_PUBLIC_URL"
)

// Provisioner implements the infrastructure phase.
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string {
	return "infrastructure"
}

// Provision stands up the resource group, vault, plan and web app. Every
// step is fatal; the optional Databricks OAuth secrets are skipped when
// unset, not failed.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	state := ctx.State
	var planID string

	steps := []provisioning.Step{
		{
			Name:   "create resource group",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				provisioning.LogResourceCreating(ctx.Observer, p.Name(), "resource group", cfg.ResourceGroup)
				return ctx.Cloud.EnsureResourceGroup(ctx, cfg.ResourceGroup, cfg.Location)
			},
		},
		{
			Name:   "create key vault",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				provisioning.LogResourceCreating(ctx.Observer, p.Name(), "key vault", cfg.KeyVaultName)
				uri, err := ctx.Cloud.CreateVault(ctx, cfg.ResourceGroup, cfg.KeyVaultName, cfg.Location)
				if err != nil {
					return err
				}
				state.VaultURI = uri
				provisioning.LogResourceCreated(ctx.Observer, p.Name(), "key vault", cfg.KeyVaultName, uri)
				return nil
			},
		},
		{
			Name:   "store runtime secrets",
			Policy: provisioning.PolicyFatal,
			Run:    p.storeSecrets,
		},
		{
			Name:   "create app service plan",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				provisioning.LogResourceCreating(ctx.Observer, p.Name(), "app service plan", cfg.AppServicePlan)
				id, err := ctx.Cloud.CreatePlan(ctx, cfg.ResourceGroup, cfg.AppServicePlan, cfg.Location)
				if err != nil {
					return err
				}
				planID = id
				return nil
			},
		},
		{
			Name:   "create web app",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				provisioning.LogResourceCreating(ctx.Observer, p.Name(), "web app", cfg.AppName)
				site, err := ctx.Cloud.CreateWebApp(ctx, cfg.ResourceGroup, cfg.AppName, cfg.Location, azure.WebAppSpec{
					PlanID:         planID,
					RuntimeStack:   RuntimeStack,
					StartupCommand: StartupCommand,
					AppSettings:    p.appSettings(ctx),
				})
				if err != nil {
					return err
				}
				state.SiteHost = site.DefaultHostName
				state.PublicURL = "https://" + site.DefaultHostName
				state.PrincipalID = site.PrincipalID
				provisioning.LogResourceCreated(ctx.Observer, p.Name(), "web app", cfg.AppName, site.DefaultHostName)

				// Some subscriptions assign regionalized default host names,
				// e.g. {app}.canadacentral-01.azurewebsites.net. The setting
				// was derived before creation, so reconcile it with the host
				// the platform actually assigned.
				if state.PublicURL != derivedPublicURL(cfg.AppName) {
					ctx.Observer.Printf("[%s] updating %s to %s", p.Name(), publicURLSetting, state.PublicURL)
					return ctx.Cloud.UpdateAppSetting(ctx, cfg.ResourceGroup, cfg.AppName, publicURLSetting, state.PublicURL)
				}
				return nil
			},
		},
		{
			Name:   "grant vault access",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				return ctx.Cloud.GrantSecretAccess(ctx, cfg.ResourceGroup, cfg.KeyVaultName, state.PrincipalID)
			},
		},
	}

	return provisioning.RunSteps(ctx, p.Name(), steps)
}

// storeSecrets writes the runtime secrets into the vault. The required five
// are written unconditionally; the Databricks OAuth pair only when configured.
func (p *Provisioner) storeSecrets(ctx *provisioning.Context) error {
	cfg := ctx.Config
	id := ctx.State.Identity

	required := []struct {
		name  string
		value string
	}{
		{SecretAppID, id.AppID},
		{SecretAppPassword, id.ClientSecret},
		{SecretTenantID, cfg.TenantID},
		{SecretDatabricksHost, cfg.DatabricksHost},
		{SecretGenieSpaceID, cfg.GenieSpaceID},
	}
	for _, s := range required {
		if err := ctx.Cloud.SetSecret(ctx, ctx.State.VaultURI, s.name, s.value); err != nil {
			return fmt.Errorf("secret %s: %w", s.name, err)
		}
	}

	optional := []struct {
		name  string
		value string
	}{
		{SecretDatabricksClientID, cfg.DatabricksClientID},
		{SecretDatabricksClientSecret, cfg.DatabricksClientSecret},
	}
	for _, s := range optional {
		if s.value == "" {
			provisioning.LogStepSkipped(ctx.Observer, p.Name(), "secret "+s.name, "not configured")
			continue
		}
		if err := ctx.Cloud.SetSecret(ctx, ctx.State.VaultURI, s.name, s.value); err != nil {
			return fmt.Errorf("secret %s: %w", s.name, err)
		}
	}
	return nil
}

// appSettings builds the host configuration consumed by the application.
func (p *Provisioner) appSettings(ctx *provisioning.Context) map[string]string {
	return map[string]string{
		"KEY_VAULT_URL":                  ctx.State.VaultURI,
		publicURLSetting:                 derivedPublicURL(ctx.Config.AppName),
		"WEBSITES_PORT":                  appPort,
		"SCM_DO_BUILD_DURING_DEPLOYMENT": "true",
	}
}

// derivedPublicURL is the best guess for the site URL before the platform
// reports the assigned host name.
func derivedPublicURL(appName string) string {
	return fmt.Sprintf("https://%s.azurewebsites.net", appName)
}
