package config

import (
	"fmt"
	"strings"

	"github.com/genieops/teamsgenie/internal/util/naming"
)

// Defaults applied during Resolve when the corresponding key is unset.
const (
	// DefaultBotBase is the prefix for derived bot names; the per-run random
	// suffix is appended to it.
	DefaultBotBase = "genie-bot"

	// DefaultLocation is the Azure region used when LOCATION is unset.
	DefaultLocation = "eastus"
)

// Config is the flat deployment configuration. Keys map 1:1 to the KEY=VALUE
// entries of the configuration file; see Keys for the canonical names.
type Config struct {
	// Required.
	TenantID       string
	DatabricksHost string
	GenieSpaceID   string

	// Required after environment overlay (AZURE_SUBSCRIPTION_ID is honored).
	SubscriptionID string

	// Optional, derived from the run suffix when unset.
	BotName        string
	ResourceGroup  string
	KeyVaultName   string
	AppServicePlan string
	AppName        string
	Location       string

	// Optional Databricks OAuth service principal. When unset the matching
	// vault secrets are skipped, not failed.
	DatabricksClientID     string
	DatabricksClientSecret string

	// Optional Teams manifest branding. Defaults are applied by the package
	// generator, not here.
	DeveloperName    string
	DeveloperWebsite string
	DeveloperPrivacy string
	DeveloperTerms   string
}

// fieldRef pairs a config key with the struct field it populates.
type fieldRef struct {
	Key string
	Ptr *string
}

func (c *Config) fields() []fieldRef {
	return []fieldRef{
		{"TENANT_ID", &c.TenantID},
		{"DATABRICKS_HOST", &c.DatabricksHost},
		{"GENIE_SPACE_ID", &c.GenieSpaceID},
		{"SUBSCRIPTION_ID", &c.SubscriptionID},
		{"BOT_NAME", &c.BotName},
		{"RESOURCE_GROUP", &c.ResourceGroup},
		{"KEY_VAULT_NAME", &c.KeyVaultName},
		{"APP_SERVICE_PLAN", &c.AppServicePlan},
		{"APP_NAME", &c.AppName},
		{"LOCATION", &c.Location},
		{"DATABRICKS_CLIENT_ID", &c.DatabricksClientID},
		{"DATABRICKS_CLIENT_SECRET", &c.DatabricksClientSecret},
		{"DEVELOPER_NAME", &c.DeveloperName},
		{"DEVELOPER_WEBSITE", &c.DeveloperWebsite},
		{"DEVELOPER_PRIVACY", &c.DeveloperPrivacy},
		{"DEVELOPER_TERMS", &c.DeveloperTerms},
	}
}

// Keys returns the canonical configuration key names in declaration order.
func Keys() []string {
	var c Config
	refs := c.fields()
	keys := make([]string, 0, len(refs))
	for _, r := range refs {
		keys = append(keys, r.Key)
	}
	return keys
}

// fromMap populates the config from a flat key/value map. Unknown keys are
// ignored so the same file can carry operator notes for other tooling.
func fromMap(values map[string]string) *Config {
	c := &Config{}
	for _, r := range c.fields() {
		if v, ok := values[r.Key]; ok {
			*r.Ptr = strings.TrimSpace(v)
		}
	}
	return c
}

// Resolve fills every unset optional field. Derived resource names all reuse
// the same run suffix via the bot name, so one deployment's resources are
// correlated. Derivation is pure given the suffix.
func (c *Config) Resolve(suffix string) {
	if c.BotName == "" {
		c.BotName = naming.BotName(DefaultBotBase, suffix)
	}
	if c.ResourceGroup == "" {
		c.ResourceGroup = naming.ResourceGroup(c.BotName)
	}
	if c.KeyVaultName == "" {
		c.KeyVaultName = naming.KeyVault(c.BotName)
	}
	if c.AppServicePlan == "" {
		c.AppServicePlan = naming.AppServicePlan(c.BotName)
	}
	if c.AppName == "" {
		c.AppName = naming.AppName(c.BotName)
	}
	if c.Location == "" {
		c.Location = DefaultLocation
	}
}

// Summary renders the resolved configuration for operator confirmation.
// Secret values are masked.
func (c *Config) Summary() string {
	var b strings.Builder
	write := func(key, value string) {
		fmt.Fprintf(&b, "  %-26s %s\n", key, value)
	}
	write("TENANT_ID", c.TenantID)
	write("SUBSCRIPTION_ID", c.SubscriptionID)
	write("DATABRICKS_HOST", c.DatabricksHost)
	write("GENIE_SPACE_ID", c.GenieSpaceID)
	write("BOT_NAME", c.BotName)
	write("RESOURCE_GROUP", c.ResourceGroup)
	write("KEY_VAULT_NAME", c.KeyVaultName)
	write("APP_SERVICE_PLAN", c.AppServicePlan)
	write("APP_NAME", c.AppName)
	write("LOCATION", c.Location)
	if c.DatabricksClientID != "" {
		write("DATABRICKS_CLIENT_ID", c.DatabricksClientID)
		write("DATABRICKS_CLIENT_SECRET", mask(c.DatabricksClientSecret))
	}
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
