// Package wizard implements the interactive configuration form for
// teamsgenie init. It collects the required deployment settings and hands
// back a flat result the caller serializes to the configuration file.
package wizard

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

// guidRegex matches the canonical GUID form used for tenant ids.
var guidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Result holds the answers from the interactive form.
type Result struct {
	TenantID       string
	SubscriptionID string
	DatabricksHost string
	GenieSpaceID   string

	// Optional overrides; empty means derive at deploy time.
	BotName  string
	Location string
}

// Locations offered by the form. Any Azure region works; these are the
// common ones for App Service + Bot Service.
var Locations = []string{"eastus", "eastus2", "westus2", "westeurope", "northeurope", "uksouth", "australiaeast"}

// RunWizard runs the interactive configuration form. The context is used for
// cancellation (Ctrl+C).
func RunWizard(ctx context.Context) (*Result, error) {
	result := &Result{Location: "eastus"}

	if err := runAzureGroup(ctx, result); err != nil {
		return nil, err
	}
	if err := runDatabricksGroup(ctx, result); err != nil {
		return nil, err
	}
	if err := runNamingGroup(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func runAzureGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tenant ID").
				Description("Entra ID tenant the bot identity is created in").
				Placeholder("00000000-0000-0000-0000-000000000000").
				Value(&result.TenantID).
				Validate(ValidateTenantID),
			huh.NewInput().
				Title("Subscription ID (optional)").
				Description("Leave empty to use AZURE_SUBSCRIPTION_ID from the environment").
				Value(&result.SubscriptionID),
		).Title("Azure"),
	).RunWithContext(ctx)
}

func runDatabricksGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Databricks Workspace URL").
				Placeholder("https://adb-1234567890.12.azuredatabricks.net").
				Value(&result.DatabricksHost).
				Validate(ValidateDatabricksHost),
			huh.NewInput().
				Title("Genie Space ID").
				Description("Found in the Genie space URL in the Databricks workspace").
				Value(&result.GenieSpaceID).
				Validate(ValidateGenieSpaceID),
		).Title("Databricks"),
	).RunWithContext(ctx)
}

func runNamingGroup(ctx context.Context, result *Result) error {
	options := make([]huh.Option[string], 0, len(Locations))
	for _, l := range Locations {
		options = append(options, huh.NewOption(l, l))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bot Name (optional)").
				Description("Leave empty to derive genie-bot-<suffix>; all resource names follow the bot name").
				Value(&result.BotName),
			huh.NewSelect[string]().
				Title("Location").
				Description("Azure region for all resources").
				Options(options...).
				Value(&result.Location),
		).Title("Naming"),
	).RunWithContext(ctx)
}

// ValidateTenantID requires a GUID.
func ValidateTenantID(s string) error {
	if !guidRegex.MatchString(strings.TrimSpace(s)) {
		return errors.New("must be a GUID like 00000000-0000-0000-0000-000000000000")
	}
	return nil
}

// ValidateDatabricksHost requires an https workspace URL.
func ValidateDatabricksHost(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "https://") {
		return errors.New("must start with https://")
	}
	if strings.HasSuffix(s, "/") {
		return errors.New("must not end with a slash")
	}
	return nil
}

// ValidateGenieSpaceID requires a non-empty value.
func ValidateGenieSpaceID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}
