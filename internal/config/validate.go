package config

import "fmt"

// Validate checks the required fields. Fields are checked in order and the
// first missing one is reported on its own, so the operator fixes one problem
// at a time instead of decoding a batched message.
func (c *Config) Validate() error {
	if c.TenantID == "" {
		return fmt.Errorf("TENANT_ID is required: set it to your Entra tenant id (az account show --query tenantId)")
	}
	if c.DatabricksHost == "" {
		return fmt.Errorf("DATABRICKS_HOST is required: set it to your workspace URL, e.g. https://adb-1234.5.azuredatabricks.net")
	}
	if c.GenieSpaceID == "" {
		return fmt.Errorf("GENIE_SPACE_ID is required: copy it from the Genie space URL in your Databricks workspace")
	}
	if c.SubscriptionID == "" {
		return fmt.Errorf("SUBSCRIPTION_ID is required: set it in the config file or export AZURE_SUBSCRIPTION_ID")
	}
	return nil
}
