package wizard

import (
	"fmt"
	"os"
	"strings"
)

// WriteEnv serializes the result as the KEY=VALUE configuration file the
// deploy command reads. Optional keys the operator did not set are emitted
// commented out so the file documents the full surface.
func WriteEnv(result *Result, path string) error {
	var b strings.Builder
	b.WriteString("# teamsgenie deployment configuration.\n")
	b.WriteString("# Run 'teamsgenie deploy' in the directory containing this file.\n\n")

	write := func(key, value string) {
		if value == "" {
			fmt.Fprintf(&b, "# %s=\n", key)
			return
		}
		fmt.Fprintf(&b, "%s=%s\n", key, value)
	}

	write("TENANT_ID", result.TenantID)
	write("SUBSCRIPTION_ID", result.SubscriptionID)
	write("DATABRICKS_HOST", result.DatabricksHost)
	write("GENIE_SPACE_ID", result.GenieSpaceID)
	b.WriteString("\n# Optional. Derived from a per-run suffix when unset.\n")
	write("BOT_NAME", result.BotName)
	write("LOCATION", result.Location)
	b.WriteString("\n# Optional Databricks OAuth service principal for app-level auth.\n")
	write("DATABRICKS_CLIENT_ID", "")
	write("DATABRICKS_CLIENT_SECRET", "")
	b.WriteString("\n# Optional Teams manifest branding.\n")
	write("DEVELOPER_NAME", "")
	write("DEVELOPER_WEBSITE", "")
	write("DEVELOPER_PRIVACY", "")
	write("DEVELOPER_TERMS", "")

	return os.WriteFile(path, []byte(b.String()), 0o600)
}
