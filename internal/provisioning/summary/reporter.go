// Package summary persists the deployment record and shows the operator
// what to do next. It makes no control-plane calls.
package summary

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/genieops/teamsgenie/internal/provisioning"
)

// RecordFile is the local deployment record. It contains the client secret,
// so it is written owner-read-only.
const RecordFile = "deployment-config.env"

// Reporter implements the summary phase.
type Reporter struct {
	// OutputPath is where the deployment record is written.
	OutputPath string

	// Out receives the rendered next-steps block.
	Out io.Writer

	// Styled forces or suppresses terminal styling. Defaults to whether
	// Out is a terminal.
	Styled bool
}

// NewReporter creates a reporter writing the record beside the binary and
// the summary to stdout.
func NewReporter() *Reporter {
	return &Reporter{
		OutputPath: RecordFile,
		Out:        os.Stdout,
		Styled:     isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// Name returns the phase name.
func (r *Reporter) Name() string {
	return "summary"
}

// Provision writes the deployment record and prints the next steps. It always
// runs when reached, regardless of warnings accumulated earlier.
func (r *Reporter) Provision(ctx *provisioning.Context) error {
	if err := r.writeRecord(ctx); err != nil {
		return fmt.Errorf("write deployment record: %w", err)
	}
	r.printSummary(ctx)
	return nil
}

// writeRecord persists every generated identifier and secret. The record is
// the only place the client secret survives the process; it cannot be
// retrieved from the control plane again.
func (r *Reporter) writeRecord(ctx *provisioning.Context) error {
	cfg := ctx.Config
	id := ctx.State.Identity

	var b strings.Builder
	b.WriteString("# Deployment record written by teamsgenie.\n")
	b.WriteString("# Contains credentials. Keep out of version control.\n\n")

	write := func(key, value string) {
		fmt.Fprintf(&b, "%s=%s\n", key, value)
	}
	write("TENANT_ID", cfg.TenantID)
	write("SUBSCRIPTION_ID", cfg.SubscriptionID)
	write("BOT_NAME", cfg.BotName)
	write("RESOURCE_GROUP", cfg.ResourceGroup)
	write("KEY_VAULT_NAME", cfg.KeyVaultName)
	write("KEY_VAULT_URL", ctx.State.VaultURI)
	write("APP_SERVICE_PLAN", cfg.AppServicePlan)
	write("APP_NAME", cfg.AppName)
	write("PUBLIC_URL", ctx.State.PublicURL)
	write("MICROSOFT_APP_ID", id.AppID)
	write("MICROSOFT_APP_OBJECT_ID", id.ObjectID)
	write("MICROSOFT_APP_PASSWORD", id.ClientSecret)
	write("APP_IDENTIFIER_URI", id.AppURI)
	write("SSO_SCOPE_ID", id.ScopeID)
	write("TEAMS_PACKAGE", ctx.State.PackagePath)

	return os.WriteFile(r.OutputPath, []byte(b.String()), 0o600)
}

func (r *Reporter) printSummary(ctx *provisioning.Context) {
	title := lipgloss.NewStyle().Bold(true)
	section := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	if !r.Styled {
		title, section, warn = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, title.Render("Deployment complete"))
	fmt.Fprintf(r.Out, "  Bot:        %s\n", ctx.Config.BotName)
	fmt.Fprintf(r.Out, "  Site:       %s\n", ctx.State.PublicURL)
	fmt.Fprintf(r.Out, "  Record:     %s\n", r.OutputPath)
	if ctx.State.PackagePath != "" {
		fmt.Fprintf(r.Out, "  Package:    %s\n", ctx.State.PackagePath)
	}

	if warnings := ctx.State.Warnings; len(warnings) > 0 {
		fmt.Fprintln(r.Out)
		fmt.Fprintln(r.Out, warn.Render(fmt.Sprintf("%d step(s) need manual follow-up:", len(warnings))))
		for _, w := range warnings {
			fmt.Fprintf(r.Out, "  - %s\n", w.String())
		}
	}

	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, section.Render("Next steps"))
	fmt.Fprintf(r.Out, "  1. Upload %s in Teams (Apps > Manage your apps > Upload an app).\n", ctx.State.PackagePath)
	fmt.Fprintln(r.Out, "  2. If admin consent was warned above, grant it in the Entra portal.")
	fmt.Fprintf(r.Out, "  3. Verify the bot is live: curl %s/health\n", ctx.State.PublicURL)
	fmt.Fprintf(r.Out, "  4. Keep %s safe; the client secret cannot be recovered later.\n", r.OutputPath)
}
