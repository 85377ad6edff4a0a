// Package manifest renders the Teams app manifest from its template,
// validates the identity bindings in the result, and bundles it with the
// icon assets into an installable app package.
package manifest

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/genieops/teamsgenie/internal/provisioning"
	"github.com/genieops/teamsgenie/internal/provisioning/identity"
	"github.com/genieops/teamsgenie/internal/template"
)

// Branding defaults applied when the optional DEVELOPER_* keys are unset.
const (
	DefaultDeveloperName    = "Genie Bot"
	DefaultDeveloperWebsite = "https://www.databricks.com"
	DefaultDeveloperPrivacy = "https://www.databricks.com/legal/privacynotice"
	DefaultDeveloperTerms   = "https://www.databricks.com/legal/terms"
)

// Asset names inside the manifest directory.
const (
	TemplateName = "manifest.template.json"
	ManifestName = "manifest.json"
	PackageName  = "genie-bot-package.zip"

	colorIcon   = "color.png"
	outlineIcon = "outline.png"
)

// Generator implements the package phase.
type Generator struct {
	// Dir is the directory holding the manifest template and icon assets.
	// Rendered outputs are written back into it.
	Dir string
}

// NewGenerator creates a generator reading from the local manifest directory.
func NewGenerator() *Generator {
	return &Generator{Dir: "manifest"}
}

// Name returns the phase name.
func (g *Generator) Name() string {
	return "package"
}

// Provision renders, validates and bundles the Teams app package. Rendering
// and validation are fatal; only missing icon assets degrade to a
// manifest-only archive with a warning.
func (g *Generator) Provision(ctx *provisioning.Context) error {
	steps := []provisioning.Step{
		{
			Name:   "render manifest",
			Policy: provisioning.PolicyFatal,
			Run:    g.render,
		},
		{
			Name:   "validate manifest",
			Policy: provisioning.PolicyFatal,
			Run:    g.validate,
		},
		{
			Name:   "bundle app package",
			Policy: provisioning.PolicyFatal,
			Run:    g.bundle,
		},
	}
	return provisioning.RunSteps(ctx, g.Name(), steps)
}

// values maps the template placeholders to their substitutions, applying the
// branding defaults.
func (g *Generator) values(ctx *provisioning.Context) map[string]string {
	cfg := ctx.Config
	v := map[string]string{
		"APP_ID":            ctx.State.Identity.AppID,
		"APP_NAME":          cfg.BotName,
		"DEVELOPER_NAME":    cfg.DeveloperName,
		"DEVELOPER_WEBSITE": cfg.DeveloperWebsite,
		"DEVELOPER_PRIVACY": cfg.DeveloperPrivacy,
		"DEVELOPER_TERMS":   cfg.DeveloperTerms,
	}
	if v["DEVELOPER_NAME"] == "" {
		v["DEVELOPER_NAME"] = DefaultDeveloperName
	}
	if v["DEVELOPER_WEBSITE"] == "" {
		v["DEVELOPER_WEBSITE"] = DefaultDeveloperWebsite
	}
	if v["DEVELOPER_PRIVACY"] == "" {
		v["DEVELOPER_PRIVACY"] = DefaultDeveloperPrivacy
	}
	if v["DEVELOPER_TERMS"] == "" {
		v["DEVELOPER_TERMS"] = DefaultDeveloperTerms
	}
	return v
}

func (g *Generator) render(ctx *provisioning.Context) error {
	templatePath := filepath.Join(g.Dir, TemplateName)
	doc, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("manifest template %s not found; restore it from the repository", templatePath)
		}
		return err
	}

	rendered, err := template.Render(string(doc), g.values(ctx))
	if err != nil {
		return err
	}

	out := filepath.Join(g.Dir, ManifestName)
	if err := os.WriteFile(out, []byte(rendered), 0o644); err != nil {
		return err
	}
	ctx.State.ManifestPath = out
	return nil
}

// manifestIdentity is the subset of the manifest checked by the validation
// gate.
type manifestIdentity struct {
	ID                 string `json:"id"`
	WebApplicationInfo struct {
		ID       string `json:"id"`
		Resource string `json:"resource"`
	} `json:"webApplicationInfo"`
}

// validate is the correctness gate: a package whose identity bindings do not
// match the provisioned app would install but never complete SSO.
func (g *Generator) validate(ctx *provisioning.Context) error {
	raw, err := os.ReadFile(ctx.State.ManifestPath)
	if err != nil {
		return err
	}

	var m manifestIdentity
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("rendered manifest is not valid JSON: %w", err)
	}

	appID := ctx.State.Identity.AppID
	if m.ID != appID {
		return fmt.Errorf("manifest id %q does not match app id %q", m.ID, appID)
	}
	if want := identity.BotIDURI(appID); m.WebApplicationInfo.Resource != want {
		return fmt.Errorf("webApplicationInfo.resource %q does not match %q", m.WebApplicationInfo.Resource, want)
	}
	return nil
}

func (g *Generator) bundle(ctx *provisioning.Context) error {
	files := []string{ctx.State.ManifestPath}

	var missingIcons []string
	for _, icon := range []string{colorIcon, outlineIcon} {
		p := filepath.Join(g.Dir, icon)
		if _, err := os.Stat(p); err != nil {
			missingIcons = append(missingIcons, icon)
			continue
		}
		files = append(files, p)
	}
	if len(missingIcons) > 0 {
		ctx.Warn(g.Name(), "bundle app package",
			fmt.Errorf("icon assets missing: %v; building manifest-only package", missingIcons),
			"add color.png and outline.png to the manifest directory and rebuild the package")
	}

	out := filepath.Join(g.Dir, PackageName)
	if err := writeZip(out, files); err != nil {
		return err
	}
	ctx.State.PackagePath = out
	provisioning.LogResourceCreated(ctx.Observer, g.Name(), "app package", out, "")
	return nil
}

// writeZip archives the given files flat (no directories) into path.
func writeZip(path string, files []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		entry, err := w.Create(filepath.Base(file))
		if err != nil {
			return err
		}
		if _, err := entry.Write(data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}
