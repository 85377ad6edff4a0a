// Package deploy ships the application source to the web app through the
// zip-deploy channel and confirms the site answers its health endpoint.
package deploy

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/genieops/teamsgenie/internal/provisioning"
)

// Source files the hosted application cannot start without.
const (
	AppEntryFile     = "app_azure.py"
	RequirementsFile = "requirements.txt"
)

// healthSettleDelay gives the site time to install dependencies and boot
// before the single health probe. There is no polling loop; a slow cold
// start surfaces as a warning, not a failure.
const healthSettleDelay = 30 * time.Second

// skippedDirs are transient artifacts never shipped to the host.
var skippedDirs = map[string]bool{
	"__pycache__":  true,
	".git":         true,
	"venv":         true,
	".venv":        true,
	"env":          true,
	"node_modules": true,
	"manifest":     true,
}

// Deployer implements the deploy phase.
type Deployer struct {
	// Dir is the directory holding the application source.
	Dir string
}

// NewDeployer creates a deployer reading source from the working directory.
func NewDeployer() *Deployer {
	return &Deployer{Dir: "."}
}

// Name returns the phase name.
func (d *Deployer) Name() string {
	return "deploy"
}

// Provision archives the source, pushes it through zip-deploy and probes the
// health endpoint once. Only the probe is tolerated to fail.
func (d *Deployer) Provision(ctx *provisioning.Context) error {
	var archive []byte

	steps := []provisioning.Step{
		{
			Name:   "check source files",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				for _, name := range []string{AppEntryFile, RequirementsFile} {
					if _, err := os.Stat(filepath.Join(d.Dir, name)); err != nil {
						return fmt.Errorf("required source file %s not found in %s", name, d.Dir)
					}
				}
				return nil
			},
		},
		{
			Name:   "build source archive",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				data, err := d.buildArchive(ctx)
				if err != nil {
					return err
				}
				archive = data
				return nil
			},
		},
		{
			Name:   "push archive",
			Policy: provisioning.PolicyFatal,
			Run: func(ctx *provisioning.Context) error {
				provisioning.LogResourceCreating(ctx.Observer, d.Name(), "zip deployment", ctx.Config.AppName)
				if err := ctx.Cloud.DeployZip(ctx, ctx.Config.ResourceGroup, ctx.Config.AppName, archive); err != nil {
					return err
				}
				provisioning.LogResourceCreated(ctx.Observer, d.Name(), "zip deployment", ctx.Config.AppName, "")
				return nil
			},
		},
		{
			Name:        "probe health endpoint",
			Policy:      provisioning.PolicyWarnAlways,
			Remediation: "check the site manually: curl {public-url}/health and inspect the App Service log stream",
			Run:         d.probeHealth,
		},
	}

	return provisioning.RunSteps(ctx, d.Name(), steps)
}

// buildArchive zips the application source, skipping transient artifacts.
// If the directory walk fails partway, it degrades to the minimal two-file
// archive the site can still boot from.
func (d *Deployer) buildArchive(ctx *provisioning.Context) ([]byte, error) {
	files, err := d.collectSources()
	if err != nil {
		ctx.Warn(d.Name(), "build source archive",
			fmt.Errorf("collecting source set: %w", err),
			"review the source directory; only the entry module and requirements were shipped")
		files = []string{AppEntryFile, RequirementsFile}
	}
	return d.zipFiles(files)
}

// collectSources returns the relative paths of all deployable files under Dir.
func (d *Deployer) collectSources() ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.Dir, path)
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if rel != "." && (skippedDirs[entry.Name()] || strings.HasPrefix(entry.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.skipFile(entry.Name()) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (d *Deployer) skipFile(name string) bool {
	switch {
	case name == ".env" || strings.HasSuffix(name, ".env"):
		return true
	case strings.HasSuffix(name, ".zip") || strings.HasSuffix(name, ".pyc"):
		return true
	case strings.HasPrefix(name, "."):
		return true
	}
	return false
}

func (d *Deployer) zipFiles(files []string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(d.Dir, rel))
		if err != nil {
			return nil, err
		}
		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// probeHealth issues the single post-deploy health check.
func (d *Deployer) probeHealth(ctx *provisioning.Context) error {
	ctx.Sleep(healthSettleDelay)

	url := ctx.State.PublicURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := ctx.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe returned %s", resp.Status)
	}
	ctx.Observer.Printf("[%s] %s answered 200 OK", d.Name(), url)
	return nil
}
