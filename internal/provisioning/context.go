package provisioning

import (
	"context"
	"net/http"
	"time"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/platform/azure"
)

// IdentityRecord holds the application identity produced by the identity
// phase. It is created once and never mutated afterwards; phases 3-5 only
// read from it.
type IdentityRecord struct {
	// AppID is the application (client) id.
	AppID string

	// ObjectID is the directory object id of the app registration.
	ObjectID string

	// ClientSecret is the minted credential. It is retrievable exactly
	// once from the control plane, so it lives here until the summary
	// phase persists it.
	ClientSecret string

	// AppURI is the public identifier, always api://botid-{AppID}.
	AppURI string

	// ScopeID is the delegated permission scope id.
	ScopeID string
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Identity results (populated by the identity provisioner).
	Identity IdentityRecord

	// Infrastructure results (populated by the infrastructure provisioner).
	VaultURI    string
	PrincipalID string
	SiteHost    string // platform-assigned host name
	PublicURL   string // https://{SiteHost}

	// Package results (populated by the package generator).
	ManifestPath string
	PackagePath  string

	// Warnings accumulated by tolerated step failures across all phases.
	Warnings []Warning
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Cloud    azure.CloudManager
	Observer Observer

	// HTTPClient performs the post-deploy health probe.
	HTTPClient *http.Client

	// Sleep implements the fixed settling delays. Injectable so tests
	// do not wait.
	Sleep func(time.Duration)
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, cloud azure.CloudManager) *Context {
	return &Context{
		Context:    ctx,
		Config:     cfg,
		State:      NewState(),
		Cloud:      cloud,
		Observer:   NewConsoleObserver(),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Sleep:      time.Sleep,
	}
}

// Warn records a tolerated step failure and reports it to the observer.
func (c *Context) Warn(phase, step string, err error, remediation string) {
	w := Warning{Phase: phase, Step: step, Err: err, Remediation: remediation}
	c.State.Warnings = append(c.State.Warnings, w)
	LogStepWarning(c.Observer, phase, step, err)
}
