// Package fakes provides an in-memory CloudManager for provisioning tests.
package fakes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/genieops/teamsgenie/internal/platform/azure"
)

// FakeCloud implements azure.CloudManager in memory. Every call is recorded
// in order; per-method errors can be injected through Err.
type FakeCloud struct {
	mu sync.Mutex

	// Calls records method names in invocation order.
	Calls []string

	// Err maps a method name to the error it should return.
	Err map[string]error

	// Canned results.
	AppID       string
	ObjectID    string
	SecretText  string
	VaultURI    string
	HostName    string
	PrincipalID string

	// Recorded state.
	DisplayName     string
	IdentifierURIs  map[string]string
	Scopes          map[string]azure.APIScope
	Preauthorized   map[string][]string
	RequiredAccess  []string
	Principals      []string
	ConsentGrants   []string
	RedirectURIs    []string
	SecretLabels    []string
	ResourceGroups  map[string]string
	Vaults          []string
	Secrets         map[string]string
	AccessGrants    []string
	Plans           []string
	WebAppSpec      azure.WebAppSpec
	UpdatedSettings map[string]string
	DeployedArchive []byte
	BotEndpoint     string
	BotAppID        string
	TeamsEnabled    bool
	Connection      azure.OAuthConnectionSpec
}

// NewFakeCloud returns a fake with plausible canned identifiers.
func NewFakeCloud() *FakeCloud {
	return &FakeCloud{
		Err:             make(map[string]error),
		AppID:           "11111111-2222-3333-4444-555555555555",
		ObjectID:        "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
		SecretText:      "fake-client-secret",
		VaultURI:        "https://fake-kv.vault.azure.net/",
		HostName:        "fake-app.azurewebsites.net",
		PrincipalID:     "99999999-8888-7777-6666-555555555555",
		IdentifierURIs:  make(map[string]string),
		Scopes:          make(map[string]azure.APIScope),
		Preauthorized:   make(map[string][]string),
		ResourceGroups:  make(map[string]string),
		Secrets:         make(map[string]string),
		UpdatedSettings: make(map[string]string),
	}
}

func (f *FakeCloud) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, method)
	return f.Err[method]
}

// Called reports whether the named method was invoked.
func (f *FakeCloud) Called(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c == method {
			return true
		}
	}
	return false
}

func (f *FakeCloud) CreateApplication(_ context.Context, displayName string) (azure.AppIdentity, error) {
	if err := f.record("CreateApplication"); err != nil {
		return azure.AppIdentity{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DisplayName = displayName
	return azure.AppIdentity{AppID: f.AppID, ObjectID: f.ObjectID}, nil
}

func (f *FakeCloud) SetIdentifierURI(_ context.Context, objectID, uri string) error {
	if err := f.record("SetIdentifierURI"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IdentifierURIs[objectID] = uri
	return nil
}

func (f *FakeCloud) AddAPIScope(_ context.Context, objectID string, scope azure.APIScope) error {
	if err := f.record("AddAPIScope"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Scopes[objectID] = scope
	return nil
}

func (f *FakeCloud) PreauthorizeClients(_ context.Context, _, scopeID string, clientAppIDs []string) error {
	if err := f.record("PreauthorizeClients"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Preauthorized[scopeID] = append(f.Preauthorized[scopeID], clientAppIDs...)
	return nil
}

func (f *FakeCloud) RequireResourceAccess(_ context.Context, _, resourceAppID, permissionID string) error {
	if err := f.record("RequireResourceAccess"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RequiredAccess = append(f.RequiredAccess, fmt.Sprintf("%s/%s", resourceAppID, permissionID))
	return nil
}

func (f *FakeCloud) EnsureServicePrincipal(_ context.Context, appID string) (string, error) {
	if err := f.record("EnsureServicePrincipal"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Principals = append(f.Principals, appID)
	return "sp-" + appID, nil
}

func (f *FakeCloud) GrantAdminConsent(_ context.Context, appID, resourceAppID, scope string) error {
	if err := f.record("GrantAdminConsent"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ConsentGrants = append(f.ConsentGrants, fmt.Sprintf("%s->%s:%s", appID, resourceAppID, scope))
	return nil
}

func (f *FakeCloud) AddRedirectURI(_ context.Context, _, uri string) error {
	if err := f.record("AddRedirectURI"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RedirectURIs = append(f.RedirectURIs, uri)
	return nil
}

func (f *FakeCloud) AddClientSecret(_ context.Context, _, displayName string, _ time.Duration) (string, error) {
	if err := f.record("AddClientSecret"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SecretLabels = append(f.SecretLabels, displayName)
	return f.SecretText, nil
}

func (f *FakeCloud) EnsureResourceGroup(_ context.Context, name, location string) error {
	if err := f.record("EnsureResourceGroup"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResourceGroups[name] = location
	return nil
}

func (f *FakeCloud) CreateVault(_ context.Context, _, name, _ string) (string, error) {
	if err := f.record("CreateVault"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Vaults = append(f.Vaults, name)
	return f.VaultURI, nil
}

func (f *FakeCloud) SetSecret(_ context.Context, _, name, value string) error {
	if err := f.record("SetSecret"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Secrets[name] = value
	return nil
}

func (f *FakeCloud) GrantSecretAccess(_ context.Context, _, vaultName, principalID string) error {
	if err := f.record("GrantSecretAccess"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AccessGrants = append(f.AccessGrants, fmt.Sprintf("%s->%s", vaultName, principalID))
	return nil
}

func (f *FakeCloud) CreatePlan(_ context.Context, _, name, _ string) (string, error) {
	if err := f.record("CreatePlan"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Plans = append(f.Plans, name)
	return "/subscriptions/fake/plans/" + name, nil
}

func (f *FakeCloud) CreateWebApp(_ context.Context, _, _, _ string, spec azure.WebAppSpec) (azure.SiteInfo, error) {
	if err := f.record("CreateWebApp"); err != nil {
		return azure.SiteInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.WebAppSpec = spec
	return azure.SiteInfo{DefaultHostName: f.HostName, PrincipalID: f.PrincipalID}, nil
}

func (f *FakeCloud) UpdateAppSetting(_ context.Context, _, _, key, value string) error {
	if err := f.record("UpdateAppSetting"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdatedSettings[key] = value
	return nil
}

func (f *FakeCloud) DeployZip(_ context.Context, _, _ string, archive []byte) error {
	if err := f.record("DeployZip"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeployedArchive = archive
	return nil
}

func (f *FakeCloud) CreateBot(_ context.Context, _, _, _, appID, _, endpoint string) error {
	if err := f.record("CreateBot"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BotAppID = appID
	f.BotEndpoint = endpoint
	return nil
}

func (f *FakeCloud) EnableTeamsChannel(_ context.Context, _, _ string) error {
	if err := f.record("EnableTeamsChannel"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TeamsEnabled = true
	return nil
}

func (f *FakeCloud) CreateOAuthConnection(_ context.Context, _, _ string, spec azure.OAuthConnectionSpec) error {
	if err := f.record("CreateOAuthConnection"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Connection = spec
	return nil
}

var _ azure.CloudManager = (*FakeCloud)(nil)
