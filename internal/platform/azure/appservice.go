package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v2"
	"github.com/avast/retry-go/v4"
)

// Zip-deploy polling bounds. The SCM endpoint accepts the archive
// asynchronously; completion is confirmed by polling the deployment status.
const (
	deployPollAttempts = 30
	deployPollDelay    = 10 * time.Second
)

// CreatePlan creates a Linux B1 hosting plan and returns its resource id.
func (c *RealClient) CreatePlan(ctx context.Context, resourceGroup, name, location string) (string, error) {
	poller, err := c.plans.BeginCreateOrUpdate(ctx, resourceGroup, name, armappservice.Plan{
		Location: to.Ptr(location),
		Kind:     to.Ptr("linux"),
		SKU: &armappservice.SKUDescription{
			Name: to.Ptr("B1"),
			Tier: to.Ptr("Basic"),
		},
		Properties: &armappservice.PlanProperties{
			// Reserved marks the plan as Linux.
			Reserved: to.Ptr(true),
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create app service plan %s: %w", name, err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create app service plan %s: %w", name, err)
	}
	if resp.ID == nil {
		return "", fmt.Errorf("app service plan %s returned no resource id", name)
	}
	return *resp.ID, nil
}

// CreateWebApp creates the site with a system-assigned managed identity and
// the full host configuration in one call: runtime stack, app settings and
// the startup command.
func (c *RealClient) CreateWebApp(ctx context.Context, resourceGroup, name, location string, spec WebAppSpec) (SiteInfo, error) {
	settings := make([]*armappservice.NameValuePair, 0, len(spec.AppSettings))
	keys := make([]string, 0, len(spec.AppSettings))
	for k := range spec.AppSettings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		settings = append(settings, &armappservice.NameValuePair{
			Name:  to.Ptr(k),
			Value: to.Ptr(spec.AppSettings[k]),
		})
	}

	poller, err := c.webApps.BeginCreateOrUpdate(ctx, resourceGroup, name, armappservice.Site{
		Location: to.Ptr(location),
		Kind:     to.Ptr("app,linux"),
		Identity: &armappservice.ManagedServiceIdentity{
			Type: to.Ptr(armappservice.ManagedServiceIdentityTypeSystemAssigned),
		},
		Properties: &armappservice.SiteProperties{
			ServerFarmID: to.Ptr(spec.PlanID),
			HTTPSOnly:    to.Ptr(true),
			SiteConfig: &armappservice.SiteConfig{
				LinuxFxVersion: to.Ptr(spec.RuntimeStack),
				AppCommandLine: to.Ptr(spec.StartupCommand),
				AppSettings:    settings,
			},
		},
	}, nil)
	if err != nil {
		return SiteInfo{}, fmt.Errorf("failed to create web app %s: %w", name, err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return SiteInfo{}, fmt.Errorf("failed to create web app %s: %w", name, err)
	}

	info := SiteInfo{}
	if resp.Properties != nil && resp.Properties.DefaultHostName != nil {
		info.DefaultHostName = *resp.Properties.DefaultHostName
	}
	if resp.Identity != nil && resp.Identity.PrincipalID != nil {
		info.PrincipalID = *resp.Identity.PrincipalID
	}
	if info.DefaultHostName == "" {
		return SiteInfo{}, fmt.Errorf("web app %s returned no host name", name)
	}
	if info.PrincipalID == "" {
		return SiteInfo{}, fmt.Errorf("web app %s returned no managed identity principal", name)
	}
	return info, nil
}

// UpdateAppSetting sets one app setting. The ARM settings endpoint replaces
// the whole collection, so the current settings are read back and merged.
func (c *RealClient) UpdateAppSetting(ctx context.Context, resourceGroup, appName, key, value string) error {
	current, err := c.webApps.ListApplicationSettings(ctx, resourceGroup, appName, nil)
	if err != nil {
		return fmt.Errorf("failed to read app settings for %s: %w", appName, err)
	}

	settings := current.Properties
	if settings == nil {
		settings = make(map[string]*string)
	}
	settings[key] = to.Ptr(value)

	_, err = c.webApps.UpdateApplicationSettings(ctx, resourceGroup, appName, armappservice.StringDictionary{
		Properties: settings,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to update app setting %s on %s: %w", key, appName, err)
	}
	return nil
}

// DeployZip pushes an application archive to the site's SCM endpoint and
// polls the asynchronous deployment until it completes.
func (c *RealClient) DeployZip(ctx context.Context, resourceGroup, appName string, archive []byte) error {
	user, password, err := c.publishingCredentials(ctx, resourceGroup, appName)
	if err != nil {
		return err
	}

	deployURL := fmt.Sprintf("https://%s.scm.azurewebsites.net/api/zipdeploy?isAsync=true", appName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deployURL, bytes.NewReader(archive))
	if err != nil {
		return fmt.Errorf("failed to build zip deploy request: %w", err)
	}
	req.SetBasicAuth(user, password)
	req.Header.Set("Content-Type", "application/zip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zip deploy failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("zip deploy rejected with status %d: %s", resp.StatusCode, string(body))
	}

	statusURL := resp.Header.Get("Location")
	if statusURL == "" {
		// Synchronous completion.
		return nil
	}

	return c.waitForDeployment(ctx, statusURL, user, password)
}

// waitForDeployment polls the deployment status URL returned by the SCM
// endpoint until the deployment finishes.
func (c *RealClient) waitForDeployment(ctx context.Context, statusURL, user, password string) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.SetBasicAuth(user, password)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			switch resp.StatusCode {
			case http.StatusOK:
				return nil
			case http.StatusAccepted:
				return fmt.Errorf("deployment still in progress")
			default:
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return retry.Unrecoverable(fmt.Errorf("deployment failed with status %d: %s", resp.StatusCode, string(body)))
			}
		},
		retry.Context(ctx),
		retry.Attempts(deployPollAttempts),
		retry.Delay(deployPollDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *RealClient) publishingCredentials(ctx context.Context, resourceGroup, appName string) (string, string, error) {
	poller, err := c.webApps.BeginListPublishingCredentials(ctx, resourceGroup, appName, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to list publishing credentials for %s: %w", appName, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to list publishing credentials for %s: %w", appName, err)
	}
	if resp.Properties == nil || resp.Properties.PublishingUserName == nil || resp.Properties.PublishingPassword == nil {
		return "", "", fmt.Errorf("publishing credentials for %s are incomplete", appName)
	}
	return *resp.Properties.PublishingUserName, *resp.Properties.PublishingPassword, nil
}
