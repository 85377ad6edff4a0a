package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// CreateVault creates a standard-SKU Key Vault using the access-policy
// permission model and returns its URI. The vault starts with no access
// policies; the deploying identity writes secrets through the data plane and
// the site's managed identity is granted read access separately.
func (c *RealClient) CreateVault(ctx context.Context, resourceGroup, name, location string) (string, error) {
	poller, err := c.vaults.BeginCreateOrUpdate(ctx, resourceGroup, name, armkeyvault.VaultCreateOrUpdateParameters{
		Location: to.Ptr(location),
		Properties: &armkeyvault.VaultProperties{
			TenantID: to.Ptr(c.tenantID),
			SKU: &armkeyvault.SKU{
				Family: to.Ptr(armkeyvault.SKUFamilyA),
				Name:   to.Ptr(armkeyvault.SKUNameStandard),
			},
			AccessPolicies:          []*armkeyvault.AccessPolicyEntry{},
			EnableRbacAuthorization: to.Ptr(false),
			EnabledForDeployment:    to.Ptr(false),
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create key vault %s: %w", name, err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create key vault %s: %w", name, err)
	}
	if resp.Properties == nil || resp.Properties.VaultURI == nil {
		return "", fmt.Errorf("key vault %s returned no vault URI", name)
	}
	return *resp.Properties.VaultURI, nil
}

// SetSecret writes a secret through the vault data plane.
func (c *RealClient) SetSecret(ctx context.Context, vaultURI, name, value string) error {
	client, err := azsecrets.NewClient(vaultURI, c.credential, nil)
	if err != nil {
		return fmt.Errorf("failed to create secrets client for %s: %w", vaultURI, err)
	}

	_, err = client.SetSecret(ctx, name, azsecrets.SetSecretParameters{Value: to.Ptr(value)}, nil)
	if err != nil {
		return fmt.Errorf("failed to set secret %s: %w", name, err)
	}
	return nil
}

// GrantSecretAccess adds an access policy granting get+list on secrets to
// the given principal. This is how the hosted application reads its
// configuration at runtime without embedded credentials.
func (c *RealClient) GrantSecretAccess(ctx context.Context, resourceGroup, vaultName, principalID string) error {
	_, err := c.vaults.UpdateAccessPolicy(ctx, resourceGroup, vaultName, armkeyvault.AccessPolicyUpdateKindAdd,
		armkeyvault.VaultAccessPolicyParameters{
			Properties: &armkeyvault.VaultAccessPolicyProperties{
				AccessPolicies: []*armkeyvault.AccessPolicyEntry{
					{
						TenantID: to.Ptr(c.tenantID),
						ObjectID: to.Ptr(principalID),
						Permissions: &armkeyvault.Permissions{
							Secrets: []*armkeyvault.SecretPermissions{
								to.Ptr(armkeyvault.SecretPermissionsGet),
								to.Ptr(armkeyvault.SecretPermissionsList),
							},
						},
					},
				},
			},
		}, nil)
	if err != nil {
		return fmt.Errorf("failed to grant secret access on %s to %s: %w", vaultName, principalID, err)
	}
	return nil
}
