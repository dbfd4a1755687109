// ABOUTME: Organization lookups for the session key's account
// ABOUTME: Fetched on demand, never cached

package claude

import (
	"context"
	"fmt"
	"net/http"
)

// ListOrganizations returns the organizations the session belongs to. An
// expired session key surfaces as an error matching session.ErrAuthFailed.
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.doJSON(ctx, http.MethodGet, organizationsPath, nil, &orgs); err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	return orgs, nil
}

// GetOrganization returns the organization with the given UUID.
func (c *Client) GetOrganization(ctx context.Context, orgID string) (*Organization, error) {
	if err := requireIDs(orgID); err != nil {
		return nil, err
	}

	orgs, err := c.ListOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orgs {
		if orgs[i].UUID == orgID {
			return &orgs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOrganizationNotFound, orgID)
}
