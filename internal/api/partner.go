package api

import "context"

// GetPartnerLink fetches the current partner relationship.
func (c *Client) GetPartnerLink(ctx context.Context) (*PartnerLink, error) {
	var p PartnerLink
	if err := c.get(ctx, "/partner", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// InvitePartner generates an invite code for the partner to accept.
func (c *Client) InvitePartner(ctx context.Context, email string) (*PartnerLink, error) {
	var p PartnerLink
	body := map[string]string{"email": email}
	if err := c.post(ctx, "/partner/invite", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AcceptPartnerInvite links the current user using an invite code.
func (c *Client) AcceptPartnerInvite(ctx context.Context, code string) (*PartnerLink, error) {
	var p PartnerLink
	body := map[string]string{"code": code}
	if err := c.post(ctx, "/partner/accept", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UnlinkPartner removes the partner relationship.
func (c *Client) UnlinkPartner(ctx context.Context) error {
	return c.delete(ctx, "/partner")
}
