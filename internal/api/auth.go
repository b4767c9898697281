package api

import "context"

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest changes mutable profile fields.
type UpdateProfileRequest struct {
	Name string `json:"name,omitempty"`
}

// VerifyEmailResult distinguishes a fresh verification from the
// already-verified soft success.
type VerifyEmailResult struct {
	AlreadyVerified bool
}

// Register creates an account and returns the new session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and returns the session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	var u UserProfile
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile updates the current user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserProfile, error) {
	var u UserProfile
	if err := c.put(ctx, "/auth/me", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyEmail confirms an email verification token. The server rejects
// a second verification with a 400, but the user-visible outcome is the
// same as success (proceed to login), so that case is folded into a
// successful result with AlreadyVerified set.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*VerifyEmailResult, error) {
	body := map[string]string{"token": token}
	err := c.post(ctx, "/auth/verify-email", body, nil)
	if err != nil {
		if isAlreadyVerified(err) {
			return &VerifyEmailResult{AlreadyVerified: true}, nil
		}
		return nil, err
	}
	return &VerifyEmailResult{}, nil
}

// Logout invalidates the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}
