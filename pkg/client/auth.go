package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/naveenspark/storefront/pkg/domain"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string      `json:"name" validate:"required,min=2,max=80"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     domain.Role `json:"role" validate:"required,oneof=USER SELLER"`
}

// LoginResponse is the login payload: a token plus the profile fields.
type LoginResponse struct {
	Token string `json:"token"`
	domain.User
}

// ProfileUpdate is the payload for editing one's own profile.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	var u domain.User
	if err := c.Post(ctx, "/users/register", reg, &u); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &u, nil
}

// ForgotPassword asks the server to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if err := c.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("client.ForgotPassword: %w", err)
	}
	return nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	if err := c.Post(ctx, "/auth/reset-password", body, nil); err != nil {
		return fmt.Errorf("client.ResetPassword: %w", err)
	}
	return nil
}

// GetUser fetches a profile by ID.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := c.Get(ctx, "/users/"+strconv.FormatInt(id, 10), &u); err != nil {
		return nil, fmt.Errorf("client.GetUser: %w", err)
	}
	return &u, nil
}

// UpdateProfile edits name, email and optionally password.
func (c *Client) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.Put(ctx, "/users/"+strconv.FormatInt(id, 10), upd, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &u, nil
}

// RequestSellerApproval re-submits a rejected seller account for review.
func (c *Client) RequestSellerApproval(ctx context.Context) error {
	if err := c.Post(ctx, "/users/sellers/request-approval", nil, nil); err != nil {
		return fmt.Errorf("client.RequestSellerApproval: %w", err)
	}
	return nil
}
