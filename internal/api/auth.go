package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/scamalert/alertpro/internal/errs"
)

const otpLength = 6

// LoginResult mirrors the token payload from /api/auth/login and
// /api/auth/otp/verify.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password required", errs.ErrValidation)
	}
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/api/auth/login", body, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// RequestOTP asks the server to email a one-time code.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email required", errs.ErrValidation)
	}
	return c.postJSON(ctx, "/api/auth/otp/request", map[string]string{"email": email}, nil)
}

// VerifyOTP exchanges a 6-digit code for a session token. Codes of any other
// length are rejected before a request is issued.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (LoginResult, error) {
	code = strings.TrimSpace(code)
	if len(code) != otpLength {
		return LoginResult{}, fmt.Errorf("%w: otp must be %d digits", errs.ErrValidation, otpLength)
	}
	var out LoginResult
	body := map[string]string{"email": strings.TrimSpace(email), "otp": code}
	if err := c.postJSON(ctx, "/api/auth/otp/verify", body, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// ForgotPassword starts the password reset flow for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email required", errs.ErrValidation)
	}
	return c.postJSON(ctx, "/api/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password after OTP verification.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	if strings.TrimSpace(email) == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password required", errs.ErrValidation)
	}
	body := map[string]string{"email": strings.TrimSpace(email), "password": newPassword}
	return c.postJSON(ctx, "/api/auth/reset-password", body, nil)
}
