package hubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jon4hz/modhub/internal/api/models"
)

// AuthResult is the answer to a successful login or registration.
type AuthResult struct {
	User         *models.User
	SessionToken string
}

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type authResponse struct {
	Success      bool         `json:"success"`
	User         *models.User `json:"user"`
	SessionToken string       `json:"session_token"`
	Error        string       `json:"error"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, authRequest{Action: "login", Email: email, Password: password})
}

// Register creates an account and returns a session token for it.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, authRequest{Action: "register", Username: username, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, req authRequest) (*AuthResult, error) {
	var resp authResponse
	if err := c.doRequest(ctx, http.MethodPost, c.authURL, "", nil, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.SessionToken == "" || resp.User == nil {
		return nil, &ValidationError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return &AuthResult{User: resp.User, SessionToken: resp.SessionToken}, nil
}

// Verify returns the user the token belongs to.
// A negative answer from the server yields ErrSessionInvalid.
func (c *Client) Verify(ctx context.Context, token string) (*models.User, error) {
	var resp authResponse
	err := c.doRequest(ctx, http.MethodPost, c.authURL, token, nil, authRequest{Action: "verify"}, &resp)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return nil, fmt.Errorf("%w: %s", ErrSessionInvalid, vErr.Message)
		}
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, ErrSessionInvalid
	}
	return resp.User, nil
}

// Logout tells the server to drop the session.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doRequest(ctx, http.MethodPost, c.authURL, token, nil, authRequest{Action: "logout"}, nil)
}
